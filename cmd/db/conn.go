package db

import (
	"github.com/spf13/cobra"

	"github.com/16967143/database-alchemy/internal/config"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
)

// ConnOpts is the connection target shared by every command: the database
// name arrives positionally, the server address and port as options.
// Explicit flags win over environment config.
type ConnOpts struct {
	addr string
	port int
}

func (o *ConnOpts) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.addr, "ip-address", "a", "127.0.0.1",
		"the ip address of the PostgreSQL server to bind to")
	cmd.Flags().IntVarP(&o.port, "port", "p", 5432,
		"the port of the PostgreSQL server to bind to")
}

func (o *ConnOpts) BindPersistent(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.addr, "ip-address", "a", "127.0.0.1",
		"the ip address of the PostgreSQL server to bind to")
	cmd.PersistentFlags().IntVarP(&o.port, "port", "p", 5432,
		"the port of the PostgreSQL server to bind to")
}

// open connects the invocation's single session. Fatal when unreachable.
func (o *ConnOpts) Open(cmd *cobra.Command, dbName string) {
	conf := config.Global()
	host, port := conf.Database.Host, conf.Database.Port
	if cmd.Flags().Changed("ip-address") || host == "" {
		host = o.addr
	}
	if cmd.Flags().Changed("port") || port == 0 {
		port = o.port
	}

	db.InitPostgres(cmd.Context(), &db.Config{
		Host: host, Port: port,
		User: conf.Database.User, PW: conf.Database.Password,
		DBName: dbName,
		LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
}
