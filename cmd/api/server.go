package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	dbcmd "github.com/16967143/database-alchemy/cmd/db"
	"github.com/16967143/database-alchemy/internal/config"
	"github.com/16967143/database-alchemy/pkg/middleware/db"
	"github.com/16967143/database-alchemy/pkg/middleware/logger"
	"github.com/16967143/database-alchemy/pkg/utils"
	"github.com/16967143/database-alchemy/pkg/web"
)

func NewServe() *cobra.Command {
	opts := &dbcmd.ConnOpts{}
	cmd := &cobra.Command{
		Use:   "serve DB_NAME",
		Short: "Serve read-only query endpoints over HTTP",
		Long: `Serve the query engine over HTTP: /api/v1/analyses, /api/v1/results
and /api/v1/databases, plus health probes. The server is read-only.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Open(cmd, args[0])
			return nil
		},
		RunE: runServer,
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	opts.Bind(cmd)
	return cmd
}

func runServer(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	if conf.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	web.NewRouter(cmd.Root().Context(), router)

	httpServer := http.Server{
		Addr:              ":" + strconv.Itoa(conf.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("query server starting on http://0.0.0.0:%d\n", conf.Server.Port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}
