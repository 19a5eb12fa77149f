package db

import (
	"context"
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/16967143/database-alchemy/pkg/middleware/logger"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

// Datastore wraps a gorm connection. Transactions are carried through the
// context so repo methods stay oblivious to whether they run inside one.
type Datastore struct {
	db *gorm.DB
}

type txKey struct{}

var datastore *Datastore

func DB() *Datastore {
	return datastore
}

// InitPostgres opens the one session this invocation uses. An unreachable
// endpoint is fatal.
func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)
	open(ctx, postgres.Open(dsn), conf.LogConf)
}

// InitSQLite opens an embedded database instead; the test suites run on it.
func InitSQLite(ctx context.Context, path string, logConf LogConf) {
	open(ctx, sqlite.Open(path), logConf)
}

func open(ctx context.Context, dialector gorm.Dialector, logConf LogConf) {
	level := gormlogger.Warn
	if logConf.Level == "debug" {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		logger.Errorf(ctx, "connect database err: %+v", err)
		fmt.Fprintf(os.Stderr, "cannot connect to database: %v\n", err)
		os.Exit(1)
	}
	datastore = &Datastore{db: gdb}
}

func ClosePostgres(ctx context.Context) {
	if datastore == nil {
		return
	}
	sqlDB, err := datastore.db.DB()
	if err != nil {
		logger.Warnf(ctx, "get sql db err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warnf(ctx, "close database err: %+v", err)
	}
	datastore = nil
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn inside a transaction; DBWithContext calls made with the
// callback's context join it.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
