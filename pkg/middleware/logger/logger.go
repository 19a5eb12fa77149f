package logger

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path     string
	LogLevel string
	ServiceEnv
}

var log *zap.SugaredLogger

// Init builds the global logger. Records go to the rotated file at
// conf.Path and, outside prod, to stderr as well.
func Init(conf *LogConfig) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.Path,
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
	})

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encConf), fileWriter, level),
	}
	if conf.Env != "prod" {
		consoleConf := zap.NewDevelopmentEncoderConfig()
		consoleConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConf),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddCallerSkip(1)).
		With(
			zap.String("platform", conf.Platform),
			zap.String("service", conf.Service),
			zap.String("env", conf.Env),
		).
		Sugar()
}

func Close() {
	if log != nil {
		_ = log.Sync()
	}
}

func Debugf(_ context.Context, format string, args ...any) {
	if log != nil {
		log.Debugf(format, args...)
	}
}

func Infof(_ context.Context, format string, args ...any) {
	if log != nil {
		log.Infof(format, args...)
	}
}

func Warnf(_ context.Context, format string, args ...any) {
	if log != nil {
		log.Warnf(format, args...)
	}
}

func Errorf(_ context.Context, format string, args ...any) {
	if log != nil {
		log.Errorf(format, args...)
	}
}

// LogWithWriter is a gin access-log middleware on the global logger.
func LogWithWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		Infof(c, "%s %s %d %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start))
	}
}
