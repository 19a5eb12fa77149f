package web

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/16967143/database-alchemy/pkg/middleware/logger"
	"github.com/16967143/database-alchemy/pkg/web/views/health"
	recordView "github.com/16967143/database-alchemy/pkg/web/views/record"
)

func NewRouter(ctx context.Context, g *gin.Engine) {
	installMiddleware(g)
	installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	g.Use(cors.Default())
	g.Use(logger.LogWithWriter())
}

func installURL(_ context.Context, g *gin.Engine) {
	api := g.Group("/api")
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)

	rHandle := recordView.NewHandle()
	{
		v1 := api.Group("/v1")
		v1.GET("/analyses", rHandle.Analyses)
		v1.GET("/results", rHandle.Results)
		v1.GET("/databases", rHandle.Databases)
	}
}
