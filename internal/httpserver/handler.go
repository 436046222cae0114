package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"webhook-gateway/internal/middleware"
	"webhook-gateway/internal/model"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerWebhookRoutes()
	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	mw := middleware.New(srv.l)
	if srv.environment != string(model.EnvironmentProduction) {
		srv.gin.Use(mw.RequestLog())
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

// registerWebhookRoutes wires the per-provider intake endpoints. The
// workflow_id path segment identifies the dispatch target.
func (srv HTTPServer) registerWebhookRoutes() {
	ctx := context.Background()

	wh := srv.gin.Group("/webhook")
	wh.POST("/github/:workflow_id", srv.webhookHandler.HandleGitHubWebhook)
	wh.POST("/gitlab/:workflow_id", srv.webhookHandler.HandleGitLabWebhook)
	wh.POST("/git/:workflow_id", srv.webhookHandler.HandleGitWebhook)

	srv.l.Infof(ctx, "Webhook routes registered at POST /webhook/{github,gitlab,git}/:workflow_id")
}
