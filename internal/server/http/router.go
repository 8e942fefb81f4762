package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"eventhub/internal/server/http/controller"
	"eventhub/internal/server/http/middleware"
)

func NewRouter(handler *controller.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware("eventhub"),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/notifications/:userId", handler.ListNotifications)
	router.POST("/notifications", handler.CreateNotification)
	router.POST("/notifications/publish", handler.PublishNotification)
	router.PATCH("/notifications/:id/read", handler.MarkNotificationRead)
	router.DELETE("/notifications/:userId", handler.ClearNotifications)

	router.GET("/channel/ws", handler.ChannelWS)
	router.GET("/channel/sse/:userId", handler.ChannelSSE)
	router.POST("/channel/:event", handler.ChannelEvent)

	router.POST("/jobs", handler.RunJob)

	return router
}
