package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	apiHandler "github.com/taskdeck/bot/api/handler"
	"github.com/taskdeck/bot/internal/observability"
)

type Handlers struct {
	Interaction *apiHandler.InteractionHandler
	Health      *apiHandler.HealthHandler
	Stats       *apiHandler.StatsHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, enableMetrics bool) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Interaction webhook
	r.POST("/interactions", handlers.Interaction.Receive)

	// Admin surface
	r.GET("/api/v1/stats", authMiddleware(handlers.Stats.Get))

	if enableMetrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(observability.MetricsHandler()))
	}

	return r
}
