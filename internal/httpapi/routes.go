package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the board endpoints on rg.
//
//	POST   /boards                 upload a board
//	GET    /boards                 list boards
//	GET    /boards/:id             fetch one board
//	DELETE /boards/:id             delete a board
//	POST   /boards/:id/next        advance one generation
//	POST   /boards/:id/ahead       advance ?steps=N generations
//	POST   /boards/:id/final       run to a final state, ?max_iterations=N
//	GET    /session/last           last-active board
//	PUT    /session/last           select the last-active board
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	boards := rg.Group("/boards")
	{
		boards.POST("", h.HandleCreate)
		boards.GET("", h.HandleList)
		boards.GET("/:id", h.HandleGet)
		boards.DELETE("/:id", h.HandleDelete)
		boards.POST("/:id/next", h.HandleNext)
		boards.POST("/:id/ahead", h.HandleAhead)
		boards.POST("/:id/final", h.HandleFinal)
	}

	session := rg.Group("/session")
	{
		session.GET("/last", h.HandleLast)
		session.PUT("/last", h.HandleSelect)
	}
}

// NewRouter builds the full engine: middleware, health, metrics and /v1.
func NewRouter(h *Handlers, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	router.GET("/healthz", h.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterRoutes(router.Group("/v1"), h)
	return router
}
