package server

import (
	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-picking-service/internal/health"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

// Registrar mounts a handler's routes on a group.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

type Routes struct {
	// API handlers are mounted under /api behind the shop check.
	API      []Registrar
	Webhooks Registrar
	Health   *health.Checker
}

func NewRouter(routes Routes, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	// variant and order gids travel URL-escaped in path segments
	r.UseRawPath = true
	r.Use(httpapi.Recovery(log), httpapi.RequestLogger(log))

	if routes.Health != nil {
		routes.Health.Register(r)
	}

	api := r.Group("/api", httpapi.RequireShop())
	for _, h := range routes.API {
		h.Register(api)
	}

	if routes.Webhooks != nil {
		routes.Webhooks.Register(r.Group("/webhooks"))
	}
	return r
}
