// Package health reports database reachability over HTTP and through the
// standard gRPC health service.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const pingTimeout = 3 * time.Second

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Checker struct {
	db       Pinger
	protocol string
	grpc     *grpchealth.Server
	logger   logger.ZapLogger
}

func NewChecker(db Pinger, protocol string, log logger.ZapLogger) *Checker {
	return &Checker{
		db:       db,
		protocol: protocol,
		grpc:     grpchealth.NewServer(),
		logger:   log,
	}
}

// GRPCServer is the health service to register on a *grpc.Server.
func (h *Checker) GRPCServer() *grpchealth.Server {
	return h.grpc
}

func (h *Checker) Register(r gin.IRoutes) {
	r.GET("/health/db", h.Database)
}

func (h *Checker) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.db.PingContext(ctx)
}

func (h *Checker) Database(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "protocol": h.protocol, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "protocol": h.protocol})
}

// Refresh pings once and publishes the result on the gRPC health service.
func (h *Checker) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.ping(ctx); err != nil {
		h.logger.Warn("database unreachable", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.grpc.SetServingStatus("", status)
	return status
}

const DefaultWatchInterval = 15 * time.Second

// Watch refreshes the gRPC status every interval until ctx is done, then
// marks every service as not serving.
func (h *Checker) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	h.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.grpc.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}
