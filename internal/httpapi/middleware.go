package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

// RequireShop rejects requests without a valid shop domain.
func RequireShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := auth.GetShopID(c)
		if !auth.ValidShop(shop) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "reason": apperror.ReasonMissingShop})
			return
		}
		auth.SetShopID(c, shop)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if shop := auth.GetShopID(c); shop != "" {
			fields = append(fields, zap.String("shop", shop))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns panics into a 500 and logs them.
func Recovery(log logger.ZapLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "reason": "internal_error"})
	})
}
