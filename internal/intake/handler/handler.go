package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/intake"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const (
	webhookIDHeader = "X-Shopify-Webhook-Id"
	maxPayloadSize  = 1 << 20
)

type WebhookHandler struct {
	processor *intake.Processor
	logger    logger.ZapLogger
}

func NewWebhookHandler(processor *intake.Processor, log logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    log,
	}
}

func (h *WebhookHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/orders/create", h.OrderCreated)
}

// OrderCreated always answers 200 so the platform never retries on our
// account; problems only show up in the logs.
func (h *WebhookHandler) OrderCreated(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadSize))
	if err != nil {
		h.logger.Warn("failed to read webhook body", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	shop := auth.NormalizeShop(c.GetHeader(auth.WebhookShopHeader))
	if !auth.ValidShop(shop) {
		h.logger.Warn("webhook rejected: invalid shop domain", zap.String("shop", shop))
		c.Status(http.StatusOK)
		return
	}

	h.processor.Process(c.Request.Context(), intake.Delivery{
		ShopID:     shop,
		DeliveryID: c.GetHeader(webhookIDHeader),
		Payload:    body,
	})
	c.Status(http.StatusOK)
}
