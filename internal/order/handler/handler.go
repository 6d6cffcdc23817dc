package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/order"
	"github.com/fekuna/omnipos-picking-service/internal/order/dto"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/:id", h.GetOrder)
}

type orderView struct {
	model.Order
	PickingTone     string `json:"pickingTone"`
	FulfillmentTone string `json:"fulfillmentTone"`
}

func toView(o model.Order) orderView {
	return orderView{
		Order:           o,
		PickingTone:     order.ToneForPicking(o.PickingStatus),
		FulfillmentTone: order.ToneForFulfillment(o.FulfillmentStatus),
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, applied, err := h.uc.ListOrders(c.Request.Context(), auth.GetShopID(c), &dto.OrderFilters{
		Fulfillment: c.Query("fulfillment"),
		Picking:     c.Query("status"),
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = toView(o)
	}
	httpapi.OK(c, gin.H{"orders": out, "appliedFilters": applied})
}

// GetOrder expects the order gid URL-escaped in the path.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), auth.GetShopID(c), c.Param("id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"order": toView(*o)})
}
