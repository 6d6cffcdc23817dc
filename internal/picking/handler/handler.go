package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/picking"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type PickingHandler struct {
	status   picking.StatusUseCase
	sessions picking.SessionUseCase
	logger   logger.ZapLogger
}

func NewPickingHandler(status picking.StatusUseCase, sessions picking.SessionUseCase, log logger.ZapLogger) *PickingHandler {
	return &PickingHandler{
		status:   status,
		sessions: sessions,
		logger:   log,
	}
}

func (h *PickingHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/picking-status", h.SetStatus)
	rg.POST("/orders/:id/sessions", h.OpenSession)

	rg.GET("/sessions/:sid", h.GetSession)
	rg.POST("/sessions/:sid/scans", h.Scan)
	rg.POST("/sessions/:sid/complete", h.Complete)
	rg.DELETE("/sessions/:sid", h.CloseSession)
}

type statusRequest struct {
	Status string `json:"status"`
}

type scanRequest struct {
	Barcode string `json:"barcode"`
}

func (h *PickingHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	st, err := h.status.SetStatus(c.Request.Context(), auth.GetShopID(c), c.Param("id"), req.Status)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"status": st})
}

func (h *PickingHandler) OpenSession(c *gin.Context) {
	p, err := h.sessions.Open(c.Request.Context(), auth.GetShopID(c), c.Param("id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"session": p})
}

func (h *PickingHandler) GetSession(c *gin.Context) {
	p, err := h.sessions.Get(c.Request.Context(), auth.GetShopID(c), c.Param("sid"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"session": p})
}

func (h *PickingHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	res, p, err := h.sessions.Scan(c.Request.Context(), auth.GetShopID(c), c.Param("sid"), req.Barcode)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	body := gin.H{"outcome": res.Outcome, "session": p}
	if res.LineItem != nil {
		body["lineItem"] = res.LineItem
		body["newCount"] = res.NewCount
	}
	httpapi.OK(c, body)
}

func (h *PickingHandler) Complete(c *gin.Context) {
	p, err := h.sessions.Complete(c.Request.Context(), auth.GetShopID(c), c.Param("sid"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"session": p, "status": "in_progress"})
}

func (h *PickingHandler) CloseSession(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), auth.GetShopID(c), c.Param("sid")); err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, nil)
}
