package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/catalog"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/variants/by-barcode", h.FindByBarcode)
	rg.POST("/variants/assign-by-barcode", h.AssignByBarcode)
}

type barcodeRequest struct {
	Barcode string `json:"barcode"`
	BinCode string `json:"binCode"`
}

func (h *CatalogHandler) FindByBarcode(c *gin.Context) {
	var req barcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	shop := auth.GetShopID(c)
	v, err := h.uc.FindByBarcode(c.Request.Context(), shop, req.Barcode)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"shop": shop, "variant": v})
}

func (h *CatalogHandler) AssignByBarcode(c *gin.Context) {
	var req barcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	v, res, err := h.uc.AssignByBarcode(c.Request.Context(), auth.GetShopID(c), req.Barcode, req.BinCode)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{
		"variant":         v,
		"status":          res.Status,
		"binCode":         res.Bin.Code,
		"previousBinCode": res.PreviousBinCode,
	})
}
