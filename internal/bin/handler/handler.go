package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/bin"
	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type BinHandler struct {
	uc     bin.UseCase
	logger logger.ZapLogger
}

func NewBinHandler(uc bin.UseCase, log logger.ZapLogger) *BinHandler {
	return &BinHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *BinHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/bins/resolve", h.ResolveBin)
	rg.POST("/bins/assign", h.AssignBin)
	rg.GET("/bins/search", h.SearchBins)
	rg.GET("/bins/:code/variants", h.ListBinContents)
	rg.GET("/variants/:gid/bin", h.GetVariantBin)
}

type resolveBinRequest struct {
	BinCode string `json:"binCode"`
}

type assignBinRequest struct {
	VariantGID string `json:"variantGid"`
	BinCode    string `json:"binCode"`
}

type binResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

func (h *BinHandler) ResolveBin(c *gin.Context) {
	var req resolveBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	b, err := h.uc.EnsureBin(c.Request.Context(), auth.GetShopID(c), req.BinCode)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	httpapi.OK(c, gin.H{"bin": binResponse{ID: b.ID, Code: b.Code}})
}

func (h *BinHandler) AssignBin(c *gin.Context) {
	var req assignBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	res, err := h.uc.Assign(c.Request.Context(), &dto.AssignInput{
		ShopID:     auth.GetShopID(c),
		VariantGID: req.VariantGID,
		BinCode:    req.BinCode,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	httpapi.OK(c, gin.H{
		"status":          res.Status,
		"binCode":         res.Bin.Code,
		"previousBinCode": res.PreviousBinCode,
	})
}

func (h *BinHandler) SearchBins(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	bins, err := h.uc.SearchBins(c.Request.Context(), &dto.BinSearchFilters{
		ShopID: auth.GetShopID(c),
		Query:  c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("bin search failed", zap.Error(err))
		httpapi.Error(c, err)
		return
	}

	out := make([]binResponse, len(bins))
	for i, b := range bins {
		out[i] = binResponse{ID: b.ID, Code: b.Code}
	}
	httpapi.OK(c, gin.H{"bins": out})
}

func (h *BinHandler) ListBinContents(c *gin.Context) {
	items, err := h.uc.ListBinContents(c.Request.Context(), auth.GetShopID(c), c.Param("code"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	gids := make([]string, len(items))
	for i, it := range items {
		gids[i] = it.VariantGID
	}
	httpapi.OK(c, gin.H{"binCode": c.Param("code"), "variantGids": gids})
}

// GetVariantBin expects the variant gid URL-escaped in the path.
func (h *BinHandler) GetVariantBin(c *gin.Context) {
	vb, err := h.uc.GetAssignment(c.Request.Context(), auth.GetShopID(c), c.Param("gid"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	httpapi.OK(c, gin.H{"variantGid": vb.VariantGID, "binCode": vb.BinCode})
}
