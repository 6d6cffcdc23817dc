package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUseCase struct {
	lastAssign *dto.AssignInput
	assignRes  *model.AssignmentResult
	err        error
	bins       []model.BinLocation
	assignment *model.VariantBin
	lastGID    string
}

func (s *stubUseCase) EnsureBin(_ context.Context, shopID, code string) (*model.BinLocation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.BinLocation{BaseModel: model.BaseModel{ID: "bin-1"}, ShopID: shopID, Code: strings.TrimSpace(code)}, nil
}

func (s *stubUseCase) Assign(_ context.Context, in *dto.AssignInput) (*model.AssignmentResult, error) {
	s.lastAssign = in
	return s.assignRes, s.err
}

func (s *stubUseCase) GetAssignment(_ context.Context, _, gid string) (*model.VariantBin, error) {
	s.lastGID = gid
	return s.assignment, s.err
}

func (s *stubUseCase) ListBinContents(context.Context, string, string) ([]model.VariantBin, error) {
	return []model.VariantBin{{VariantGID: "v1"}, {VariantGID: "v2"}}, s.err
}

func (s *stubUseCase) SearchBins(context.Context, *dto.BinSearchFilters) ([]model.BinLocation, error) {
	return s.bins, s.err
}

func newRouter(uc *stubUseCase) *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	api := r.Group("/api", httpapi.RequireShop())
	NewBinHandler(uc, logger.NewNop()).Register(api)
	return r
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.ShopHeader, "acme.myshopify.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestResolveBin(t *testing.T) {
	r := newRouter(&stubUseCase{})
	w, out := do(r, http.MethodPost, "/api/bins/resolve", `{"binCode":" A1 "}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "A1", out["bin"].(map[string]interface{})["code"])
}

func TestResolveBin_MissingBin(t *testing.T) {
	r := newRouter(&stubUseCase{err: apperror.Validation(apperror.ReasonMissingBin, "")})
	w, out := do(r, http.MethodPost, "/api/bins/resolve", `{"binCode":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, out["ok"])
	assert.Equal(t, "missing_bin", out["reason"])
}

func TestAssignBin(t *testing.T) {
	prev := "A1"
	uc := &stubUseCase{assignRes: &model.AssignmentResult{
		Status:          model.AssignmentUpdated,
		Bin:             &model.BinLocation{Code: "B2"},
		PreviousBinCode: &prev,
	}}
	r := newRouter(uc)

	w, out := do(r, http.MethodPost, "/api/bins/assign", `{"variantGid":"gid://shopify/ProductVariant/1","binCode":"B2"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", out["status"])
	assert.Equal(t, "B2", out["binCode"])
	assert.Equal(t, "A1", out["previousBinCode"])
	assert.Equal(t, "acme.myshopify.com", uc.lastAssign.ShopID)
}

func TestAssignBin_CreatedHasNullPrevious(t *testing.T) {
	uc := &stubUseCase{assignRes: &model.AssignmentResult{Status: model.AssignmentCreated, Bin: &model.BinLocation{Code: "A1"}}}
	w, out := do(newRouter(uc), http.MethodPost, "/api/bins/assign", `{"variantGid":"v","binCode":"A1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	v, present := out["previousBinCode"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestAssignBin_MalformedBody(t *testing.T) {
	w, out := do(newRouter(&stubUseCase{}), http.MethodPost, "/api/bins/assign", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", out["reason"])
}

func TestMissingShopRejected(t *testing.T) {
	r := newRouter(&stubUseCase{})
	req := httptest.NewRequest(http.MethodPost, "/api/bins/resolve", strings.NewReader(`{"binCode":"A1"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchAndContents(t *testing.T) {
	uc := &stubUseCase{bins: []model.BinLocation{{Code: "A1"}, {Code: "A2"}}}
	r := newRouter(uc)

	w, out := do(r, http.MethodGet, "/api/bins/search?q=A&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["bins"], 2)

	w, out = do(r, http.MethodGet, "/api/bins/A1/variants", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"v1", "v2"}, out["variantGids"])
}

func TestGetVariantBin(t *testing.T) {
	gid := "gid://shopify/ProductVariant/1"
	uc := &stubUseCase{assignment: &model.VariantBin{VariantGID: gid, BinCode: "C3"}}
	r := newRouter(uc)

	w, out := do(r, http.MethodGet, "/api/variants/"+url.PathEscape(gid)+"/bin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "C3", out["binCode"])
	assert.Equal(t, gid, uc.lastGID)
}

func TestGetVariantBin_NotFound(t *testing.T) {
	r := newRouter(&stubUseCase{err: apperror.NotFound("assignment", "v9")})
	w, out := do(r, http.MethodGet, "/api/variants/v9/bin", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", out["reason"])
}
