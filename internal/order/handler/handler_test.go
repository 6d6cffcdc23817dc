package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/httpapi"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/order"
	"github.com/fekuna/omnipos-picking-service/internal/order/dto"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUseCase struct {
	orders      []model.Order
	order       *model.Order
	err         error
	lastFilters *dto.OrderFilters
	lastID      string
}

func (s *stubUseCase) ListOrders(_ context.Context, _ string, f *dto.OrderFilters) ([]model.Order, dto.OrderFilters, error) {
	s.lastFilters = f
	return s.orders, order.NormalizeFilters(f), s.err
}

func (s *stubUseCase) GetOrder(_ context.Context, _, id string) (*model.Order, error) {
	s.lastID = id
	return s.order, s.err
}

func get(uc *stubUseCase, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	r := gin.New()
	r.UseRawPath = true
	NewOrderHandler(uc, logger.NewNop()).Register(r.Group("/api", httpapi.RequireShop()))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(auth.ShopHeader, "acme.myshopify.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestListOrders(t *testing.T) {
	uc := &stubUseCase{orders: []model.Order{
		{ID: "gid://shopify/Order/1", FulfillmentStatus: model.FulfillmentUnfulfilled, PickingStatus: model.PickingInProgress},
		{ID: "gid://shopify/Order/2", FulfillmentStatus: model.FulfillmentFulfilled},
	}}
	w, out := get(uc, "/api/orders?fulfillment=unfulfilled&status=pending")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unfulfilled", uc.lastFilters.Fulfillment)
	assert.Equal(t, "pending", uc.lastFilters.Picking)

	applied := out["appliedFilters"].(map[string]interface{})
	assert.Equal(t, "unfulfilled", applied["fulfillment"])
	assert.Equal(t, "pending", applied["status"])

	orders := out["orders"].([]interface{})
	require.Len(t, orders, 2)
	first := orders[0].(map[string]interface{})
	assert.Equal(t, "in_progress", first["pickingStatus"])
	assert.Equal(t, "attention", first["pickingTone"])
	second := orders[1].(map[string]interface{})
	assert.Nil(t, second["pickingStatus"])
	assert.Equal(t, "success", second["fulfillmentTone"])
}

func TestGetOrder(t *testing.T) {
	gid := "gid://shopify/Order/42"
	uc := &stubUseCase{order: &model.Order{ID: gid, Label: "#1042", LineItems: []model.LineItem{{ID: "li1", Quantity: 2}}}}
	w, out := get(uc, "/api/orders/"+url.PathEscape(gid))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gid, uc.lastID)
	assert.Equal(t, "#1042", out["order"].(map[string]interface{})["label"])
}

func TestGetOrder_NotFound(t *testing.T) {
	w, out := get(&stubUseCase{err: apperror.NotFound("order", "x")}, "/api/orders/x")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", out["reason"])
}
