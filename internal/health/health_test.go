package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newChecker(t *testing.T) (*Checker, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewChecker(db, "postgresql", logger.NewNop()), mock
}

func hit(h *Checker) (*httptest.ResponseRecorder, map[string]interface{}) {
	r := gin.New()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/db", nil))

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestDatabase_OK(t *testing.T) {
	h, mock := newChecker(t)
	mock.ExpectPing()

	w, out := hit(h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "postgresql", out["protocol"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Down(t *testing.T) {
	h, mock := newChecker(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w, out := hit(h)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, out["ok"])
	assert.Equal(t, "connection refused", out["error"])
}

func TestRefresh_PublishesGRPCStatus(t *testing.T) {
	h, mock := newChecker(t)
	ctx := context.Background()

	mock.ExpectPing()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Refresh(ctx))

	resp, err := h.GRPCServer().Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Refresh(ctx))

	resp, err = h.GRPCServer().Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestWatch_NonPositiveInterval(t *testing.T) {
	h, _ := newChecker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() { h.Watch(ctx, 0) })

	resp, err := h.GRPCServer().Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
