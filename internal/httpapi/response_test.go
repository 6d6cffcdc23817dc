package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{"validation", apperror.Validation(apperror.ReasonMissingBin, "bin code is required"), http.StatusBadRequest, "missing_bin"},
		{"not found", apperror.NotFound("variant", "999"), http.StatusNotFound, "not_found"},
		{"ambiguous", &apperror.AmbiguousMatchError{Barcode: "1", Candidates: []model.CatalogVariant{{ID: "a"}, {ID: "b"}}}, http.StatusConflict, "duplicate_barcode"},
		{"external", apperror.External("orders", errors.New("timeout")), http.StatusBadGateway, "external_error"},
		{"wrapped external", fmt.Errorf("list: %w", apperror.External("orders", errors.New("x"))), http.StatusBadGateway, "external_error"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := render(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, false, out["ok"])
			assert.Equal(t, tt.reason, out["reason"])
		})
	}
}

func TestError_AmbiguousListsCandidates(t *testing.T) {
	_, out := render(&apperror.AmbiguousMatchError{Candidates: []model.CatalogVariant{{ID: "a"}, {ID: "b"}}})
	assert.Len(t, out["variants"], 2)
}

func TestError_InternalDetailsHidden(t *testing.T) {
	_, out := render(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal error", out["error"])
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, gin.H{"status": "created"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"status":"created"}`, w.Body.String())
}
