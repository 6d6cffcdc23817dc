package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
)

// OK writes a 200 with ok:true merged into the payload.
func OK(c *gin.Context, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["ok"] = true
	c.JSON(http.StatusOK, payload)
}

// Error maps the error taxonomy onto HTTP status codes and reason strings.
func Error(c *gin.Context, err error) {
	var (
		verr *apperror.ValidationError
		nerr *apperror.NotFoundError
		aerr *apperror.AmbiguousMatchError
		xerr *apperror.ExternalServiceError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": verr.Reason, "error": verr.Error()})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "reason": apperror.ReasonNotFound, "error": nerr.Error()})
	case errors.As(err, &aerr):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "reason": apperror.ReasonDuplicateBarcode, "variants": aerr.Candidates})
	case errors.As(err, &xerr):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "reason": apperror.ReasonExternal, "error": xerr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "reason": "internal_error", "error": "internal error"})
	}
}

// BadRequest answers a malformed body.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "reason": apperror.ReasonInvalidRequest, "error": err.Error()})
}
