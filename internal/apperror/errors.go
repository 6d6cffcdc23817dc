// Package apperror defines the failure kinds surfaced to callers: local
// validation rejections, missing catalog matches, ambiguous barcodes, and
// failures talking to the hosted platform.
package apperror

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

// Reasons returned to clients in the `reason` field.
const (
	ReasonMissingShop      = "missing_shop"
	ReasonMissingBin       = "missing_bin"
	ReasonMissingVariant   = "missing_variantGid"
	ReasonMissingBarcode   = "missing_barcode"
	ReasonMissingOrder     = "missing_order"
	ReasonInvalidStatus    = "invalid_status"
	ReasonInvalidRequest   = "invalid_request"
	ReasonNotFound         = "not_found"
	ReasonDuplicateBarcode = "duplicate_barcode"
	ReasonUserError        = "user_error"
	ReasonExternal         = "external_error"
	ReasonIncomplete       = "session_incomplete"
)

type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

func Validation(reason, message string) error {
	return &ValidationError{Reason: reason, Message: message}
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// AmbiguousMatchError carries every catalog variant sharing one barcode so
// the operator can pick the right one.
type AmbiguousMatchError struct {
	Barcode    string
	Candidates []model.CatalogVariant
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("barcode %q matches %d variants", e.Barcode, len(e.Candidates))
}

type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func External(op string, err error) error {
	return &ExternalServiceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsAmbiguous(err error) bool {
	var v *AmbiguousMatchError
	return errors.As(err, &v)
}

func IsExternal(err error) bool {
	var v *ExternalServiceError
	return errors.As(err, &v)
}
