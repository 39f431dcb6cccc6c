package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/store"
)

// ErrInlineEditUnsupported is returned when the selected skin has no editable fields.
var ErrInlineEditUnsupported = errors.New("the selected template does not support inline editing")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr    *ErrValidation
		storeErr  *store.ValidationError
		photoErr  *store.PhotoError
		importErr *export.ImportError
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &storeErr),
		errors.As(err, &photoErr), errors.As(err, &importErr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSavedCVNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInlineEditUnsupported):
		return http.StatusConflict
	case errors.Is(err, export.ErrNoPrinter):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
