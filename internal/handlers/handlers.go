// Package handlers maps the JSON HTTP surface onto the engine and services.
package handlers

import (
	"errors"
	"net/http"

	"github.com/fmsys/inventory-app/internal/engine"
	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/services"
)

// writeError translates classified failures into HTTP status codes:
// validation 400, not-found 404, conflict 409, quota/invariant breaches 422,
// everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		status := http.StatusInternalServerError
		switch engErr.Kind {
		case engine.KindValidation:
			status = http.StatusBadRequest
		case engine.KindNotFound:
			status = http.StatusNotFound
		case engine.KindConflict:
			status = http.StatusConflict
		case engine.KindQuotaExceeded, engine.KindInvariantViolation:
			status = http.StatusUnprocessableEntity
		}
		httpx.Error(w, status, engErr.Kind.String(), engErr.Message, engErr.Details)
		return
	}

	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		httpx.Error(w, http.StatusBadRequest, "validation_error", "validation failed", valErr.Problems)
		return
	}
	var confErr *services.ConflictError
	if errors.As(err, &confErr) {
		httpx.Error(w, http.StatusConflict, "conflict", confErr.Error(), nil)
		return
	}
	switch {
	case errors.Is(err, services.ErrSupplierIDRequired), errors.Is(err, services.ErrUnknownFlag):
		httpx.Error(w, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, services.ErrSupplierNotFound), errors.Is(err, services.ErrWarrantyNotFound):
		httpx.Error(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrWarrantyExists):
		httpx.Error(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
