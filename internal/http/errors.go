// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// WriteEngineError maps engine error taxonomy to HTTP statuses:
// not-found to 404, validation to 400, persistence failures to 500.
func WriteEngineError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	var perr *store.PersistError
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &verr):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.As(err, &perr):
		WriteJSONError(w, http.StatusInternalServerError, "persistence_error", perr.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
