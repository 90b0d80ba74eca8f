package handlers

import (
	"errors"
	"net/http"
	"time"

	"renovest/internal/apperr"
	"renovest/pkg/utils"
)

// UserIDFromContext pulls the authenticated user id the JWT middleware
// stored on the request (JWT numeric claims decode as float64).
func UserIDFromContext(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

const dateLayout = "2006-01-02"

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func ParseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteServiceError maps the service error taxonomy onto HTTP status
// codes and answers the request.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		utils.WriteError(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperr.ErrConflict):
		utils.WriteError(w, "version conflict, refresh and retry", http.StatusConflict)
	case errors.Is(err, apperr.ErrInvalidRequest):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case apperr.IsValidation(err):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.Logger.Errorf("unhandled service error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
