package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flightdeck/aeromatch/internal/requests"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// serviceError maps the request service's sentinel errors onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, requests.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, requests.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, requests.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, requests.ErrConflict):
		http.Error(w, "request is no longer pending", http.StatusConflict)
	default:
		logger.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// actorFrom pulls the authenticated identity out of the request context. The
// JWT middleware guarantees both values on protected routes.
func actorFrom(r *http.Request) (int64, string, bool) {
	id, ok := r.Context().Value(CtxUserID).(int64)
	if !ok {
		return 0, "", false
	}
	role, _ := r.Context().Value(CtxRole).(string)
	return id, role, true
}
