package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sportsdist/commerce/internal/commerce"
)

// Every response uses the storefront envelope: successes carry
// {"success":true, ...payload}, failures {"success":false,"message":...}.

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func fail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message})
}

// respondError maps the taxonomy onto HTTP statuses. Storage failures
// surface as a generic 500; the detail goes to the log, never the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, commerce.ErrUnauthorized):
		fail(w, http.StatusUnauthorized, "Unauthorized. Please log in.")
	case errors.Is(err, commerce.ErrNotFound):
		fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, commerce.ErrInvalidArgument):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		fail(w, http.StatusInternalServerError, "Server error.")
	}
}
