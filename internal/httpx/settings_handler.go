package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type SettingsStore interface {
	Get(ctx context.Context, customerID string) (map[string]any, error)
	Put(ctx context.Context, customerID string, patch map[string]any) (map[string]any, error)
}

type SettingsHandler struct {
	Settings SettingsStore
}

func (h *SettingsHandler) Register(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.put)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	data, err := h.Settings.Get(ctx, CustomerID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	ok(w, map[string]any{"data": data})
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	data, err := h.Settings.Put(ctx, CustomerID(r.Context()), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	ok(w, map[string]any{"data": data})
}
