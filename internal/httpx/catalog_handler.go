package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/catalog"
)

type CatalogStore interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

type CatalogHandler struct {
	Catalog CatalogStore
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
}

type productView struct {
	ID            string            `json:"id"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Price         decimal.Decimal   `json:"price"`
	ImageDefault  string            `json:"image_default"`
	ImagesByColor map[string]string `json:"images_by_color,omitempty"`
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView{
			ID:            p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Price:         p.Price(),
			ImageDefault:  p.ImageDefault,
			ImagesByColor: p.ImagesByColor,
		})
	}
	ok(w, map[string]any{"products": out})
}
