package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/cart"
	"github.com/sportsdist/commerce/internal/commerce"
)

type CartStore interface {
	List(ctx context.Context, customerID string) ([]cart.Line, error)
	Add(ctx context.Context, customerID, productID string, qty int32) error
	SetQuantity(ctx context.Context, customerID, lineID string, qty int32) error
	Remove(ctx context.Context, customerID, lineID string) error
}

// ProductChecker validates product ids before they enter the cart.
type ProductChecker interface {
	Exists(ctx context.Context, productID string) (bool, error)
}

type CartHandler struct {
	Cart    CartStore
	Catalog ProductChecker
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.list)
	r.Post("/cart/add", h.add)
	r.Put("/cart/items/{lineID}", h.updateQuantity)
	r.Delete("/cart/items/{lineID}", h.remove)
}

type cartItemView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
	Image    string          `json:"image"`
}

func (h *CartHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.Cart.List(ctx, CustomerID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]cartItemView, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartItemView{
			ID:       l.LineID,
			Name:     l.Name,
			Price:    l.UnitPrice(),
			Quantity: l.Quantity,
			Image:    l.Image,
		})
	}
	ok(w, map[string]any{"cartItems": items, "total": cart.Total(lines)})
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity < 1 {
		fail(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The original trusted any product id here; unknown ids now fail fast.
	exists, err := h.Catalog.Exists(ctx, req.ProductID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !exists {
		respondError(w, r, fmt.Errorf("product %s: %w", req.ProductID, commerce.ErrNotFound))
		return
	}

	if err := h.Cart.Add(ctx, CustomerID(r.Context()), req.ProductID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	ok(w, map[string]any{"message": "Product added to cart."})
}

type updateQuantityReq struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineID := chi.URLParam(r, "lineID")
	if err := h.Cart.SetQuantity(ctx, CustomerID(r.Context()), lineID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	ok(w, map[string]any{"message": "Quantity updated."})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineID := chi.URLParam(r, "lineID")
	if err := h.Cart.Remove(ctx, CustomerID(r.Context()), lineID); err != nil {
		respondError(w, r, err)
		return
	}
	ok(w, map[string]any{"message": "Product removed from cart."})
}
