package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/commerce"
	"github.com/sportsdist/commerce/internal/kafka"
	"github.com/sportsdist/commerce/internal/money"
	"github.com/sportsdist/commerce/internal/orders"
)

type OrderStore interface {
	CheckoutTx(ctx context.Context, customerID string) (orders.Order, []orders.OrderItem, error)
	UpdateStatusTx(ctx context.Context, customerID, orderID string, next orders.Status) (orders.Status, error)
	Get(ctx context.Context, orderID string) (orders.Order, []orders.OrderItem, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Orders  OrderStore
	Created EventPublisher // order.created
	Status  EventPublisher // order.status.changed
	Service string
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.checkout)
	r.Put("/orders/{id}/status", h.updateStatus)
	r.Get("/orders/{id}/export", h.exportReceipt)
}

type checkoutReq struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	customerID := CustomerID(r.Context())
	order, items, err := h.Orders.CheckoutTx(ctx, customerID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// The client total is advisory only; the charge is always the
	// server-derived amount. A mismatch usually means a stale cart page.
	if !req.TotalAmount.IsZero() && money.Cents(req.TotalAmount) != order.TotalCents {
		slog.Warn("client total mismatch",
			"order_id", order.ID, "client", req.TotalAmount.StringFixed(2), "server", order.Total().StringFixed(2))
	}

	h.publishCreated(r, order, items)
	ok(w, map[string]any{"orderId": order.ID, "totalAmount": order.Total()})
}

func (h *OrdersHandler) publishCreated(r *http.Request, order orders.Order, items []orders.OrderItem) {
	snap := make([]orders.ItemSnapshot, 0, len(items))
	for _, it := range items {
		snap = append(snap, orders.ItemSnapshot{
			ProductID:  it.ProductID,
			Name:       it.Name,
			Qty:        it.Quantity,
			PriceCents: it.PriceCents,
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: order.ID,
		Payload: kafka.MustMarshal(orders.OrderCreatedPayload{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			OrderDate:  order.OrderDate.Format("2006-01-02"),
			Items:      snap,
			TotalCents: order.TotalCents,
		}),
	}
	h.Created.Publish(orders.PartitionKey(order.ID), kafka.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

type updateStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "id")
	old, err := h.Orders.UpdateStatusTx(ctx, CustomerID(r.Context()), orderID, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload: kafka.MustMarshal(orders.OrderStatusChangedPayload{
			OrderID:   orderID,
			OldStatus: old,
			NewStatus: req.Status,
		}),
	}
	h.Status.Publish(orders.PartitionKey(orderID), kafka.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	ok(w, map[string]any{"message": "Order status updated."})
}

func (h *OrdersHandler) exportReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "id")
	order, items, err := h.Orders.Get(ctx, orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// Receipts follow the cart's ownership posture: another customer's
	// order is indistinguishable from a missing one.
	if order.CustomerID != CustomerID(r.Context()) {
		respondError(w, r, fmt.Errorf("order %s: %w", orderID, commerce.ErrNotFound))
		return
	}

	pdf, err := orders.Receipt(order, items)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=order_%s.pdf", orderID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
