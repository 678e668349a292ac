package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sportsdist/commerce/internal/analytics"
	"github.com/sportsdist/commerce/internal/money"
)

type AnalyticsSource interface {
	MonthlyRevenue(ctx context.Context) ([]analytics.MonthRevenue, error)
	CustomerGrowth(ctx context.Context) ([]analytics.MonthCount, error)
	Stats(ctx context.Context) (analytics.Stats, error)
}

// LiveCounters is the fast path maintained by the analytics worker.
type LiveCounters interface {
	LiveMonth(ctx context.Context) (revenueCents, orderCount int64, err error)
}

type AnalyticsHandler struct {
	Source AnalyticsSource
	Live   LiveCounters
}

func (h *AnalyticsHandler) Register(r chi.Router) {
	r.Get("/analytics/revenue", h.revenue)
	r.Get("/analytics/customer-growth", h.customerGrowth)
	r.Get("/analytics/stats", h.stats)
}

func (h *AnalyticsHandler) revenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Source.MonthlyRevenue(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	type row struct {
		Month   string          `json:"month"`
		Revenue decimal.Decimal `json:"revenue"`
	}
	out := make([]row, 0, len(rows))
	for _, m := range rows {
		out = append(out, row{Month: m.Month, Revenue: m.Revenue()})
	}
	ok(w, map[string]any{"data": out})
}

func (h *AnalyticsHandler) customerGrowth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Source.CustomerGrowth(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	type row struct {
		Month        string `json:"month"`
		NewCustomers int64  `json:"new_customers"`
	}
	out := make([]row, 0, len(rows))
	for _, m := range rows {
		out = append(out, row{Month: m.Month, NewCustomers: m.Count})
	}
	ok(w, map[string]any{"data": out})
}

func (h *AnalyticsHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Source.Stats(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	data := map[string]any{
		"totalRevenue":      money.FromCents(s.TotalRevenueCents),
		"avgOrderValue":     money.FromCents(s.AvgOrderCents),
		"customerRetention": s.RetentionRate,
	}

	// Live figures come from worker-maintained counters; the endpoint
	// still answers from SQL alone if Redis is cold.
	if h.Live != nil {
		if rev, cnt, err := h.Live.LiveMonth(ctx); err == nil {
			data["thisMonthRevenue"] = money.FromCents(rev)
			data["thisMonthOrders"] = cnt
		}
	}
	ok(w, map[string]any{"data": data})
}
