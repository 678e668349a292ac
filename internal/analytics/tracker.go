package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/sportsdist/commerce/internal/kafka"
	"github.com/sportsdist/commerce/internal/orders"
	"github.com/sportsdist/commerce/internal/redisx"
)

// Tracker keeps per-month Redis counters warm from order events so the
// stats endpoint can report live figures without an aggregate query.
type Tracker struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCreated is wired as the kafka consumer handler.
func (c *Tracker) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil // ignore
	}

	// dedup by event_id; at-least-once delivery would double-count
	dkey := fmt.Sprintf(redisx.KeyDedup, c.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, c.Redis, dkey)
	if exists {
		return nil
	}
	_ = c.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafka.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	month := monthOf(p.OrderDate)
	if err := c.Redis.IncrBy(ctx, fmt.Sprintf(redisx.KeyRevenueMonth, month), p.TotalCents).Err(); err != nil {
		return err
	}
	if err := c.Redis.Incr(ctx, fmt.Sprintf(redisx.KeyOrdersMonth, month)).Err(); err != nil {
		return err
	}

	slog.Info("order counted", "order_id", p.OrderID, "month", month, "total_cents", p.TotalCents)
	return nil
}

// LiveMonth reads the counters for the current month. Missing keys read
// as zero.
func (c *Tracker) LiveMonth(ctx context.Context) (revenueCents, orderCount int64, err error) {
	month := time.Now().UTC().Format("2006-01")
	revenueCents, err = c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyRevenueMonth, month)).Int64()
	if err == redis.Nil {
		revenueCents, err = 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	orderCount, err = c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyOrdersMonth, month)).Int64()
	if err == redis.Nil {
		orderCount, err = 0, nil
	}
	return revenueCents, orderCount, err
}

func monthOf(orderDate string) string {
	if len(orderDate) >= 7 {
		return orderDate[:7]
	}
	return time.Now().UTC().Format("2006-01")
}
