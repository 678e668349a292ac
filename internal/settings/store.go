// Package settings persists per-customer configuration. The original
// storefront kept this in a process-global object that reset on restart;
// here it is a jsonb row with a short-lived Redis cache in front.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sportsdist/commerce/internal/redisx"
)

// Defaults returned before a customer first saves anything.
func Defaults() map[string]any {
	return map[string]any{
		"notification_settings": true,
		"email_notifications":   true,
		"theme":                 "light",
		"language":              "en",
		"two_factor_auth":       false,
	}
}

type Store struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func (s *Store) Get(ctx context.Context, customerID string) (map[string]any, error) {
	key := fmt.Sprintf(redisx.KeySettings, customerID)
	if cached, err := s.Redis.Get(ctx, key).Result(); err == nil && cached != "" {
		var out map[string]any
		if json.Unmarshal([]byte(cached), &out) == nil {
			return out, nil
		}
	}

	out, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = s.Redis.Set(ctx, key, b, redisx.TTLSettingsCache).Err()
	}
	return out, nil
}

// Put merges the given keys over the stored settings, like the original's
// object spread, and returns the merged result.
func (s *Store) Put(ctx context.Context, customerID string, patch map[string]any) (map[string]any, error) {
	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		current[k] = v
	}

	b, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	if _, err := s.DB.Exec(ctx, `
		INSERT INTO customer_settings(customer_id, settings)
		VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()`,
		customerID, b); err != nil {
		return nil, err
	}

	_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySettings, customerID)).Err()
	return current, nil
}

func (s *Store) load(ctx context.Context, customerID string) (map[string]any, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx,
		`SELECT settings FROM customer_settings WHERE customer_id=$1`, customerID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	out := Defaults()
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}
