// Package cache maintains the read-side order views in Redis. Writes here are
// best-effort refreshes driven by order events; the engine itself never reads
// from or waits on this cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streetnoshery/orders-backend/internal/orders"
)

// Cache is the view-refresh surface consumed by the worker.
type Cache interface {
	PutOrder(ctx context.Context, o *orders.Order) error
	PutCustomerOrders(ctx context.Context, customerID string, list []orders.Order) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns a Cache backed by the Redis instance at addr.
// A zero ttl keeps views until the next refresh overwrites them.
func NewRedisCache(addr string, ttl time.Duration) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// PutOrder stores the single-order view under order:<trackId>.
func (r *redisCache) PutOrder(ctx context.Context, o *orders.Order) error {
	body, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order view: %w", err)
	}
	return r.client.Set(ctx, orderKey(o.OrderTrackID), body, r.ttl).Err()
}

// PutCustomerOrders stores the customer history view under orders:customer:<id>.
func (r *redisCache) PutCustomerOrders(ctx context.Context, customerID string, list []orders.Order) error {
	body, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal customer view: %w", err)
	}
	return r.client.Set(ctx, customerKey(customerID), body, r.ttl).Err()
}

func orderKey(trackID string) string       { return fmt.Sprintf("order:%s", trackID) }
func customerKey(customerID string) string { return fmt.Sprintf("orders:customer:%s", customerID) }
