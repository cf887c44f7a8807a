package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/restaurant-hours/backend/internal/hours"
)

const generationKey = "open_restaurants:generation"

// OpenRestaurants caches the ids open at a (weekday, time) pair. Entries are
// namespaced by a generation counter so a single INCR invalidates all of them
// after any write to the hours data.
type OpenRestaurants struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOpenRestaurants(rdb *redis.Client, ttl time.Duration) *OpenRestaurants {
	return &OpenRestaurants{rdb: rdb, ttl: ttl}
}

func (c *OpenRestaurants) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func key(gen int64, at hours.Instant) string {
	return fmt.Sprintf("open_restaurants:%d:%d:%s", gen, int(at.Weekday), at.Time)
}

// Lookup is the result of GetOpen. Generation must be handed back to SetOpen
// so an answer computed before an Invalidate never lands in the new namespace.
type Lookup struct {
	IDs        []int64
	Hit        bool
	Generation int64
}

func (c *OpenRestaurants) GetOpen(ctx context.Context, at hours.Instant) (Lookup, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return Lookup{}, err
	}

	data, err := c.rdb.Get(ctx, key(gen, at)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Lookup{Generation: gen}, nil
		}
		return Lookup{}, err
	}

	ids := make([]int64, 0)
	if err := json.Unmarshal(data, &ids); err != nil {
		return Lookup{}, err
	}
	return Lookup{IDs: ids, Hit: true, Generation: gen}, nil
}

// SetOpen stores ids under gen, the generation the preceding GetOpen saw.
func (c *OpenRestaurants) SetOpen(ctx context.Context, gen int64, at hours.Instant, ids []int64) error {
	if ids == nil {
		ids = make([]int64, 0)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key(gen, at), data, c.ttl).Err()
}

// Invalidate drops every cached answer. Old entries expire on their own TTL.
func (c *OpenRestaurants) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}
