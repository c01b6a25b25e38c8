package geocache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/pkg/logger"
)

const (
	keyPrefix  = "geocode:"
	DefaultTTL = 24 * time.Hour
)

// Geocoder is the upstream resolver the cache wraps.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (models.Location, error)
}

// CachedGeocoder memoizes successful lookups in Redis. Address strings are
// case-folded and whitespace-trimmed before keying, so "Delhi " and "delhi"
// share an entry. Failures, including not-found, are never cached.
type CachedGeocoder struct {
	next   Geocoder
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func New(next Geocoder, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedGeocoder{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(location string) string {
	return keyPrefix + strings.ToLower(strings.Join(strings.Fields(location), " "))
}

func (c *CachedGeocoder) Geocode(ctx context.Context, location string) (models.Location, error) {
	const op = "geocache.Geocode"

	key := cacheKey(location)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var loc models.Location
		if err := json.Unmarshal([]byte(raw), &loc); err == nil {
			return loc, nil
		}
		// Unreadable entry, fall through and overwrite it.
		c.log.Warn(ctx, "dropping corrupt geocode cache entry", "key", key)
	} else if err != redis.Nil {
		c.log.Warn(ctx, "geocode cache read failed", "error", err.Error())
	}

	loc, err := c.next.Geocode(ctx, location)
	if err != nil {
		return models.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	if data, err := json.Marshal(loc); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn(ctx, "geocode cache write failed", "error", err.Error())
		}
	}

	return loc, nil
}
