package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// PriceCache keeps the last plan price table fetched from billing so a
// billing outage can still be served from a recent copy.
type PriceCache interface {
	Load(ctx context.Context, dst interface{}) (bool, error)
	Store(ctx context.Context, v interface{}) error
}

type priceCache struct {
	rdb *goredis.Client
	log *logger.Logger
	ttl time.Duration
}

func NewPriceCache(rdb *goredis.Client, log *logger.Logger, ttl time.Duration) PriceCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &priceCache{
		rdb: rdb,
		log: log.With("client", "RedisPriceCache"),
		ttl: ttl,
	}
}

// Load decodes the cached table into dst. It reports false when nothing is
// cached.
func (c *priceCache) Load(ctx context.Context, dst interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, key("plans", "prices")).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached prices: %w", err)
	}
	return true, nil
}

func (c *priceCache) Store(ctx context.Context, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key("plans", "prices"), raw, c.ttl).Err()
}
