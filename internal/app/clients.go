package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/wacatalog-backend/internal/clients/billing"
	"github.com/yungbote/wacatalog-backend/internal/clients/redis"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type Clients struct {
	Redis       *goredis.Client
	EditorState *redis.EditorStateStore
	ViewCounter *redis.ViewCounter
	PriceCache  redis.PriceCache
	Billing     billing.PriceSource
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisAddr, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.EditorState = redis.NewEditorStateStore(rdb, cfg.EditorTTL)
		out.ViewCounter = redis.NewViewCounter(rdb, cfg.ViewRetention)
		out.PriceCache = redis.NewPriceCache(rdb, log, cfg.PriceCacheTTL)
	} else {
		log.Warn("REDIS_ADDR not set; edit mode is process-local and catalog views are not counted")
	}

	// Billing
	if cfg.Billing.PricesURL != "" {
		src, err := billing.NewClient(log, cfg.Billing)
		if err != nil {
			return Clients{}, fmt.Errorf("init billing client: %w", err)
		}
		out.Billing = src
	} else {
		log.Warn("BILLING_PRICES_URL not set; serving the built-in plan price table")
	}

	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
