package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

const keyPrefix = "wacatalog"

// NewClient dials addr and pings it once so a bad address fails at boot.
func NewClient(ctx context.Context, addr string, log *logger.Logger) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if log != nil {
		log.Info("Connected to Redis", "addr", addr)
	}
	return rdb, nil
}

func key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}
