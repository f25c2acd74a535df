package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
)

const dayLayout = "2006-01-02"

// ViewCounter counts storefront views per store and per UTC day.
type ViewCounter struct {
	rdb       *goredis.Client
	retention time.Duration
}

func NewViewCounter(rdb *goredis.Client, retention time.Duration) *ViewCounter {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	return &ViewCounter{rdb: rdb, retention: retention}
}

func (v *ViewCounter) RecordView(ctx context.Context, storeID uuid.UUID, at time.Time) error {
	day := key("views", storeID.String(), at.UTC().Format(dayLayout))
	pipe := v.rdb.TxPipeline()
	pipe.Incr(ctx, key("views", storeID.String(), "total"))
	pipe.Incr(ctx, day)
	pipe.Expire(ctx, day, v.retention)
	_, err := pipe.Exec(ctx)
	return err
}

func (v *ViewCounter) Total(ctx context.Context, storeID uuid.UUID) (int64, error) {
	n, err := v.rdb.Get(ctx, key("views", storeID.String(), "total")).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return n, err
}

// Daily returns one entry per UTC day for the days ending at until, oldest
// first. Days without views, or past retention, read as zero.
func (v *ViewCounter) Daily(ctx context.Context, storeID uuid.UUID, until time.Time, days int) ([]types.DailyViews, error) {
	if days <= 0 {
		return []types.DailyViews{}, nil
	}
	out := dayRange(until, days)
	keys := make([]string, len(out))
	for i, d := range out {
		keys[i] = key("views", storeID.String(), d.Day)
	}
	vals, err := v.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		out[i].Views = n
	}
	return out, nil
}

func dayRange(until time.Time, days int) []types.DailyViews {
	out := make([]types.DailyViews, days)
	last := until.UTC()
	for i := range out {
		out[i].Day = last.AddDate(0, 0, i-days+1).Format(dayLayout)
	}
	return out
}
