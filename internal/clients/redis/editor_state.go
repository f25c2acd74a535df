package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultEditorTTL = 12 * time.Hour

// EditorStateStore persists the owner's edit mode. A missing key reads as
// the empty string, which callers treat as Viewing.
type EditorStateStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewEditorStateStore(rdb *goredis.Client, ttl time.Duration) *EditorStateStore {
	if ttl <= 0 {
		ttl = DefaultEditorTTL
	}
	return &EditorStateStore{rdb: rdb, ttl: ttl}
}

func (s *EditorStateStore) Mode(ctx context.Context, ownerID uuid.UUID) (string, error) {
	v, err := s.rdb.Get(ctx, key("editor", ownerID.String())).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *EditorStateStore) SetMode(ctx context.Context, ownerID uuid.UUID, mode string) error {
	return s.rdb.Set(ctx, key("editor", ownerID.String()), mode, s.ttl).Err()
}
