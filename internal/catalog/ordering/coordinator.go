package ordering

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// Coordinator tracks the reorder in flight for each collection key. A new
// submission for a key cancels the previous one instead of queueing behind
// it; the cancelled operation reports catalog.ErrSuperseded and is never
// retried. The new submission plans only after every earlier flight for the
// key has stopped writing, against rows read at that point.
type Coordinator struct {
	log *logger.Logger

	mu       sync.Mutex
	seq      uint64
	inflight map[string]*flight
}

type flight struct {
	id         uint64
	cancel     context.CancelFunc
	superseded bool
	done       chan struct{}
}

// Loader reads the stored rows of one scope.
type Loader func(ctx context.Context) ([]Item, error)

func NewCoordinator(baseLog *logger.Logger) *Coordinator {
	return &Coordinator{
		log:      baseLog.With("component", "OrderingCoordinator"),
		inflight: map[string]*flight{},
	}
}

// Submit validates itemIDs against current, then cancels any reorder in
// flight for key, waits for it to stop, reloads the scope through load and
// commits the plan through p. Validation failures return before anything
// is cancelled or written. A nil load plans against current. The returned
// Operation is non-nil whenever planning succeeded, so callers can read its
// LocalState even on failure.
func (c *Coordinator) Submit(ctx context.Context, key string, itemIDs []uuid.UUID, current []Item, load Loader, p Persister) (*Operation, error) {
	if _, err := Reorder(itemIDs, current); err != nil {
		return nil, err
	}

	opCtx, f, prev := c.begin(ctx, key)
	defer c.end(key, f)
	if prev != nil {
		<-prev.done
	}
	if err := opCtx.Err(); err != nil {
		if c.wasSuperseded(f) {
			return nil, fmt.Errorf("%w: %w", catalog.ErrSuperseded, err)
		}
		return nil, err
	}

	if load != nil {
		rows, err := load(opCtx)
		if err != nil {
			return nil, fmt.Errorf("reload scope: %w", err)
		}
		current = rows
	}
	plan, err := Reorder(itemIDs, current)
	if err != nil {
		return nil, err
	}
	op := NewOperation(plan)

	if err := op.Commit(opCtx, p); err != nil {
		if c.wasSuperseded(f) {
			c.log.Info("Reorder superseded", "key", key, "changes", len(plan.Changes))
			return op, fmt.Errorf("%w: %w", catalog.ErrSuperseded, err)
		}
		c.log.Warn("Reorder rolled back", "key", key, "error", err)
		return op, err
	}
	c.log.Debug("Reorder committed", "key", key, "changes", len(plan.Changes))
	return op, nil
}

func (c *Coordinator) begin(ctx context.Context, key string) (context.Context, *flight, *flight) {
	opCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.inflight[key]
	if prev != nil {
		prev.superseded = true
		prev.cancel()
	}
	c.seq++
	f := &flight{id: c.seq, cancel: cancel, done: make(chan struct{})}
	c.inflight[key] = f
	return opCtx, f, prev
}

func (c *Coordinator) end(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.cancel()
	close(f.done)
	if cur, ok := c.inflight[key]; ok && cur.id == f.id {
		delete(c.inflight, key)
	}
}

func (c *Coordinator) wasSuperseded(f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.superseded
}

// Key builds the in-flight key of one ordered collection scope.
func Key(storeID uuid.UUID, collection, scope string) string {
	return storeID.String() + ":" + collection + ":" + scope
}
