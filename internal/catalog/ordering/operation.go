package ordering

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
)

type State string

const (
	StateIdle       State = "idle"
	StatePending    State = "pending"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// Persister writes one display_order. Calls are independent; no
// transaction spans them.
type Persister interface {
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, id uuid.UUID, order int) error

func (f PersistFunc) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	return f(ctx, id, order)
}

// maxConcurrentWrites bounds the per-item updates in flight for one operation.
const maxConcurrentWrites = 8

// PersistError lists the items whose update failed, and the items whose
// revert failed afterwards. A non-empty RevertFailed means storage may hold
// a mixed order until the next successful reorder.
type PersistError struct {
	Failed       []uuid.UUID
	RevertFailed []uuid.UUID
	Cause        error
}

func (e *PersistError) Error() string {
	msg := fmt.Sprintf("reorder: %d of the item updates failed", len(e.Failed))
	if len(e.RevertFailed) > 0 {
		msg += fmt.Sprintf(", %d reverts failed", len(e.RevertFailed))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PersistError) Unwrap() []error {
	if e.Cause == nil {
		return []error{catalog.ErrPersistence}
	}
	return []error{catalog.ErrPersistence, e.Cause}
}

// Operation is one reorder moving through Idle -> Pending -> Committed or
// RolledBack.
type Operation struct {
	mu    sync.Mutex
	plan  Plan
	state State
	local []Item
	err   error
}

func NewOperation(plan Plan) *Operation {
	local := make([]Item, len(plan.Items))
	copy(local, plan.Items)
	return &Operation{plan: plan, state: StateIdle, local: local}
}

func (op *Operation) State() State {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// LocalState is the order the editor should show: the planned order while
// pending or committed, the last confirmed order after a rollback.
func (op *Operation) LocalState() []Item {
	op.mu.Lock()
	defer op.mu.Unlock()
	out := make([]Item, len(op.local))
	copy(out, op.local)
	return out
}

func (op *Operation) Plan() Plan { return op.plan }

func (op *Operation) Err() error {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.err
}

// Commit issues one write per changed item. On failure it reverts the
// items that were already written, unless ctx was cancelled: a cancelled
// operation has been superseded or abandoned and must not touch storage
// again.
func (op *Operation) Commit(ctx context.Context, p Persister) error {
	op.mu.Lock()
	if op.state != StateIdle {
		st := op.state
		op.mu.Unlock()
		return fmt.Errorf("reorder: operation already %s", st)
	}
	op.state = StatePending
	op.mu.Unlock()

	written, failed, cause := op.write(ctx, p, op.plan.Changes, func(a Assignment) int { return a.To })
	if len(failed) == 0 {
		op.finish(StateCommitted, nil, nil)
		return nil
	}

	perr := &PersistError{Failed: failed, Cause: cause}
	if ctxErr := ctx.Err(); ctxErr != nil {
		perr.Cause = ctxErr
		op.finish(StateRolledBack, op.confirmedItems(), perr)
		return perr
	}

	var revert []Assignment
	for _, a := range op.plan.Changes {
		if _, ok := written[a.ID]; ok {
			revert = append(revert, a)
		}
	}
	_, revertFailed, _ := op.write(ctx, p, revert, func(a Assignment) int { return a.From })
	perr.RevertFailed = revertFailed
	op.finish(StateRolledBack, op.confirmedItems(), perr)
	return perr
}

func (op *Operation) write(ctx context.Context, p Persister, changes []Assignment, target func(Assignment) int) (map[uuid.UUID]struct{}, []uuid.UUID, error) {
	var (
		mu      sync.Mutex
		written = make(map[uuid.UUID]struct{}, len(changes))
		failed  []uuid.UUID
		first   error
	)
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentWrites)
	for _, a := range changes {
		a := a
		g.Go(func() error {
			var err error
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			} else {
				err = p.UpdateDisplayOrder(ctx, a.ID, target(a))
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, a.ID)
				if first == nil {
					first = err
				}
				return nil
			}
			written[a.ID] = struct{}{}
			return nil
		})
	}
	_ = g.Wait()
	return written, failed, first
}

func (op *Operation) confirmedItems() []Item {
	out := make([]Item, len(op.plan.Items))
	copy(out, op.plan.Items)
	for i := range out {
		if prev, ok := op.plan.previous[out[i].ID]; ok {
			out[i].DisplayOrder = prev
		}
	}
	SortItems(out)
	return out
}

func (op *Operation) finish(state State, local []Item, err error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.state = state
	if local != nil {
		op.local = local
	}
	op.err = err
}

// IsPersistError reports whether err carries a PersistError.
func IsPersistError(err error) (*PersistError, bool) {
	var pe *PersistError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
