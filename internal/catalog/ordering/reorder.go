// Package ordering computes and persists display_order assignments for
// products, categories and custom links.
//
// A reorder is two-phase: Reorder plans the new positions and the caller
// applies them locally, then an Operation writes each changed row. If any
// write fails the rows already written are reverted to their last confirmed
// position and the failure is returned; a partial order is never reported
// as committed.
package ordering

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
)

// Item is one orderable row. Scope partitions a collection, for example
// products by category; orders are only meaningful within one scope.
type Item struct {
	ID           uuid.UUID `json:"id"`
	Scope        string    `json:"scope"`
	DisplayOrder int       `json:"display_order"`
}

// Assignment is a single display_order change.
type Assignment struct {
	ID   uuid.UUID `json:"id"`
	From int       `json:"from"`
	To   int       `json:"to"`
}

// Plan is the outcome of Reorder: the optimistic local state and the
// writes needed to make it durable.
type Plan struct {
	Scope   string
	Items   []Item
	Changes []Assignment
	// previous holds the confirmed order of every item in Items.
	previous map[uuid.UUID]int
}

// Reorder assigns display_order = position for every id in itemIDs. Items of
// current that are not listed keep their order. All listed ids must exist in
// current, be unique and share one scope; otherwise a validation error is
// returned and nothing is planned.
func Reorder(itemIDs []uuid.UUID, current []Item) (Plan, error) {
	byID := make(map[uuid.UUID]int, len(current))
	for i, it := range current {
		byID[it.ID] = i
	}

	scope := ""
	seen := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		idx, ok := byID[id]
		if !ok {
			return Plan{}, fmt.Errorf("%w: unknown item %s", catalog.ErrValidation, id)
		}
		if _, dup := seen[id]; dup {
			return Plan{}, fmt.Errorf("%w: duplicate item %s", catalog.ErrValidation, id)
		}
		seen[id] = struct{}{}
		if scope == "" {
			scope = current[idx].Scope
		} else if current[idx].Scope != scope {
			return Plan{}, fmt.Errorf("%w: items span scopes %q and %q", catalog.ErrValidation, scope, current[idx].Scope)
		}
	}

	plan := Plan{
		Scope:    scope,
		Items:    make([]Item, len(current)),
		previous: make(map[uuid.UUID]int, len(current)),
	}
	copy(plan.Items, current)
	for _, it := range current {
		plan.previous[it.ID] = it.DisplayOrder
	}
	for pos, id := range itemIDs {
		idx := byID[id]
		from := plan.Items[idx].DisplayOrder
		plan.Items[idx].DisplayOrder = pos
		if from != pos {
			plan.Changes = append(plan.Changes, Assignment{ID: id, From: from, To: pos})
		}
	}
	SortItems(plan.Items)
	return plan, nil
}

// SortItems orders by scope, then display_order. The sort is stable so
// ties keep their input order.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Scope != items[j].Scope {
			return items[i].Scope < items[j].Scope
		}
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
}

// Contiguous reports whether the orders of items are exactly 0..N-1.
func Contiguous(items []Item) bool {
	seen := make([]bool, len(items))
	for _, it := range items {
		if it.DisplayOrder < 0 || it.DisplayOrder >= len(items) || seen[it.DisplayOrder] {
			return false
		}
		seen[it.DisplayOrder] = true
	}
	return true
}

// InScope filters items down to one scope, keeping their order.
func InScope(items []Item, scope string) []Item {
	var out []Item
	for _, it := range items {
		if it.Scope == scope {
			out = append(out, it)
		}
	}
	return out
}

// IDs returns the ids of items in slice order.
func IDs(items []Item) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
