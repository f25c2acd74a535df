package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog/ordering"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
)

func productItems(rows []*types.Product) []ordering.Item {
	out := make([]ordering.Item, 0, len(rows))
	for _, p := range rows {
		out = append(out, ordering.Item{ID: p.ID, Scope: types.ProductScope(p.CategoryID), DisplayOrder: p.DisplayOrder})
	}
	return out
}

func categoryItems(rows []*types.Category) []ordering.Item {
	out := make([]ordering.Item, 0, len(rows))
	for _, c := range rows {
		out = append(out, ordering.Item{ID: c.ID, Scope: types.ScopeRoot, DisplayOrder: c.DisplayOrder})
	}
	return out
}

func linkItems(rows []*types.CustomLink) []ordering.Item {
	out := make([]ordering.Item, 0, len(rows))
	for _, l := range rows {
		out = append(out, ordering.Item{ID: l.ID, Scope: types.ScopeRoot, DisplayOrder: l.DisplayOrder})
	}
	return out
}

// compact rewrites display_order to 0..N-1 following the current order of
// items, skipping rows already in place. Used after deletes and moves,
// which run inside one transaction and do not go through the coordinator.
func compact(items []ordering.Item, write func(id uuid.UUID, order int) error) error {
	sorted := append([]ordering.Item(nil), items...)
	ordering.SortItems(sorted)
	for i, it := range sorted {
		if it.DisplayOrder == i {
			continue
		}
		if err := write(it.ID, i); err != nil {
			return err
		}
	}
	return nil
}

// touchScope bumps the scope's version so pending reorders built on the
// old order are rejected.
func touchScope(dbc dbctx.Context, versions repos.CollectionVersionRepo, storeID uuid.UUID, collection, scope string) error {
	if versions == nil {
		return nil
	}
	_, err := versions.CompareAndBump(dbc, storeID, collection, scope, nil)
	return err
}
