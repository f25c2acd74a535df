package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
)

func TestStoreRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: db}
	repo := NewStoreRepo(db, testutil.Logger(t))

	s := testutil.SeedStore(t, ctx, db, "loja-"+uuid.NewString()[:8], "pro")

	got, err := repo.GetByURL(dbc, s.StoreURL)
	if err != nil || got == nil || got.ID != s.ID {
		t.Fatalf("GetByURL: got=%v err=%v", got, err)
	}
	got, err = repo.GetByOwnerID(dbc, s.OwnerID)
	if err != nil || got == nil || got.ID != s.ID {
		t.Fatalf("GetByOwnerID: got=%v err=%v", got, err)
	}
	missing, err := repo.GetByURL(dbc, "nope-"+uuid.NewString())
	if err != nil || missing != nil {
		t.Fatalf("GetByURL missing: got=%v err=%v", missing, err)
	}

	taken, err := repo.URLTaken(dbc, s.StoreURL, uuid.Nil)
	if err != nil || !taken {
		t.Fatalf("URLTaken: taken=%v err=%v", taken, err)
	}
	taken, err = repo.URLTaken(dbc, s.StoreURL, s.ID)
	if err != nil || taken {
		t.Fatalf("URLTaken self: taken=%v err=%v", taken, err)
	}

	if err := repo.UpdateFields(dbc, s.ID, map[string]interface{}{"catalog_visible": false, "bio": "oi"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.GetByID(dbc, s.ID)
	if got.CatalogVisible || got.Bio != "oi" {
		t.Fatalf("UpdateFields not applied: %+v", got)
	}
	if err := repo.UpdateFields(dbc, uuid.New(), map[string]interface{}{"bio": "x"}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("UpdateFields unknown: want ErrNotFound, got %v", err)
	}
}

func TestProductRepo_OrderingAndScope(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: db}
	repo := NewProductRepo(db, testutil.Logger(t))

	s := testutil.SeedStore(t, ctx, db, "loja-"+uuid.NewString()[:8], "free")
	cat := testutil.SeedCategory(t, ctx, db, s.ID, "Bolos", 0)

	p1 := testutil.SeedProduct(t, ctx, db, s.ID, nil, "a", 1)
	p0 := testutil.SeedProduct(t, ctx, db, s.ID, nil, "b", 0)
	pc := testutil.SeedProduct(t, ctx, db, s.ID, &cat.ID, "c", 0)
	other := testutil.SeedStore(t, ctx, db, "outra-"+uuid.NewString()[:8], "free")
	testutil.SeedProduct(t, ctx, db, other.ID, nil, "x", 0)

	root, err := repo.ListByScope(dbc, s.ID, nil)
	if err != nil {
		t.Fatalf("ListByScope root: %v", err)
	}
	if len(root) != 2 || root[0].ID != p0.ID || root[1].ID != p1.ID {
		t.Fatalf("root scope order: %+v", root)
	}
	inCat, err := repo.ListByScope(dbc, s.ID, &cat.ID)
	if err != nil || len(inCat) != 1 || inCat[0].ID != pc.ID {
		t.Fatalf("category scope: %+v err=%v", inCat, err)
	}

	next, err := repo.NextDisplayOrder(dbc, s.ID, nil)
	if err != nil || next != 2 {
		t.Fatalf("NextDisplayOrder root: got %d err=%v", next, err)
	}
	empty := uuid.New()
	next, err = repo.NextDisplayOrder(dbc, s.ID, &empty)
	if err != nil || next != 0 {
		t.Fatalf("NextDisplayOrder empty: got %d err=%v", next, err)
	}

	if err := repo.UpdateFields(dbc, s.ID, p1.ID, map[string]interface{}{"status": types.ProductStatusInactive}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	active, err := repo.ListActiveByStore(dbc, s.ID)
	if err != nil {
		t.Fatalf("ListActiveByStore: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active products, got %d", len(active))
	}
	all, err := repo.ListByStore(dbc, s.ID)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByStore: n=%d err=%v", len(all), err)
	}

	if err := repo.UpdateDisplayOrder(dbc, s.ID, p0.ID, 5); err != nil {
		t.Fatalf("UpdateDisplayOrder: %v", err)
	}
	got, _ := repo.GetByID(dbc, s.ID, p0.ID)
	if got.DisplayOrder != 5 {
		t.Fatalf("display order not written: %d", got.DisplayOrder)
	}
	if err := repo.UpdateDisplayOrder(dbc, other.ID, p0.ID, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("cross-store write: want ErrNotFound, got %v", err)
	}

	if err := repo.Delete(dbc, s.ID, p0.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.GetByID(dbc, s.ID, p0.ID); got != nil {
		t.Fatalf("deleted product still visible")
	}
	if err := repo.Delete(dbc, s.ID, p0.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}

func TestCategoryAndLinkRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: db}
	log := testutil.Logger(t)
	cats := NewCategoryRepo(db, log)
	links := NewCustomLinkRepo(db, log)

	s := testutil.SeedStore(t, ctx, db, "loja-"+uuid.NewString()[:8], "pro")
	c1 := testutil.SeedCategory(t, ctx, db, s.ID, "B", 1)
	c0 := testutil.SeedCategory(t, ctx, db, s.ID, "A", 0)

	list, err := cats.ListByStore(dbc, s.ID)
	if err != nil || len(list) != 2 || list[0].ID != c0.ID || list[1].ID != c1.ID {
		t.Fatalf("category order: %+v err=%v", list, err)
	}
	if n, err := cats.NextDisplayOrder(dbc, s.ID); err != nil || n != 2 {
		t.Fatalf("category NextDisplayOrder: %d err=%v", n, err)
	}
	if err := cats.UpdateFields(dbc, s.ID, c1.ID, map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("category UpdateFields: %v", err)
	}
	got, _ := cats.GetByID(dbc, s.ID, c1.ID)
	if got == nil || got.IsActive {
		t.Fatalf("category not deactivated: %+v", got)
	}

	l0 := testutil.SeedCustomLink(t, ctx, db, s.ID, "insta", 0)
	l1 := testutil.SeedCustomLink(t, ctx, db, s.ID, "site", 1)
	if err := links.UpdateDisplayOrder(dbc, s.ID, l0.ID, 1); err != nil {
		t.Fatalf("link UpdateDisplayOrder: %v", err)
	}
	if err := links.UpdateDisplayOrder(dbc, s.ID, l1.ID, 0); err != nil {
		t.Fatalf("link UpdateDisplayOrder: %v", err)
	}
	ls, err := links.ListByStore(dbc, s.ID)
	if err != nil || len(ls) != 2 || ls[0].ID != l1.ID {
		t.Fatalf("link order after swap: %+v err=%v", ls, err)
	}
	if err := links.Delete(dbc, s.ID, l0.ID); err != nil {
		t.Fatalf("link Delete: %v", err)
	}
}

func TestCollectionVersionRepo_CompareAndBump(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: db}
	repo := NewCollectionVersionRepo(db, testutil.Logger(t))
	storeID := uuid.New()

	v, err := repo.Get(dbc, storeID, types.CollectionProducts, types.ScopeRoot)
	if err != nil || v != 0 {
		t.Fatalf("initial version: %d err=%v", v, err)
	}

	zero := int64(0)
	v, err = repo.CompareAndBump(dbc, storeID, types.CollectionProducts, types.ScopeRoot, &zero)
	if err != nil || v != 1 {
		t.Fatalf("first bump: %d err=%v", v, err)
	}

	if _, err := repo.CompareAndBump(dbc, storeID, types.CollectionProducts, types.ScopeRoot, &zero); !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("stale bump: want ErrConflict, got %v", err)
	}
	if v, _ := repo.Get(dbc, storeID, types.CollectionProducts, types.ScopeRoot); v != 1 {
		t.Fatalf("stale bump changed version to %d", v)
	}

	v, err = repo.CompareAndBump(dbc, storeID, types.CollectionProducts, types.ScopeRoot, nil)
	if err != nil || v != 2 {
		t.Fatalf("unconditional bump: %d err=%v", v, err)
	}

	// Scopes are independent.
	v, err = repo.CompareAndBump(dbc, storeID, types.CollectionCategories, types.ScopeRoot, &zero)
	if err != nil || v != 1 {
		t.Fatalf("other collection: %d err=%v", v, err)
	}
}
