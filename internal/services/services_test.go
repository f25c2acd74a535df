package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/catalog/ordering"
	"github.com/yungbote/wacatalog-backend/internal/clients/billing"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	"github.com/yungbote/wacatalog-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/apierr"
	"github.com/yungbote/wacatalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
)

type testEnv struct {
	db         *gorm.DB
	stores     repos.StoreRepo
	products   repos.ProductRepo
	categories repos.CategoryRepo
	links      repos.CustomLinkRepo
	versions   repos.CollectionVersionRepo

	editor     EditorService
	store      StoreService
	product    ProductService
	category   CategoryService
	link       CustomLinkService
	reorder    ReorderService
	export     ExportService
	catalogSvc CatalogService
	views      *fakeViews
}

type fakeViews struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (f *fakeViews) RecordView(_ context.Context, storeID uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, storeID)
	return nil
}

func (f *fakeViews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	e := &testEnv{
		db:         db,
		stores:     repos.NewStoreRepo(db, log),
		products:   repos.NewProductRepo(db, log),
		categories: repos.NewCategoryRepo(db, log),
		links:      repos.NewCustomLinkRepo(db, log),
		versions:   repos.NewCollectionVersionRepo(db, log),
		views:      &fakeViews{},
	}
	e.editor = NewEditorService(log, e.stores, NewMemoryEditorStateStore())
	e.store = NewStoreService(db, log, e.stores, e.editor)
	e.product = NewProductService(db, log, e.stores, e.products, e.categories, e.versions)
	e.category = NewCategoryService(db, log, e.stores, e.categories, e.products, e.versions)
	e.link = NewCustomLinkService(db, log, e.stores, e.links, e.versions)
	e.reorder = NewReorderService(db, log, e.stores, e.products, e.categories, e.links, e.versions, e.editor, ordering.NewCoordinator(log))
	e.export = NewExportService(db, log, e.stores, e.products, e.categories)
	e.catalogSvc = NewCatalogService(log, e.stores, e.products, e.categories, e.links, e.views)
	return e
}

func (e *testEnv) seedStore(t *testing.T, plan string) (*types.Store, dbctx.Context) {
	t.Helper()
	s := testutil.SeedStore(t, context.Background(), e.db, "loja-"+uuid.NewString()[:8], plan)
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{OwnerID: s.OwnerID})
	return s, dbctx.Context{Ctx: ctx}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func f64Ptr(f float64) *float64 {
	return &f
}

func TestStoreService_SettingsAreGated(t *testing.T) {
	e := newEnv(t)
	_, free := e.seedStore(t, "free")

	_, err := e.store.UpdateSettings(free, StoreSettingsPatch{Bio: OptionalString{Set: true, Value: strPtr("Doces artesanais")}})
	if !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("free bio: want ErrForbidden, got %v", err)
	}
	_, err = e.store.UpdateSettings(free, StoreSettingsPatch{CatalogLayout: OptionalString{Set: true, Value: strPtr("grid")}})
	if !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("free grid: want ErrForbidden, got %v", err)
	}
	prof, err := e.store.UpdateSettings(free, StoreSettingsPatch{
		Bio:            OptionalString{Set: true, Value: strPtr("")},
		CatalogVisible: OptionalBool{Set: true, Value: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("free reset: %v", err)
	}
	if prof.Store.CatalogVisible {
		t.Fatalf("catalog_visible not updated")
	}

	_, pro := e.seedStore(t, "pro")
	prof, err = e.store.UpdateSettings(pro, StoreSettingsPatch{
		Bio:           OptionalString{Set: true, Value: strPtr("Doces artesanais")},
		CatalogLayout: OptionalString{Set: true, Value: strPtr("grid")},
	})
	if err != nil {
		t.Fatalf("pro settings: %v", err)
	}
	if prof.Store.Bio != "Doces artesanais" || prof.Store.CatalogLayout != "grid" {
		t.Fatalf("pro settings not applied: %+v", prof.Store)
	}
	if !prof.Features["bio_message"] || prof.Features["custom_store_url"] {
		t.Fatalf("pro feature map wrong: %v", prof.Features)
	}
	_, err = e.store.UpdateSettings(pro, StoreSettingsPatch{StoreURL: OptionalString{Set: true, Value: strPtr("nova-loja")}})
	if !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("pro store_url: want ErrForbidden, got %v", err)
	}
}

func TestStoreService_StoreURL(t *testing.T) {
	e := newEnv(t)
	other, _ := e.seedStore(t, "free")
	_, plus := e.seedStore(t, "pro_plus")

	_, err := e.store.UpdateSettings(plus, StoreSettingsPatch{StoreURL: OptionalString{Set: true, Value: strPtr(other.StoreURL)}})
	if !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("taken url: want ErrConflict, got %v", err)
	}
	_, err = e.store.UpdateSettings(plus, StoreSettingsPatch{StoreURL: OptionalString{Set: true, Value: strPtr("a b")}})
	if !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("bad url: want ErrValidation, got %v", err)
	}
	prof, err := e.store.UpdateSettings(plus, StoreSettingsPatch{StoreURL: OptionalString{Set: true, Value: strPtr("Doceria-Ana")}})
	if err != nil {
		t.Fatalf("url change: %v", err)
	}
	if prof.Store.StoreURL != "doceria-ana" {
		t.Fatalf("url not normalized: %q", prof.Store.StoreURL)
	}
}

func TestStoreService_CanAccessFeature(t *testing.T) {
	e := newEnv(t)
	_, pro := e.seedStore(t, "pro")
	if ok, err := e.store.CanAccessFeature(pro, "custom_links"); err != nil || !ok {
		t.Fatalf("pro custom_links: ok=%v err=%v", ok, err)
	}
	if ok, _ := e.store.CanAccessFeature(pro, "analytics"); ok {
		t.Fatalf("pro must not have analytics")
	}
	if ok, _ := e.store.CanAccessFeature(pro, "teleport"); ok {
		t.Fatalf("unknown key must be denied")
	}
	if _, err := e.store.CanAccessFeature(dbctx.Context{Ctx: context.Background()}, "analytics"); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("anonymous: want ErrForbidden, got %v", err)
	}
}

func TestProductService_CreateAppendsAndValidates(t *testing.T) {
	e := newEnv(t)
	_, dbc := e.seedStore(t, "free")

	a, err := e.product.Create(dbc, ProductInput{Name: "Bolo", Price: 100, Discount: f64Ptr(25)})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := e.product.Create(dbc, ProductInput{Name: "Torta", Price: 50})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.DisplayOrder != 0 || b.DisplayOrder != 1 {
		t.Fatalf("orders: a=%d b=%d", a.DisplayOrder, b.DisplayOrder)
	}
	if a.FinalPrice != 75 || a.FormattedFinalPrice != "R$ 75,00" {
		t.Fatalf("prices: %+v", a.Prices)
	}

	if _, err := e.product.Create(dbc, ProductInput{Name: "x", Price: 1, Discount: f64Ptr(120)}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("discount 120: want ErrValidation, got %v", err)
	}
	if _, err := e.product.Create(dbc, ProductInput{Name: " ", Price: 1}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("blank name: want ErrValidation, got %v", err)
	}
	missing := uuid.New()
	if _, err := e.product.Create(dbc, ProductInput{Name: "y", Price: 1, CategoryID: &missing}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("unknown category: want ErrValidation, got %v", err)
	}
}

func TestProductService_MoveAndDeleteKeepScopesContiguous(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	cat, err := e.category.Create(dbc, CategoryInput{Name: "Bolos"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	var ids []uuid.UUID
	for _, n := range []string{"a", "b", "c"} {
		p, err := e.product.Create(dbc, ProductInput{Name: n, Price: 10})
		if err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		ids = append(ids, p.ID)
	}

	moved, err := e.product.Update(dbc, ids[0], ProductPatch{CategoryID: OptionalUUID{Set: true, Value: &cat.ID}})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.CategoryID == nil || *moved.CategoryID != cat.ID || moved.DisplayOrder != 0 {
		t.Fatalf("moved product: %+v", moved.Product)
	}
	assertContiguous(t, e, store.ID, nil, []uuid.UUID{ids[1], ids[2]})

	if err := e.product.Delete(dbc, ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertContiguous(t, e, store.ID, nil, []uuid.UUID{ids[2]})

	if err := e.product.Delete(dbc, ids[1]); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestCategoryService_DeleteMovesProductsToRoot(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	c1, _ := e.category.Create(dbc, CategoryInput{Name: "Bolos"})
	c2, _ := e.category.Create(dbc, CategoryInput{Name: "Tortas"})
	root, _ := e.product.Create(dbc, ProductInput{Name: "solto", Price: 1})
	in1, _ := e.product.Create(dbc, ProductInput{Name: "p1", Price: 1, CategoryID: &c1.ID})
	in2, _ := e.product.Create(dbc, ProductInput{Name: "p2", Price: 1, CategoryID: &c1.ID})

	if err := e.category.Delete(dbc, c1.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	assertContiguous(t, e, store.ID, nil, []uuid.UUID{root.ID, in1.ID, in2.ID})

	cats, err := e.category.List(dbc)
	if err != nil || len(cats) != 1 || cats[0].ID != c2.ID || cats[0].DisplayOrder != 0 {
		t.Fatalf("remaining categories: %+v err=%v", cats, err)
	}
}

func TestCustomLinkService_RequiresCapability(t *testing.T) {
	e := newEnv(t)
	_, free := e.seedStore(t, "free")
	if _, err := e.link.Create(free, CustomLinkInput{Title: "Insta", URL: "instagram.com/loja"}); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("free link: want ErrForbidden, got %v", err)
	}

	_, pro := e.seedStore(t, "pro")
	l, err := e.link.Create(pro, CustomLinkInput{Title: "Insta", URL: "instagram.com/loja"})
	if err != nil {
		t.Fatalf("pro link: %v", err)
	}
	if l.URL != "https://instagram.com/loja" {
		t.Fatalf("url not normalized: %q", l.URL)
	}
	if _, err := e.link.Create(pro, CustomLinkInput{Title: "x", URL: "ftp://nope"}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("ftp link: want ErrValidation, got %v", err)
	}
}

func TestReorderService(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	var ids []uuid.UUID
	for _, n := range []string{"a", "b", "c"} {
		p, err := e.product.Create(dbc, ProductInput{Name: n, Price: 10})
		if err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		ids = append(ids, p.ID)
	}
	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	req := ReorderRequest{Collection: types.CollectionProducts, IDs: reversed}

	if _, err := e.reorder.Reorder(dbc, req); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("viewing mode: want ErrForbidden, got %v", err)
	}
	if _, err := e.editor.SetEditing(dbc, true); err != nil {
		t.Fatalf("enable editing: %v", err)
	}

	partial := ReorderRequest{Collection: types.CollectionProducts, IDs: reversed[:2]}
	if _, err := e.reorder.Reorder(dbc, partial); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("partial list: want ErrValidation, got %v", err)
	}

	current, err := e.versions.Get(dbc, store.ID, types.CollectionProducts, types.ScopeRoot)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	req.Version = &current
	res, err := e.reorder.Reorder(dbc, req)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if res.State != ordering.StateCommitted || res.Version != current+1 {
		t.Fatalf("result: %+v", res)
	}
	assertContiguous(t, e, store.ID, nil, reversed)

	stale := ReorderRequest{Collection: types.CollectionProducts, IDs: ids, Version: &current}
	if _, err := e.reorder.Reorder(dbc, stale); !errors.Is(err, catalog.ErrConflict) {
		t.Fatalf("stale version: want ErrConflict, got %v", err)
	}
	assertContiguous(t, e, store.ID, nil, reversed)

	// Without a version the last write wins.
	if _, err := e.reorder.Reorder(dbc, ReorderRequest{Collection: types.CollectionProducts, IDs: ids}); err != nil {
		t.Fatalf("unversioned reorder: %v", err)
	}
	assertContiguous(t, e, store.ID, nil, ids)

	if _, err := e.reorder.Reorder(dbc, ReorderRequest{Collection: "widgets", IDs: nil}); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("unknown collection: want ErrValidation, got %v", err)
	}
}

// flakyProducts fails or holds display_order writes for chosen products.
type flakyProducts struct {
	repos.ProductRepo
	fail map[uuid.UUID]bool
	hold map[uuid.UUID]bool
	held chan struct{}
	once sync.Once
}

func (f *flakyProducts) UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error {
	if f.fail[id] {
		return errors.New("connection reset")
	}
	if f.hold[id] {
		f.once.Do(func() { close(f.held) })
		<-dbc.Ctx.Done()
		return dbc.Ctx.Err()
	}
	return f.ProductRepo.UpdateDisplayOrder(dbc, storeID, id, order)
}

func (e *testEnv) reorderWith(t *testing.T, products repos.ProductRepo) ReorderService {
	t.Helper()
	log := testutil.Logger(t)
	return NewReorderService(e.db, log, e.stores, products, e.categories, e.links, e.versions, e.editor, ordering.NewCoordinator(log))
}

func (e *testEnv) seedProducts(t *testing.T, dbc dbctx.Context, names ...string) []uuid.UUID {
	t.Helper()
	var ids []uuid.UUID
	for _, n := range names {
		p, err := e.product.Create(dbc, ProductInput{Name: n, Price: 10})
		if err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func TestReorderService_RoundTripsThroughCatalog(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	ids := e.seedProducts(t, dbc, "a", "b", "c")
	if _, err := e.editor.SetEditing(dbc, true); err != nil {
		t.Fatalf("enable editing: %v", err)
	}

	want := []uuid.UUID{ids[2], ids[0], ids[1]}
	if _, err := e.reorder.Reorder(dbc, ReorderRequest{Collection: types.CollectionProducts, IDs: want}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	snap, err := e.catalogSvc.GetCatalog(context.Background(), store.StoreURL)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(snap.Products) != len(want) {
		t.Fatalf("products: got %d want %d", len(snap.Products), len(want))
	}
	for i, p := range snap.Products {
		if p.ID != want[i] || p.DisplayOrder != i {
			t.Fatalf("position %d: got %s (order %d) want %s", i, p.Name, p.DisplayOrder, want[i])
		}
	}
}

func TestReorderService_PersistFailureReturnsRecoveryData(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	ids := e.seedProducts(t, dbc, "a", "b", "c")
	if _, err := e.editor.SetEditing(dbc, true); err != nil {
		t.Fatalf("enable editing: %v", err)
	}
	flaky := &flakyProducts{ProductRepo: e.products, fail: map[uuid.UUID]bool{ids[2]: true}}
	svc := e.reorderWith(t, flaky)

	before, err := e.versions.Get(dbc, store.ID, types.CollectionProducts, types.ScopeRoot)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	_, err = svc.Reorder(dbc, ReorderRequest{Collection: types.CollectionProducts, IDs: []uuid.UUID{ids[2], ids[1], ids[0]}})
	if !errors.Is(err, catalog.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
	ae, ok := apierr.As(err)
	if !ok || ae.Status != http.StatusServiceUnavailable || ae.Code != "persistence_failed" || !ae.Retryable {
		t.Fatalf("want retryable persistence_failed, got %+v", ae)
	}
	details, ok := ae.Details.(ReorderFailure)
	if !ok {
		t.Fatalf("details: %T", ae.Details)
	}
	if details.Version != before+1 {
		t.Fatalf("version: got %d want %d", details.Version, before+1)
	}
	if len(details.FailedIDs) != 1 || details.FailedIDs[0] != ids[2] {
		t.Fatalf("failed ids: %v", details.FailedIDs)
	}
	for i, it := range details.Items {
		if it.ID != ids[i] || it.DisplayOrder != i {
			t.Fatalf("confirmed items: %+v", details.Items)
		}
	}
	assertContiguous(t, e, store.ID, nil, ids)

	// The client retries with the returned version once storage recovers.
	retry := ReorderRequest{Collection: types.CollectionProducts, IDs: []uuid.UUID{ids[2], ids[1], ids[0]}, Version: &details.Version}
	if _, err := e.reorder.Reorder(dbc, retry); err != nil {
		t.Fatalf("retry: %v", err)
	}
	assertContiguous(t, e, store.ID, nil, retry.IDs)
}

func TestReorderService_SupersedeAfterPartialWrite(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	ids := e.seedProducts(t, dbc, "a", "b", "c")
	a, b, c := ids[0], ids[1], ids[2]
	if _, err := e.editor.SetEditing(dbc, true); err != nil {
		t.Fatalf("enable editing: %v", err)
	}
	flaky := &flakyProducts{ProductRepo: e.products, hold: map[uuid.UUID]bool{a: true, b: true}, held: make(chan struct{})}
	svc := e.reorderWith(t, flaky)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reorder(dbc, ReorderRequest{Collection: types.CollectionProducts, IDs: []uuid.UUID{c, a, b}})
		done <- err
	}()
	select {
	case <-flaky.held:
	case <-time.After(2 * time.Second):
		t.Fatalf("first reorder never reached storage")
	}

	res, err := svc.Reorder(dbc, ReorderRequest{Collection: types.CollectionProducts, IDs: []uuid.UUID{a, b, c}})
	if err != nil {
		t.Fatalf("second reorder: %v", err)
	}
	if res.State != ordering.StateCommitted {
		t.Fatalf("second state: %s", res.State)
	}
	select {
	case err := <-done:
		if !errors.Is(err, catalog.ErrSuperseded) {
			t.Fatalf("first reorder: want ErrSuperseded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first reorder was not cancelled")
	}
	assertContiguous(t, e, store.ID, nil, []uuid.UUID{a, b, c})
}

func TestReorderService_Categories(t *testing.T) {
	e := newEnv(t)
	_, dbc := e.seedStore(t, "free")
	c0, _ := e.category.Create(dbc, CategoryInput{Name: "A"})
	c1, _ := e.category.Create(dbc, CategoryInput{Name: "B"})
	if _, err := e.editor.SetEditing(dbc, true); err != nil {
		t.Fatalf("enable editing: %v", err)
	}
	if _, err := e.reorder.Reorder(dbc, ReorderRequest{Collection: types.CollectionCategories, IDs: []uuid.UUID{c1.ID, c0.ID}}); err != nil {
		t.Fatalf("reorder categories: %v", err)
	}
	cats, _ := e.category.List(dbc)
	if cats[0].ID != c1.ID || cats[0].DisplayOrder != 0 || cats[1].DisplayOrder != 1 {
		t.Fatalf("category order: %+v", cats)
	}
}

func TestEditorService_OnlyOwnersEdit(t *testing.T) {
	e := newEnv(t)
	stranger := dbctx.Context{Ctx: ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{OwnerID: uuid.New()})}
	if _, err := e.editor.SetEditing(stranger, true); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("stranger: want ErrForbidden, got %v", err)
	}
	_, dbc := e.seedStore(t, "free")
	mode, err := e.editor.SetEditing(dbc, true)
	if err != nil || mode != "editing" {
		t.Fatalf("owner: mode=%s err=%v", mode, err)
	}
	prof, err := e.store.Profile(dbc)
	if err != nil || prof.EditMode != "editing" {
		t.Fatalf("profile mode: %+v err=%v", prof, err)
	}
}

func TestExportService_UsesComputedPrices(t *testing.T) {
	e := newEnv(t)
	_, dbc := e.seedStore(t, "free")
	cat, _ := e.category.Create(dbc, CategoryInput{Name: "Bolos"})
	if _, err := e.product.Create(dbc, ProductInput{Name: "Bolo", Price: 1234.5, Discount: f64Ptr(10), CategoryID: &cat.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	n, err := e.export.WriteProductsCSV(dbc, &buf)
	if err != nil || n != 1 {
		t.Fatalf("export: n=%d err=%v", n, err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(recs))
	}
	row := recs[1]
	if row[2] != "Bolos" || row[7] != "1111.05" || row[9] != "R$ 1.111,05" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestCatalogService_RecordsPublicViewsOnly(t *testing.T) {
	e := newEnv(t)
	store, dbc := e.seedStore(t, "free")
	if _, err := e.product.Create(dbc, ProductInput{Name: "Bolo", Price: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := e.catalogSvc.GetCatalog(context.Background(), store.StoreURL)
	if err != nil {
		t.Fatalf("public catalog: %v", err)
	}
	if len(snap.Products) != 1 || e.views.count() != 1 {
		t.Fatalf("products=%d views=%d", len(snap.Products), e.views.count())
	}

	if _, err := e.catalogSvc.GetCatalog(dbc.Ctx, store.StoreURL); err != nil {
		t.Fatalf("owner preview: %v", err)
	}
	if e.views.count() != 1 {
		t.Fatalf("owner preview must not count as a view")
	}

	if _, err := e.store.UpdateSettings(dbc, StoreSettingsPatch{CatalogVisible: OptionalBool{Set: true, Value: boolPtr(false)}}); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := e.catalogSvc.GetCatalog(context.Background(), store.StoreURL); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("hidden catalog: want ErrNotFound, got %v", err)
	}
	if _, err := e.catalogSvc.GetCatalog(dbc.Ctx, store.StoreURL); err != nil {
		t.Fatalf("owner sees hidden catalog: %v", err)
	}
}

type fakePriceSource struct {
	plans []billing.PlanPrice
	err   error
}

func (f *fakePriceSource) PlanPrices(context.Context) ([]billing.PlanPrice, error) {
	return f.plans, f.err
}

type fakePriceCache struct {
	raw []byte
	err error
}

func (f *fakePriceCache) Load(_ context.Context, dst interface{}) (bool, error) {
	if f.err != nil || f.raw == nil {
		return false, f.err
	}
	return true, json.Unmarshal(f.raw, dst)
}

func (f *fakePriceCache) Store(_ context.Context, v interface{}) error {
	raw, err := json.Marshal(v)
	f.raw = raw
	return err
}

func TestPlanPricingService_FallbackChain(t *testing.T) {
	log := testutil.Logger(t)
	src := &fakePriceSource{plans: []billing.PlanPrice{{Plan: "pro", Name: "Pro", MonthlyPrice: 24.9, Currency: "BRL"}}}
	cache := &fakePriceCache{}

	svc, err := NewPlanPricingService(log, src, cache)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	table, err := svc.Prices(context.Background())
	if err != nil || table.Degraded || table.Source != PriceSourceBilling {
		t.Fatalf("billing: %+v err=%v", table, err)
	}
	if table.Plans[0].FormattedPrice != "R$ 24,90" {
		t.Fatalf("formatted: %q", table.Plans[0].FormattedPrice)
	}
	if !contains(table.Plans[0].Features, "custom_links") || contains(table.Plans[0].Features, "analytics") {
		t.Fatalf("pro features: %v", table.Plans[0].Features)
	}

	src.err = errors.New("billing down")
	table, _ = svc.Prices(context.Background())
	if !table.Degraded || table.Source != PriceSourceCache || table.Plans[0].MonthlyPrice != 24.9 {
		t.Fatalf("cache fallback: %+v", table)
	}

	cache.raw = nil
	cache.err = errors.New("redis down")
	table, _ = svc.Prices(context.Background())
	if !table.Degraded || table.Source != PriceSourceFallback {
		t.Fatalf("static fallback: %+v", table)
	}
	listed := map[string]bool{}
	for _, p := range table.Plans {
		listed[p.Plan] = true
	}
	for _, plan := range entitlement.Plans() {
		if !listed[string(plan)] {
			t.Fatalf("static fallback is missing plan %s", plan)
		}
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func assertContiguous(t *testing.T, e *testEnv, storeID uuid.UUID, categoryID *uuid.UUID, want []uuid.UUID) {
	t.Helper()
	rows, err := e.products.ListByScope(dbctx.Context{Ctx: context.Background()}, storeID, categoryID)
	if err != nil {
		t.Fatalf("list scope: %v", err)
	}
	if len(rows) != len(want) {
		t.Fatalf("scope size: got %d want %d", len(rows), len(want))
	}
	for i, p := range rows {
		if p.DisplayOrder != i || p.ID != want[i] {
			var got []string
			for _, r := range rows {
				got = append(got, r.Name)
			}
			t.Fatalf("position %d: got %s (order %d), full scope %s", i, p.Name, p.DisplayOrder, strings.Join(got, ","))
		}
	}
}

type fakeStats struct {
	total int64
	until time.Time
	days  int
}

func (f *fakeStats) Total(context.Context, uuid.UUID) (int64, error) { return f.total, nil }

func (f *fakeStats) Daily(_ context.Context, _ uuid.UUID, until time.Time, days int) ([]types.DailyViews, error) {
	f.until, f.days = until, days
	out := make([]types.DailyViews, days)
	for i := range out {
		out[i] = types.DailyViews{Day: until.AddDate(0, 0, i-days+1).Format("2006-01-02"), Views: 1}
	}
	return out, nil
}

func TestAnalyticsService_RequiresAnalyticsCapability(t *testing.T) {
	e := newEnv(t)
	stats := &fakeStats{total: 42}
	svc := NewAnalyticsService(testutil.Logger(t), e.stores, stats)

	_, pro := e.seedStore(t, "pro")
	if _, err := svc.Views(pro, 7); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("pro: want ErrForbidden, got %v", err)
	}

	_, plus := e.seedStore(t, "pro_plus")
	if _, err := svc.Views(plus, MaxAnalyticsDays+1); !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("too many days: want ErrValidation, got %v", err)
	}
	got, err := svc.Views(plus, 0)
	if err != nil {
		t.Fatalf("pro_plus: %v", err)
	}
	if !got.Enabled || got.TotalViews != 42 || len(got.Daily) != DefaultAnalyticsDays || stats.days != DefaultAnalyticsDays {
		t.Fatalf("unexpected analytics: enabled=%v total=%d days=%d", got.Enabled, got.TotalViews, len(got.Daily))
	}

	disabled := NewAnalyticsService(testutil.Logger(t), e.stores, nil)
	got, err = disabled.Views(plus, 7)
	if err != nil || got.Enabled || got.TotalViews != 0 || got.Daily == nil {
		t.Fatalf("without counter: %+v err=%v", got, err)
	}
}

type brokenEditorState struct{}

func (brokenEditorState) Mode(context.Context, uuid.UUID) (string, error) {
	return "", errors.New("redis: connection refused")
}

func (brokenEditorState) SetMode(context.Context, uuid.UUID, string) error {
	return errors.New("redis: connection refused")
}

func TestEditorService_StateLookupFailureIsReturned(t *testing.T) {
	e := newEnv(t)
	_, dbc := e.seedStore(t, "free")
	svc := NewEditorService(testutil.Logger(t), e.stores, brokenEditorState{})
	mode, err := svc.SetEditing(dbc, false)
	if err == nil {
		t.Fatalf("want error when edit state cannot be read, got mode=%s", mode)
	}
	if mode != "viewing" {
		t.Fatalf("mode on failure: got %s", mode)
	}
}
