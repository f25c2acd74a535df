package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/editor"
	"github.com/yungbote/wacatalog-backend/internal/catalog/ordering"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/apierr"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type ReorderRequest struct {
	Collection string      `json:"-"`
	IDs        []uuid.UUID `json:"ids"`
	CategoryID *uuid.UUID  `json:"category_id"`
	Version    *int64      `json:"version"`
}

type ReorderResult struct {
	Collection string          `json:"collection"`
	Scope      string          `json:"scope"`
	Version    int64           `json:"version"`
	State      ordering.State  `json:"state"`
	Items      []ordering.Item `json:"items"`
}

// ReorderFailure is returned to the editor when a reorder could not be
// persisted. Items is the confirmed order to show again; FailedIDs can be
// resubmitted with Version.
type ReorderFailure struct {
	Collection      string          `json:"collection"`
	Scope           string          `json:"scope"`
	Version         int64           `json:"version"`
	FailedIDs       []uuid.UUID     `json:"failed_ids"`
	RevertFailedIDs []uuid.UUID     `json:"revert_failed_ids,omitempty"`
	Items           []ordering.Item `json:"items"`
}

type ReorderService interface {
	Reorder(dbc dbctx.Context, req ReorderRequest) (*ReorderResult, error)
}

type reorderService struct {
	db          *gorm.DB
	log         *logger.Logger
	stores      repos.StoreRepo
	products    repos.ProductRepo
	categories  repos.CategoryRepo
	links       repos.CustomLinkRepo
	versions    repos.CollectionVersionRepo
	editor      EditorService
	coordinator *ordering.Coordinator
}

func NewReorderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	stores repos.StoreRepo,
	products repos.ProductRepo,
	categories repos.CategoryRepo,
	links repos.CustomLinkRepo,
	versions repos.CollectionVersionRepo,
	editorSvc EditorService,
	coordinator *ordering.Coordinator,
) ReorderService {
	serviceLog := baseLog.With("service", "ReorderService")
	if coordinator == nil {
		coordinator = ordering.NewCoordinator(serviceLog)
	}
	return &reorderService{
		db:          db,
		log:         serviceLog,
		stores:      stores,
		products:    products,
		categories:  categories,
		links:       links,
		versions:    versions,
		editor:      editorSvc,
		coordinator: coordinator,
	}
}

// Reorder replaces the order of one whole scope with req.IDs. The list must
// name every item of the scope exactly once, which keeps display_order
// contiguous. A stale req.Version is rejected before anything is written.
func (s *reorderService) Reorder(dbc dbctx.Context, req ReorderRequest) (*ReorderResult, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}

	session, err := s.editor.Session(dbc.Ctx)
	if err != nil {
		return nil, fmt.Errorf("load edit mode: %w", err)
	}
	if session.Resolve(editor.GestureDrag) != editor.ActionReorder {
		return nil, fmt.Errorf("%w: turn on edit mode to reorder", catalog.ErrForbidden)
	}

	scope, current, write, err := s.scope(dbc, store.ID, req)
	if err != nil {
		return nil, err
	}
	if len(req.IDs) != len(current) {
		return nil, fmt.Errorf("%w: reorder must list all %d items of the collection, got %d", catalog.ErrValidation, len(current), len(req.IDs))
	}
	if _, err := ordering.Reorder(req.IDs, current); err != nil {
		return nil, err
	}

	version, err := s.versions.CompareAndBump(dbc, store.ID, req.Collection, scope, req.Version)
	if err != nil {
		return nil, err
	}

	// The write phase outlives the request so a client disconnect cannot
	// leave a half-written order; only a newer reorder cancels it.
	opCtx := context.WithoutCancel(dbc.Ctx)
	key := ordering.Key(store.ID, req.Collection, scope)
	persist := ordering.PersistFunc(func(ctx context.Context, id uuid.UUID, order int) error {
		return write(dbctx.Context{Ctx: ctx}, id, order)
	})
	load := func(ctx context.Context) ([]ordering.Item, error) {
		_, rows, _, err := s.scope(dbctx.Context{Ctx: ctx}, store.ID, req)
		if err != nil {
			return nil, err
		}
		if len(rows) != len(req.IDs) {
			return nil, fmt.Errorf("%w: collection changed while reordering", catalog.ErrValidation)
		}
		return rows, nil
	}
	op, err := s.coordinator.Submit(opCtx, key, req.IDs, current, load, persist)
	if err != nil {
		if perr, ok := ordering.IsPersistError(err); ok && !errors.Is(err, catalog.ErrSuperseded) {
			s.log.Warn("Reorder not persisted",
				"store_id", store.ID,
				"collection", req.Collection,
				"failed", len(perr.Failed),
				"revert_failed", len(perr.RevertFailed),
			)
			return nil, &apierr.Error{
				Status:    http.StatusServiceUnavailable,
				Code:      "persistence_failed",
				Err:       err,
				Retryable: true,
				Details: ReorderFailure{
					Collection:      req.Collection,
					Scope:           scope,
					Version:         version,
					FailedIDs:       perr.Failed,
					RevertFailedIDs: perr.RevertFailed,
					Items:           op.LocalState(),
				},
			}
		}
		return nil, err
	}

	s.log.Info("Reorder committed",
		"store_id", store.ID,
		"collection", req.Collection,
		"scope", scope,
		"changes", len(op.Plan().Changes),
		"version", version,
	)
	return &ReorderResult{
		Collection: req.Collection,
		Scope:      scope,
		Version:    version,
		State:      op.State(),
		Items:      op.LocalState(),
	}, nil
}

type orderWriter func(dbc dbctx.Context, id uuid.UUID, order int) error

func (s *reorderService) scope(dbc dbctx.Context, storeID uuid.UUID, req ReorderRequest) (string, []ordering.Item, orderWriter, error) {
	switch req.Collection {
	case types.CollectionProducts:
		var categoryID *uuid.UUID
		if req.CategoryID != nil && *req.CategoryID != uuid.Nil {
			categoryID = req.CategoryID
		}
		rows, err := s.products.ListByScope(dbc, storeID, categoryID)
		if err != nil {
			return "", nil, nil, err
		}
		write := func(dbc dbctx.Context, id uuid.UUID, order int) error {
			return s.products.UpdateDisplayOrder(dbc, storeID, id, order)
		}
		return types.ProductScope(categoryID), productItems(rows), write, nil
	case types.CollectionCategories:
		rows, err := s.categories.ListByStore(dbc, storeID)
		if err != nil {
			return "", nil, nil, err
		}
		write := func(dbc dbctx.Context, id uuid.UUID, order int) error {
			return s.categories.UpdateDisplayOrder(dbc, storeID, id, order)
		}
		return types.ScopeRoot, categoryItems(rows), write, nil
	case types.CollectionCustomLinks:
		rows, err := s.links.ListByStore(dbc, storeID)
		if err != nil {
			return "", nil, nil, err
		}
		write := func(dbc dbctx.Context, id uuid.UUID, order int) error {
			return s.links.UpdateDisplayOrder(dbc, storeID, id, order)
		}
		return types.ScopeRoot, linkItems(rows), write, nil
	default:
		return "", nil, nil, fmt.Errorf("%w: unknown collection %q", catalog.ErrValidation, req.Collection)
	}
}
