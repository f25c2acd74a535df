package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

const maxCategoryNameLen = 60

type CategoryInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

type CategoryPatch struct {
	Name     OptionalString `json:"name"`
	IsActive OptionalBool   `json:"is_active"`
}

type CategoryService interface {
	List(dbc dbctx.Context) ([]*types.Category, error)
	Create(dbc dbctx.Context, in CategoryInput) (*types.Category, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch CategoryPatch) (*types.Category, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type categoryService struct {
	db         *gorm.DB
	log        *logger.Logger
	stores     repos.StoreRepo
	categories repos.CategoryRepo
	products   repos.ProductRepo
	versions   repos.CollectionVersionRepo
}

func NewCategoryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	stores repos.StoreRepo,
	categories repos.CategoryRepo,
	products repos.ProductRepo,
	versions repos.CollectionVersionRepo,
) CategoryService {
	return &categoryService{
		db:         db,
		log:        baseLog.With("service", "CategoryService"),
		stores:     stores,
		categories: categories,
		products:   products,
		versions:   versions,
	}
}

func (s *categoryService) List(dbc dbctx.Context) ([]*types.Category, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	return s.categories.ListByStore(dbc, store.ID)
}

func (s *categoryService) Create(dbc dbctx.Context, in CategoryInput) (*types.Category, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	c := &types.Category{StoreID: store.ID, Name: name, IsActive: true}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		order, err := s.categories.NextDisplayOrder(inner, store.ID)
		if err != nil {
			return err
		}
		c.DisplayOrder = order
		if _, err := s.categories.Create(inner, c); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionCategories, types.ScopeRoot)
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *categoryService) Update(dbc dbctx.Context, id uuid.UUID, patch CategoryPatch) (*types.Category, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name.Set {
		name := patch.Name.Or("")
		if err := validateCategoryName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if patch.IsActive.Set && patch.IsActive.Value != nil {
		updates["is_active"] = *patch.IsActive.Value
	}

	current, err := s.categories.GetByID(dbc, store.ID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	if err := s.categories.UpdateFields(dbc, store.ID, id, updates); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.categories.GetByID(dbc, store.ID, id)
}

// Delete removes the category and moves its products to the end of the
// uncategorized scope, keeping their relative order.
func (s *categoryService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return err
	}
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		current, err := s.categories.GetByID(inner, store.ID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
		}

		orphans, err := s.products.ListByScope(inner, store.ID, &id)
		if err != nil {
			return err
		}
		next, err := s.products.NextDisplayOrder(inner, store.ID, nil)
		if err != nil {
			return err
		}
		for i, p := range orphans {
			if err := s.products.UpdateFields(inner, store.ID, p.ID, map[string]interface{}{
				"category_id":   nil,
				"display_order": next + i,
			}); err != nil {
				return err
			}
		}

		if err := s.categories.Delete(inner, store.ID, id); err != nil {
			return err
		}
		rest, err := s.categories.ListByStore(inner, store.ID)
		if err != nil {
			return err
		}
		if err := compact(categoryItems(rest), func(cid uuid.UUID, order int) error {
			return s.categories.UpdateDisplayOrder(inner, store.ID, cid, order)
		}); err != nil {
			return err
		}

		if err := touchScope(inner, s.versions, store.ID, types.CollectionCategories, types.ScopeRoot); err != nil {
			return err
		}
		if len(orphans) == 0 {
			return nil
		}
		if err := touchScope(inner, s.versions, store.ID, types.CollectionProducts, types.ScopeRoot); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionProducts, types.ProductScope(&id))
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.log.Info("Category deleted", "store_id", store.ID, "category_id", id)
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", catalog.ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return fmt.Errorf("%w: name exceeds %d characters", catalog.ErrValidation, maxCategoryNameLen)
	}
	return nil
}
