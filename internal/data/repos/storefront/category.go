package storefront

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, category *types.Category) (*types.Category, error)
	GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.Category, error)
	ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Category, error)
	NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID) (int, error)
	UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error
	UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error
	Delete(dbc dbctx.Context, storeID, id uuid.UUID) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{
		db:  db,
		log: baseLog.With("repo", "CategoryRepo"),
	}
}

func (r *categoryRepo) Create(dbc dbctx.Context, category *types.Category) (*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if category == nil {
		return nil, fmt.Errorf("nil category: %w", catalog.ErrValidation)
	}
	if err := transaction.WithContext(dbc.Ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Category
	err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

// ListByStore returns active and inactive categories ordered by
// display_order. Callers filter for the public view.
func (r *categoryRepo) ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Category
	if err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return nextDisplayOrder(transaction.WithContext(dbc.Ctx).
		Model(&types.Category{}).
		Where("store_id = ?", storeID))
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Category{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

func (r *categoryRepo) UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return updateDisplayOrder(transaction.WithContext(dbc.Ctx), &types.Category{}, storeID, id, order)
}

func (r *categoryRepo) Delete(dbc dbctx.Context, storeID, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&types.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}
