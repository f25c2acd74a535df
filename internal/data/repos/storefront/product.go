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

type ProductRepo interface {
	Create(dbc dbctx.Context, product *types.Product) (*types.Product, error)
	GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.Product, error)
	ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Product, error)
	ListActiveByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Product, error)
	ListByScope(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]*types.Product, error)
	NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) (int, error)
	UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error
	UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error
	Delete(dbc dbctx.Context, storeID, id uuid.UUID) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{
		db:  db,
		log: baseLog.With("repo", "ProductRepo"),
	}
}

func (r *productRepo) Create(dbc dbctx.Context, product *types.Product) (*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if product == nil {
		return nil, fmt.Errorf("nil product: %w", catalog.ErrValidation)
	}
	if err := transaction.WithContext(dbc.Ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p types.Product
	err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Limit(1).
		Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

// ListByStore returns every product of the store, active or not, in
// storefront order.
func (r *productRepo) ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Product
	if err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) ListActiveByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Product
	if err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND status = ?", storeID, types.ProductStatusActive).
		Order("display_order ASC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByScope lists the products sharing one ordering scope. A nil
// categoryID selects uncategorized products.
func (r *productRepo) ListByScope(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Product
	q := scopeQuery(transaction.WithContext(dbc.Ctx).Model(&types.Product{}), storeID, categoryID)
	if err := q.
		Order("display_order ASC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := scopeQuery(transaction.WithContext(dbc.Ctx).Model(&types.Product{}), storeID, categoryID)
	return nextDisplayOrder(q)
}

func (r *productRepo) UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

func (r *productRepo) UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return updateDisplayOrder(transaction.WithContext(dbc.Ctx), &types.Product{}, storeID, id, order)
}

func (r *productRepo) Delete(dbc dbctx.Context, storeID, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&types.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

func scopeQuery(q *gorm.DB, storeID uuid.UUID, categoryID *uuid.UUID) *gorm.DB {
	q = q.Where("store_id = ?", storeID)
	if categoryID == nil || *categoryID == uuid.Nil {
		return q.Where("category_id IS NULL")
	}
	return q.Where("category_id = ?", *categoryID)
}
