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

type CustomLinkRepo interface {
	Create(dbc dbctx.Context, link *types.CustomLink) (*types.CustomLink, error)
	GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.CustomLink, error)
	ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.CustomLink, error)
	NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID) (int, error)
	UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error
	UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error
	Delete(dbc dbctx.Context, storeID, id uuid.UUID) error
}

type customLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomLinkRepo(db *gorm.DB, baseLog *logger.Logger) CustomLinkRepo {
	return &customLinkRepo{
		db:  db,
		log: baseLog.With("repo", "CustomLinkRepo"),
	}
}

func (r *customLinkRepo) Create(dbc dbctx.Context, link *types.CustomLink) (*types.CustomLink, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if link == nil {
		return nil, fmt.Errorf("nil link: %w", catalog.ErrValidation)
	}
	if err := transaction.WithContext(dbc.Ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *customLinkRepo) GetByID(dbc dbctx.Context, storeID, id uuid.UUID) (*types.CustomLink, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var l types.CustomLink
	err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Limit(1).
		Find(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

func (r *customLinkRepo) ListByStore(dbc dbctx.Context, storeID uuid.UUID) ([]*types.CustomLink, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CustomLink
	if err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customLinkRepo) NextDisplayOrder(dbc dbctx.Context, storeID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return nextDisplayOrder(transaction.WithContext(dbc.Ctx).
		Model(&types.CustomLink{}).
		Where("store_id = ?", storeID))
}

func (r *customLinkRepo) UpdateFields(dbc dbctx.Context, storeID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.CustomLink{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("custom link %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

func (r *customLinkRepo) UpdateDisplayOrder(dbc dbctx.Context, storeID, id uuid.UUID, order int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return updateDisplayOrder(transaction.WithContext(dbc.Ctx), &types.CustomLink{}, storeID, id, order)
}

func (r *customLinkRepo) Delete(dbc dbctx.Context, storeID, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&types.CustomLink{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("custom link %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}
