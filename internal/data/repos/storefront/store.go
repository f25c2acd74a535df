package storefront

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type StoreRepo interface {
	Create(dbc dbctx.Context, store *types.Store) (*types.Store, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Store, error)
	GetByURL(dbc dbctx.Context, storeURL string) (*types.Store, error)
	GetByOwnerID(dbc dbctx.Context, ownerID uuid.UUID) (*types.Store, error)
	URLTaken(dbc dbctx.Context, storeURL string, exceptID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type storeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return &storeRepo{
		db:  db,
		log: baseLog.With("repo", "StoreRepo"),
	}
}

func (r *storeRepo) Create(dbc dbctx.Context, store *types.Store) (*types.Store, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if store == nil {
		return nil, fmt.Errorf("nil store: %w", catalog.ErrValidation)
	}
	if err := transaction.WithContext(dbc.Ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (r *storeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Store, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

// GetByURL returns (nil, nil) when no store owns storeURL.
func (r *storeRepo) GetByURL(dbc dbctx.Context, storeURL string) (*types.Store, error) {
	storeURL = strings.TrimSpace(storeURL)
	if storeURL == "" {
		return nil, nil
	}
	return r.first(dbc, "store_url = ?", storeURL)
}

func (r *storeRepo) GetByOwnerID(dbc dbctx.Context, ownerID uuid.UUID) (*types.Store, error) {
	if ownerID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "owner_id = ?", ownerID)
}

func (r *storeRepo) first(dbc dbctx.Context, cond string, arg interface{}) (*types.Store, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var store types.Store
	err := transaction.WithContext(dbc.Ctx).
		Where(cond, arg).
		Limit(1).
		Find(&store).Error
	if err != nil {
		return nil, err
	}
	if store.ID == uuid.Nil {
		return nil, nil
	}
	return &store, nil
}

func (r *storeRepo) URLTaken(dbc dbctx.Context, storeURL string, exceptID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.Store{}).
		Where("store_url = ?", storeURL)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *storeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Store{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}
