package storefront

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// CollectionVersionRepo stores the per-scope reorder token.
type CollectionVersionRepo interface {
	Get(dbc dbctx.Context, storeID uuid.UUID, collection, scope string) (int64, error)
	// CompareAndBump increments the version when it still equals expected.
	// A nil expected always bumps. A mismatch returns catalog.ErrConflict and
	// leaves the row untouched.
	CompareAndBump(dbc dbctx.Context, storeID uuid.UUID, collection, scope string, expected *int64) (int64, error)
}

type collectionVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionVersionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionVersionRepo {
	return &collectionVersionRepo{
		db:  db,
		log: baseLog.With("repo", "CollectionVersionRepo"),
	}
}

func (r *collectionVersionRepo) Get(dbc dbctx.Context, storeID uuid.UUID, collection, scope string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []types.CollectionVersion
	if err := transaction.WithContext(dbc.Ctx).
		Where("store_id = ? AND collection = ? AND scope = ?", storeID, collection, scope).
		Limit(1).
		Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Version, nil
}

func (r *collectionVersionRepo) CompareAndBump(dbc dbctx.Context, storeID uuid.UUID, collection, scope string, expected *int64) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var next int64
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		seed := &types.CollectionVersion{StoreID: storeID, Collection: collection, Scope: scope}
		if err := txx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return err
		}

		q := txx.Model(&types.CollectionVersion{}).
			Where("store_id = ? AND collection = ? AND scope = ?", storeID, collection, scope)
		if expected != nil {
			q = q.Where("version = ?", *expected)
		}
		res := q.Update("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s/%s: %w", collection, scope, catalog.ErrConflict)
		}

		var row types.CollectionVersion
		if err := txx.
			Where("store_id = ? AND collection = ? AND scope = ?", storeID, collection, scope).
			Take(&row).Error; err != nil {
			return err
		}
		next = row.Version
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
