package storefront

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
)

// updateDisplayOrder writes one row's display_order. Rows outside storeID
// count as missing.
func updateDisplayOrder(tx *gorm.DB, model interface{}, storeID, id uuid.UUID, order int) error {
	res := tx.Model(model).
		Where("store_id = ? AND id = ?", storeID, id).
		Update("display_order", order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("row %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// nextDisplayOrder is one past the highest display_order in q, or 0 for an
// empty scope.
func nextDisplayOrder(q *gorm.DB) (int, error) {
	var max int64
	if err := q.Select("COALESCE(MAX(display_order), -1)").Row().Scan(&max); err != nil {
		return 0, err
	}
	return int(max) + 1, nil
}
