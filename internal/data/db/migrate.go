package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Store{},
		&types.Category{},
		&types.Product{},
		&types.CustomLink{},
		&types.CollectionVersion{},
	)
}

// EnsureCatalogIndexes adds the Postgres-only partial indexes the storefront
// read path relies on.
func EnsureCatalogIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_products_store_active_order",
			sql: `CREATE INDEX IF NOT EXISTS idx_products_store_active_order
				ON products(store_id, display_order, created_at DESC)
				WHERE status = 'active' AND deleted_at IS NULL;`,
		},
		{
			name: "idx_categories_store_order",
			sql: `CREATE INDEX IF NOT EXISTS idx_categories_store_order
				ON categories(store_id, display_order)
				WHERE deleted_at IS NULL;`,
		},
		{
			name: "idx_custom_links_store_order",
			sql: `CREATE INDEX IF NOT EXISTS idx_custom_links_store_order
				ON custom_links(store_id, display_order)
				WHERE deleted_at IS NULL;`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
