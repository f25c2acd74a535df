package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Ordered collections that carry a display_order.
const (
	CollectionProducts    = "products"
	CollectionCategories  = "categories"
	CollectionCustomLinks = "custom_links"
)

// ScopeRoot is the scope of collections that are not partitioned, and of
// uncategorized products.
const ScopeRoot = "root"

// CollectionVersion is the optimistic-concurrency token of one ordered
// collection scope. Every committed reorder bumps Version.
type CollectionVersion struct {
	StoreID    uuid.UUID `gorm:"type:uuid;primaryKey;column:store_id" json:"store_id"`
	Collection string    `gorm:"primaryKey;column:collection" json:"collection"`
	Scope      string    `gorm:"primaryKey;column:scope" json:"scope"`
	Version    int64     `gorm:"not null;default:0;column:version" json:"version"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CollectionVersion) TableName() string { return "collection_versions" }

// ProductScope maps a product category to its ordering scope key.
func ProductScope(categoryID *uuid.UUID) string {
	if categoryID == nil || *categoryID == uuid.Nil {
		return ScopeRoot
	}
	return categoryID.String()
}
