package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_products_store_order,priority:1;column:store_id" json:"store_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index;column:category_id" json:"category_id"`

	Name        string   `gorm:"not null;column:name" json:"name"`
	Description string   `gorm:"column:description" json:"description"`
	ImageURL    string   `gorm:"column:image_url" json:"image_url"`
	Price       float64  `gorm:"not null;default:0;column:price" json:"price"`
	Discount    *float64 `gorm:"column:discount" json:"discount"`
	Status      string   `gorm:"not null;default:'active';index;column:status" json:"status"`

	DisplayOrder int `gorm:"not null;default:0;index:idx_products_store_order,priority:2;column:display_order" json:"display_order"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) IsActive() bool { return p != nil && p.Status == ProductStatusActive }

func (p *Product) Uncategorized() bool {
	return p != nil && (p.CategoryID == nil || *p.CategoryID == uuid.Nil)
}
