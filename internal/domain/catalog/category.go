package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index;column:store_id" json:"store_id"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order" json:"display_order"`
	IsActive     bool      `gorm:"not null;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
