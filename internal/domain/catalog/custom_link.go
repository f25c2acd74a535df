package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomLink struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index;column:store_id" json:"store_id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	URL          string    `gorm:"not null;column:url" json:"url"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order" json:"display_order"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CustomLink) TableName() string { return "custom_links" }

func (l *CustomLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
