package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is the owner's storefront profile. Billing only ever writes the
// subscription columns.
type Store struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:owner_id" json:"-"`

	StoreURL       string `gorm:"not null;uniqueIndex;column:store_url" json:"store_url"`
	StoreName      string `gorm:"not null;column:store_name" json:"store_name"`
	WhatsAppNumber string `gorm:"column:whatsapp_number" json:"whatsapp_number"`
	WhatsAppMsg    string `gorm:"column:whatsapp_message" json:"whatsapp_message"`
	Bio            string `gorm:"column:bio" json:"bio"`
	AvatarURL      string `gorm:"column:avatar_url" json:"avatar_url"`

	SubscriptionPlan      string     `gorm:"not null;default:'free';column:subscription_plan" json:"subscription_plan"`
	SubscriptionExpiresAt *time.Time `gorm:"column:subscription_expires_at" json:"subscription_expires_at,omitempty"`
	IsVerified            bool       `gorm:"not null;default:false;column:is_verified" json:"is_verified"`

	CatalogVisible        bool           `gorm:"not null;column:catalog_visible" json:"catalog_visible"`
	ShowAllProductsInFeed bool           `gorm:"not null;default:false;column:show_all_products_in_feed" json:"show_all_products_in_feed"`
	CatalogTheme          string         `gorm:"column:catalog_theme" json:"catalog_theme"`
	CatalogLayout         string         `gorm:"column:catalog_layout" json:"catalog_layout"`
	CustomBackground      datatypes.JSON `gorm:"column:custom_background" json:"custom_background,omitempty"`
	HideFooter            bool           `gorm:"not null;default:false;column:hide_footer" json:"hide_footer"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Store) TableName() string { return "profiles" }

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
