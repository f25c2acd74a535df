package aggregate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog/pricing"
)

// Snapshot is the public catalog payload for one storefront view. It is
// built fresh for every request and never cached.
type Snapshot struct {
	Store       StoreView      `json:"store"`
	Products    []ProductView  `json:"products"`
	AllProducts []ProductView  `json:"allProducts"`
	Categories  []CategoryView `json:"categories"`
	CustomLinks []LinkView     `json:"customLinks"`
	Meta        Meta           `json:"meta"`
}

type StoreView struct {
	ID                    uuid.UUID       `json:"id"`
	StoreURL              string          `json:"store_url"`
	StoreName             string          `json:"store_name"`
	WhatsAppNumber        string          `json:"whatsapp_number"`
	WhatsAppMessage       string          `json:"whatsapp_message,omitempty"`
	Bio                   string          `json:"bio,omitempty"`
	AvatarURL             string          `json:"avatar_url,omitempty"`
	VerifiedBadge         bool            `json:"verified_badge"`
	ShowAllProductsInFeed bool            `json:"show_all_products_in_feed"`
	CatalogTheme          string          `json:"catalog_theme"`
	CatalogLayout         string          `json:"catalog_layout"`
	CustomBackground      json.RawMessage `json:"custom_background,omitempty"`
	HideFooter            bool            `json:"hide_footer"`
	Features              map[string]bool `json:"features"`
}

// ProductView embeds the computed prices; Price mirrors OriginalPrice.
type ProductView struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id"`
	DisplayOrder int        `json:"display_order"`
	Status       string     `json:"status"`
	Price        float64    `json:"price"`
	pricing.Prices
	CreatedAt time.Time `json:"created_at"`
}

type CategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	ProductCount int       `json:"product_count"`
}

type LinkView struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"display_order"`
}

type Meta struct {
	TotalProducts    int       `json:"total_products"`
	TotalAllProducts int       `json:"total_all_products"`
	TotalCustomLinks int       `json:"total_custom_links"`
	TotalCategories  int       `json:"total_categories"`
	GeneratedAt      time.Time `json:"generated_at"`
	// OwnerPreview is set when the owner is looking at their own catalog.
	OwnerPreview bool `json:"owner_preview"`
}
