package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
)

func SeedStore(tb testing.TB, ctx context.Context, tx *gorm.DB, storeURL string, plan string) *types.Store {
	tb.Helper()
	s := &types.Store{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		StoreURL:         storeURL,
		StoreName:        "Loja " + storeURL,
		WhatsAppNumber:   "5511999999999",
		SubscriptionPlan: plan,
		CatalogVisible:   true,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed store: %v", err)
	}
	return s
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, storeID uuid.UUID, name string, order int) *types.Category {
	tb.Helper()
	c := &types.Category{
		ID:           uuid.New(),
		StoreID:      storeID,
		Name:         name,
		DisplayOrder: order,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, storeID uuid.UUID, categoryID *uuid.UUID, name string, order int) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:           uuid.New(),
		StoreID:      storeID,
		CategoryID:   categoryID,
		Name:         name,
		Price:        10,
		Status:       types.ProductStatusActive,
		DisplayOrder: order,
		CreatedAt:    time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedCustomLink(tb testing.TB, ctx context.Context, tx *gorm.DB, storeID uuid.UUID, title string, order int) *types.CustomLink {
	tb.Helper()
	l := &types.CustomLink{
		ID:           uuid.New(),
		StoreID:      storeID,
		Title:        title,
		URL:          "https://example.com/" + title,
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed custom link: %v", err)
	}
	return l
}
