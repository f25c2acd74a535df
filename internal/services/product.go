package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/pricing"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

const maxProductNameLen = 120

// ProductItem is a product row with its computed prices, as listed in the
// dashboard.
type ProductItem struct {
	types.Product
	pricing.Prices
}

type ProductInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Price       float64    `json:"price"`
	Discount    *float64   `json:"discount"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      string     `json:"status"`
}

type ProductPatch struct {
	Name        OptionalString  `json:"name"`
	Description OptionalString  `json:"description"`
	ImageURL    OptionalString  `json:"image_url"`
	Price       OptionalFloat64 `json:"price"`
	Discount    OptionalFloat64 `json:"discount"`
	CategoryID  OptionalUUID    `json:"category_id"`
	Status      OptionalString  `json:"status"`
}

type ProductService interface {
	List(dbc dbctx.Context) ([]ProductItem, error)
	Create(dbc dbctx.Context, in ProductInput) (*ProductItem, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch ProductPatch) (*ProductItem, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type productService struct {
	db         *gorm.DB
	log        *logger.Logger
	stores     repos.StoreRepo
	products   repos.ProductRepo
	categories repos.CategoryRepo
	versions   repos.CollectionVersionRepo
}

func NewProductService(
	db *gorm.DB,
	baseLog *logger.Logger,
	stores repos.StoreRepo,
	products repos.ProductRepo,
	categories repos.CategoryRepo,
	versions repos.CollectionVersionRepo,
) ProductService {
	return &productService{
		db:         db,
		log:        baseLog.With("service", "ProductService"),
		stores:     stores,
		products:   products,
		categories: categories,
		versions:   versions,
	}
}

func toProductItem(p *types.Product) ProductItem {
	return ProductItem{Product: *p, Prices: pricing.ComputePrices(p.Price, p.Discount)}
}

func (s *productService) List(dbc dbctx.Context) ([]ProductItem, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	rows, err := s.products.ListByStore(dbc, store.ID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]ProductItem, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProductItem(p))
	}
	return out, nil
}

func (s *productService) Create(dbc dbctx.Context, in ProductInput) (*ProductItem, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := pricing.ValidatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := pricing.ValidateDiscount(in.Discount); err != nil {
		return nil, err
	}
	status, err := parseProductStatus(in.Status)
	if err != nil {
		return nil, err
	}

	product := &types.Product{
		StoreID:     store.ID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       pricing.Round2(in.Price),
		Discount:    normalizeDiscount(in.Discount),
		Status:      status,
	}
	if in.CategoryID != nil && *in.CategoryID != uuid.Nil {
		id := *in.CategoryID
		product.CategoryID = &id
	}

	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		if err := s.requireCategory(inner, store.ID, product.CategoryID); err != nil {
			return err
		}
		order, err := s.products.NextDisplayOrder(inner, store.ID, product.CategoryID)
		if err != nil {
			return err
		}
		product.DisplayOrder = order
		if _, err := s.products.Create(inner, product); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionProducts, types.ProductScope(product.CategoryID))
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("Product created", "store_id", store.ID, "product_id", product.ID)
	item := toProductItem(product)
	return &item, nil
}

// Update applies patch. Moving a product to another category appends it to
// the end of the destination and closes the gap it leaves behind.
func (s *productService) Update(dbc dbctx.Context, id uuid.UUID, patch ProductPatch) (*ProductItem, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name.Set {
		name := patch.Name.Or("")
		if err := validateProductName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if patch.Description.Set {
		updates["description"] = patch.Description.Or("")
	}
	if patch.ImageURL.Set {
		updates["image_url"] = patch.ImageURL.Or("")
	}
	if patch.Price.Set {
		if patch.Price.Value == nil {
			return nil, fmt.Errorf("%w: price is required", catalog.ErrValidation)
		}
		if err := pricing.ValidatePrice(*patch.Price.Value); err != nil {
			return nil, err
		}
		updates["price"] = pricing.Round2(*patch.Price.Value)
	}
	if patch.Discount.Set {
		if err := pricing.ValidateDiscount(patch.Discount.Value); err != nil {
			return nil, err
		}
		if d := normalizeDiscount(patch.Discount.Value); d != nil {
			updates["discount"] = *d
		} else {
			updates["discount"] = nil
		}
	}
	if patch.Status.Set {
		status, err := parseProductStatus(patch.Status.Or(""))
		if err != nil {
			return nil, err
		}
		updates["status"] = status
	}

	var out *types.Product
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		current, err := s.products.GetByID(inner, store.ID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
		}

		fromScope := types.ProductScope(current.CategoryID)
		moved := false
		if patch.CategoryID.Set {
			dest := patch.CategoryID.Value
			if types.ProductScope(dest) != fromScope {
				if err := s.requireCategory(inner, store.ID, dest); err != nil {
					return err
				}
				order, err := s.products.NextDisplayOrder(inner, store.ID, dest)
				if err != nil {
					return err
				}
				if dest == nil {
					updates["category_id"] = nil
				} else {
					updates["category_id"] = *dest
				}
				updates["display_order"] = order
				moved = true
			}
		}

		if err := s.products.UpdateFields(inner, store.ID, id, updates); err != nil {
			return err
		}

		if moved {
			if err := s.compactScope(inner, store.ID, current.CategoryID); err != nil {
				return err
			}
			if err := touchScope(inner, s.versions, store.ID, types.CollectionProducts, fromScope); err != nil {
				return err
			}
			if err := touchScope(inner, s.versions, store.ID, types.CollectionProducts, types.ProductScope(patch.CategoryID.Value)); err != nil {
				return err
			}
		}

		out, err = s.products.GetByID(inner, store.ID, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}
	item := toProductItem(out)
	return &item, nil
}

func (s *productService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return err
	}
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		current, err := s.products.GetByID(inner, store.ID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
		}
		if err := s.products.Delete(inner, store.ID, id); err != nil {
			return err
		}
		if err := s.compactScope(inner, store.ID, current.CategoryID); err != nil {
			return err
		}
		return touchScope(inner, s.versions, store.ID, types.CollectionProducts, types.ProductScope(current.CategoryID))
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.log.Info("Product deleted", "store_id", store.ID, "product_id", id)
	return nil
}

func (s *productService) compactScope(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) error {
	rows, err := s.products.ListByScope(dbc, storeID, categoryID)
	if err != nil {
		return err
	}
	return compact(productItems(rows), func(id uuid.UUID, order int) error {
		return s.products.UpdateDisplayOrder(dbc, storeID, id, order)
	})
}

func (s *productService) requireCategory(dbc dbctx.Context, storeID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil || *categoryID == uuid.Nil {
		return nil
	}
	c, err := s.categories.GetByID(dbc, storeID, *categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: unknown category %s", catalog.ErrValidation, *categoryID)
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", catalog.ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxProductNameLen {
		return fmt.Errorf("%w: name exceeds %d characters", catalog.ErrValidation, maxProductNameLen)
	}
	return nil
}

func parseProductStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", types.ProductStatusActive:
		return types.ProductStatusActive, nil
	case types.ProductStatusInactive:
		return types.ProductStatusInactive, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", catalog.ErrValidation, raw)
	}
}

// normalizeDiscount stores 0 as NULL; both mean no discount.
func normalizeDiscount(d *float64) *float64 {
	if d == nil || *d <= 0 {
		return nil
	}
	v := *d
	return &v
}
