package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog/pricing"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

var exportHeader = []string{
	"id",
	"name",
	"category",
	"status",
	"display_order",
	"original_price",
	"discount_percent",
	"final_price",
	"formatted_original_price",
	"formatted_final_price",
}

type ExportService interface {
	// WriteProductsCSV streams every product of the owner's store in
	// dashboard order. Price columns come from the same computation the
	// dashboard and storefront render.
	WriteProductsCSV(dbc dbctx.Context, w io.Writer) (int, error)
}

type exportService struct {
	db         *gorm.DB
	log        *logger.Logger
	stores     repos.StoreRepo
	products   repos.ProductRepo
	categories repos.CategoryRepo
}

func NewExportService(db *gorm.DB, baseLog *logger.Logger, stores repos.StoreRepo, products repos.ProductRepo, categories repos.CategoryRepo) ExportService {
	return &exportService{
		db:         db,
		log:        baseLog.With("service", "ExportService"),
		stores:     stores,
		products:   products,
		categories: categories,
	}
}

func (s *exportService) WriteProductsCSV(dbc dbctx.Context, w io.Writer) (int, error) {
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return 0, err
	}
	// Products and categories come from one read transaction.
	var (
		rows []*types.Product
		cats []*types.Category
	)
	err = inTx(dbc, s.db, func(inner dbctx.Context) error {
		var err error
		if rows, err = s.products.ListByStore(inner, store.ID); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if cats, err = s.categories.ListByStore(inner, store.ID); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, p := range rows {
		prices := pricing.ComputePrices(p.Price, p.Discount)
		category := ""
		if !p.Uncategorized() {
			category = names[*p.CategoryID]
		}
		rec := []string{
			p.ID.String(),
			p.Name,
			category,
			p.Status,
			strconv.Itoa(p.DisplayOrder),
			strconv.FormatFloat(prices.OriginalPrice, 'f', 2, 64),
			strconv.FormatFloat(prices.DiscountPercent, 'f', -1, 64),
			strconv.FormatFloat(prices.FinalPrice, 'f', 2, 64),
			prices.FormattedOriginalPrice,
			prices.FormattedFinalPrice,
		}
		if err := cw.Write(rec); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	s.log.Debug("Products exported", "store_id", store.ID, "rows", len(rows))
	return len(rows), nil
}
