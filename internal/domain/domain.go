package domain

import "github.com/yungbote/wacatalog-backend/internal/domain/catalog"

type Store = catalog.Store
type Product = catalog.Product
type Category = catalog.Category
type CustomLink = catalog.CustomLink
type CollectionVersion = catalog.CollectionVersion
type DailyViews = catalog.DailyViews

const (
	ProductStatusActive   = catalog.ProductStatusActive
	ProductStatusInactive = catalog.ProductStatusInactive

	CollectionProducts    = catalog.CollectionProducts
	CollectionCategories  = catalog.CollectionCategories
	CollectionCustomLinks = catalog.CollectionCustomLinks

	ScopeRoot = catalog.ScopeRoot
)

var ProductScope = catalog.ProductScope
