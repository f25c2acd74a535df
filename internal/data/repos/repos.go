package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/data/repos/storefront"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type StoreRepo = storefront.StoreRepo
type ProductRepo = storefront.ProductRepo
type CategoryRepo = storefront.CategoryRepo
type CustomLinkRepo = storefront.CustomLinkRepo
type CollectionVersionRepo = storefront.CollectionVersionRepo

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return storefront.NewStoreRepo(db, baseLog)
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return storefront.NewProductRepo(db, baseLog)
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return storefront.NewCategoryRepo(db, baseLog)
}

func NewCustomLinkRepo(db *gorm.DB, baseLog *logger.Logger) CustomLinkRepo {
	return storefront.NewCustomLinkRepo(db, baseLog)
}

func NewCollectionVersionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionVersionRepo {
	return storefront.NewCollectionVersionRepo(db, baseLog)
}
