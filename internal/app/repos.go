package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type Repos struct {
	Store             repos.StoreRepo
	Product           repos.ProductRepo
	Category          repos.CategoryRepo
	CustomLink        repos.CustomLinkRepo
	CollectionVersion repos.CollectionVersionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Store:             repos.NewStoreRepo(db, log),
		Product:           repos.NewProductRepo(db, log),
		Category:          repos.NewCategoryRepo(db, log),
		CustomLink:        repos.NewCustomLinkRepo(db, log),
		CollectionVersion: repos.NewCollectionVersionRepo(db, log),
	}
}
