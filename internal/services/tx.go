package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
)

// inTx runs fn in a transaction nested under dbc.Tx when one is open.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(inner dbctx.Context) error) error {
	base := dbc.Tx
	if base == nil {
		base = db
	}
	return base.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}
