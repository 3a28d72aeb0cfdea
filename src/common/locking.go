package common

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row-level lock on databases that support one.
// SQLite has no FOR UPDATE; its single-writer transactions already
// serialize the read-check-write spans that need the lock elsewhere.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
