package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoHayCajaAbierta = errors.New("no hay una caja abierta, debe abrir caja primero")

var paraActualizar = clause.Locking{Strength: "UPDATE"}

// conn uses tx when the caller is inside a transaction, otherwise the pool.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
