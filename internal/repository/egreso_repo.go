package repository

import (
	"context"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EgresoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Egreso) error
	ListByCaja(ctx context.Context, cajaID uuid.UUID, limit int) ([]model.Egreso, error)
	CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type egresoRepo struct{ db *gorm.DB }

func NewEgresoRepository(db *gorm.DB) EgresoRepository { return &egresoRepo{db: db} }

func (r *egresoRepo) DB() *gorm.DB { return r.db }

func (r *egresoRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Egreso) error {
	return conn(ctx, r.db, tx).Create(e).Error
}

func (r *egresoRepo) ListByCaja(ctx context.Context, cajaID uuid.UUID, limit int) ([]model.Egreso, error) {
	var egresos []model.Egreso
	q := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("fecha DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&egresos).Error
	return egresos, err
}

func (r *egresoRepo) CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Egreso{}).Where("caja_id = ?", cajaID).Count(&n).Error
	return n, err
}
