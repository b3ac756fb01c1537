package repository

import (
	"context"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	// Create inserts the payment together with its split details.
	Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	ListByCaja(ctx context.Context, cajaID uuid.UUID, limit int) ([]model.Pago, error)
	CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error)
	ListByEstudiante(ctx context.Context, estudianteID uuid.UUID) ([]model.Pago, error)
	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return conn(ctx, r.db, tx).Omit("Estudiante").Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Detalles").Preload("Estudiante").First(&p, "id = ?", id).Error
	return &p, err
}

// ListByCaja returns the till's payments newest first; limit <= 0 means all.
func (r *pagoRepo) ListByCaja(ctx context.Context, cajaID uuid.UUID, limit int) ([]model.Pago, error) {
	var pagos []model.Pago
	q := r.db.WithContext(ctx).Preload("Detalles").Preload("Estudiante").
		Where("caja_id = ?", cajaID).Order("fecha_pago DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) CountByCaja(ctx context.Context, cajaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pago{}).Where("caja_id = ?", cajaID).Count(&n).Error
	return n, err
}

func (r *pagoRepo) ListByEstudiante(ctx context.Context, estudianteID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Preload("Detalles").
		Where("estudiante_id = ? AND estado = ?", estudianteID, model.EstadoPagoCompletado).
		Order("fecha_pago DESC").Find(&pagos).Error
	return pagos, err
}
