package repository

import (
	"context"
	"errors"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// claveApertura namespaces the advisory lock taken while opening a till.
const claveApertura int64 = 0x0CEA0001

type CajaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// FindAbierta returns (nil, nil) when no till is open.
	FindAbierta(ctx context.Context, tx *gorm.DB) (*model.Caja, error)
	// LockAbierta row-locks the open till; ErrNoHayCajaAbierta when there is none.
	LockAbierta(ctx context.Context, tx *gorm.DB) (*model.Caja, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Caja, error)
	// BloquearApertura serializes concurrent opens until tx ends.
	BloquearApertura(ctx context.Context, tx *gorm.DB) error
	Update(ctx context.Context, tx *gorm.DB, c *model.Caja) error
	List(ctx context.Context, filter dto.HistorialCajaFilter) ([]model.Caja, int64, error)
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Caja) error {
	return conn(ctx, r.db, tx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) FindAbierta(ctx context.Context, tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := conn(ctx, r.db, tx).Where("estado = ?", model.EstadoCajaAbierta).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) LockAbierta(ctx context.Context, tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := conn(ctx, r.db, tx).Clauses(paraActualizar).
		Where("estado = ?", model.EstadoCajaAbierta).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoHayCajaAbierta
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := conn(ctx, r.db, tx).Clauses(paraActualizar).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) BloquearApertura(ctx context.Context, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Exec("SELECT pg_advisory_xact_lock(?)", claveApertura).Error
}

func (r *cajaRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Caja) error {
	return conn(ctx, r.db, tx).Save(c).Error
}

func (r *cajaRepo) List(ctx context.Context, filter dto.HistorialCajaFilter) ([]model.Caja, int64, error) {
	var cajas []model.Caja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Caja{})
	if filter.Desde != nil {
		q = q.Where("fecha_apertura >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		// fecha_fin is inclusive
		q = q.Where("fecha_apertura < ?", filter.Hasta.AddDate(0, 0, 1))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("fecha_apertura DESC").Limit(filter.Limit).Offset(offset).Find(&cajas).Error
	return cajas, total, err
}
