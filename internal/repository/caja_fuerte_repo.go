package repository

import (
	"context"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaFuerteRepository interface {
	// Asegurar returns the vault, creating it on first use.
	Asegurar(ctx context.Context, tx *gorm.DB) (*model.CajaFuerte, error)
	Lock(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CajaFuerte, error)
	UpdateSaldos(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte) error
	// SumMovimientos is the signed (INGRESO - EGRESO) total of one rail.
	SumMovimientos(ctx context.Context, tx *gorm.DB, cajaFuerteID uuid.UUID, metodo model.MetodoPago) (decimal.Decimal, error)

	CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCajaFuerte) error
	FindMovimiento(ctx context.Context, id uuid.UUID) (*model.MovimientoCajaFuerte, error)
	LockMovimiento(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.MovimientoCajaFuerte, error)
	UpdateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCajaFuerte) error
	DeleteMovimiento(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ExisteCierreCaja(ctx context.Context, tx *gorm.DB, cajaID uuid.UUID) (bool, error)
	ListMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) ([]model.MovimientoCajaFuerte, error)

	// Inventario row-locks the denomination counts when tx is not nil.
	Inventario(ctx context.Context, tx *gorm.DB, cajaFuerteID uuid.UUID) ([]model.InventarioEfectivo, error)
	GuardarInventario(ctx context.Context, tx *gorm.DB, filas []model.InventarioEfectivo) error
	DB() *gorm.DB
}

type cajaFuerteRepo struct{ db *gorm.DB }

func NewCajaFuerteRepository(db *gorm.DB) CajaFuerteRepository { return &cajaFuerteRepo{db: db} }

func (r *cajaFuerteRepo) DB() *gorm.DB { return r.db }

func (r *cajaFuerteRepo) Asegurar(ctx context.Context, tx *gorm.DB) (*model.CajaFuerte, error) {
	q := conn(ctx, r.db, tx)
	nueva := model.CajaFuerte{ID: model.CajaFuertePrincipalID}
	if err := q.Clauses(clause.OnConflict{DoNothing: true}).Create(&nueva).Error; err != nil {
		return nil, err
	}
	var cf model.CajaFuerte
	err := q.First(&cf, "id = ?", model.CajaFuertePrincipalID).Error
	return &cf, err
}

func (r *cajaFuerteRepo) Lock(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CajaFuerte, error) {
	var cf model.CajaFuerte
	err := conn(ctx, r.db, tx).Clauses(paraActualizar).First(&cf, "id = ?", id).Error
	return &cf, err
}

func (r *cajaFuerteRepo) UpdateSaldos(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte) error {
	return conn(ctx, r.db, tx).Save(cf).Error
}

func (r *cajaFuerteRepo) SumMovimientos(ctx context.Context, tx *gorm.DB, cajaFuerteID uuid.UUID, metodo model.MetodoPago) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := conn(ctx, r.db, tx).Model(&model.MovimientoCajaFuerte{}).
		Select("COALESCE(SUM(CASE WHEN tipo = ? THEN monto ELSE -monto END), 0) AS total", model.TipoMovimientoIngreso).
		Where("caja_fuerte_id = ? AND metodo_pago = ?", cajaFuerteID, metodo).
		Scan(&row).Error
	return row.Total, err
}

func (r *cajaFuerteRepo) CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCajaFuerte) error {
	return conn(ctx, r.db, tx).Create(m).Error
}

func (r *cajaFuerteRepo) FindMovimiento(ctx context.Context, id uuid.UUID) (*model.MovimientoCajaFuerte, error) {
	var m model.MovimientoCajaFuerte
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *cajaFuerteRepo) LockMovimiento(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.MovimientoCajaFuerte, error) {
	var m model.MovimientoCajaFuerte
	err := conn(ctx, r.db, tx).Clauses(paraActualizar).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *cajaFuerteRepo) UpdateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCajaFuerte) error {
	return conn(ctx, r.db, tx).Save(m).Error
}

func (r *cajaFuerteRepo) DeleteMovimiento(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.MovimientoCajaFuerte{}, "id = ?", id).Error
}

func (r *cajaFuerteRepo) ExisteCierreCaja(ctx context.Context, tx *gorm.DB, cajaID uuid.UUID) (bool, error) {
	var n int64
	err := conn(ctx, r.db, tx).Model(&model.MovimientoCajaFuerte{}).
		Where("caja_id = ? AND categoria = ?", cajaID, model.CategoriaCierreCaja).
		Count(&n).Error
	return n > 0, err
}

func (r *cajaFuerteRepo) ListMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) ([]model.MovimientoCajaFuerte, error) {
	var movs []model.MovimientoCajaFuerte
	q := r.db.WithContext(ctx).Model(&model.MovimientoCajaFuerte{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", filter.Hasta.AddDate(0, 0, 1))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Order("fecha DESC, created_at DESC").Offset(filter.Skip).Find(&movs).Error
	return movs, err
}

func (r *cajaFuerteRepo) Inventario(ctx context.Context, tx *gorm.DB, cajaFuerteID uuid.UUID) ([]model.InventarioEfectivo, error) {
	var filas []model.InventarioEfectivo
	q := conn(ctx, r.db, tx)
	if tx != nil {
		q = q.Clauses(paraActualizar)
	}
	err := q.Where("caja_fuerte_id = ?", cajaFuerteID).Order("denominacion DESC").Find(&filas).Error
	return filas, err
}

// GuardarInventario upserts one row per denomination.
func (r *cajaFuerteRepo) GuardarInventario(ctx context.Context, tx *gorm.DB, filas []model.InventarioEfectivo) error {
	if len(filas) == 0 {
		return nil
	}
	ahora := time.Now()
	for i := range filas {
		filas[i].UpdatedAt = ahora
	}
	return conn(ctx, r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "caja_fuerte_id"}, {Name: "denominacion"}},
		DoUpdates: clause.AssignmentColumns([]string{"cantidad", "total", "updated_at"}),
	}).Create(&filas).Error
}
