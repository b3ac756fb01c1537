package repository

import (
	"context"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstudianteRepository is the ledger's view of enrolment records: lookups and
// the pending-balance decrement.
type EstudianteRepository interface {
	FindByCedula(ctx context.Context, cedula string) (*model.Estudiante, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Estudiante, error)
	ReducirSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) error
	// ContarVencimientos counts students with a pending balance whose first
	// payment falls in [vence, alerta) (about to expire) or before vence (expired).
	ContarVencimientos(ctx context.Context, vence, alerta time.Time) (proximos, vencidos int64, err error)
}

type estudianteRepo struct{ db *gorm.DB }

func NewEstudianteRepository(db *gorm.DB) EstudianteRepository { return &estudianteRepo{db: db} }

func (r *estudianteRepo) FindByCedula(ctx context.Context, cedula string) (*model.Estudiante, error) {
	var e model.Estudiante
	err := r.db.WithContext(ctx).Where("cedula = ?", cedula).First(&e).Error
	return &e, err
}

func (r *estudianteRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Estudiante, error) {
	var e model.Estudiante
	err := conn(ctx, r.db, tx).Clauses(paraActualizar).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *estudianteRepo) ReducirSaldo(ctx context.Context, tx *gorm.DB, id uuid.UUID, monto decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.Estudiante{}).Where("id = ?", id).
		Update("saldo_pendiente", gorm.Expr("saldo_pendiente - ?", monto)).Error
}

func (r *estudianteRepo) ContarVencimientos(ctx context.Context, vence, alerta time.Time) (int64, int64, error) {
	primeros := r.db.Model(&model.Pago{}).
		Select("estudiante_id, MIN(fecha_pago) AS primer_pago").
		Where("estado = ?", model.EstadoPagoCompletado).
		Group("estudiante_id")

	var row struct {
		Proximos int64
		Vencidos int64
	}
	err := r.db.WithContext(ctx).Table("estudiantes AS e").
		Joins("JOIN (?) AS p ON p.estudiante_id = e.id", primeros).
		Where("e.saldo_pendiente > 0").
		Select(`COUNT(*) FILTER (WHERE p.primer_pago >= ? AND p.primer_pago < ?) AS proximos,
			COUNT(*) FILTER (WHERE p.primer_pago < ?) AS vencidos`, vence, alerta, vence).
		Scan(&row).Error
	return row.Proximos, row.Vencidos, err
}
