package model

import (
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TipoMovimientoIngreso = "INGRESO"
	TipoMovimientoEgreso  = "EGRESO"
)

// Categories written by the system when the till feeds the vault.
const (
	CategoriaCierreCaja     = "CIERRE_CAJA"
	CategoriaPagoEstudiante = "PAGO_ESTUDIANTE"
)

// CajaFuertePrincipalID identifies the school's single vault.
var CajaFuertePrincipalID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// CajaFuerte is the long-lived vault. Saldos.Efectivo always equals the sum of
// the inventory subtotals; every other rail equals the signed sum of its movements.
type CajaFuerte struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Saldos    Acumulado `gorm:"embedded;embeddedPrefix:saldo_"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CajaFuerte) TableName() string { return "caja_fuerte" }

func (c *CajaFuerte) SaldoTotal() decimal.Decimal { return c.Saldos.Total() }

// SaldoLiquido leaves out deferred financing still owed by the financier.
func (c *CajaFuerte) SaldoLiquido() decimal.Decimal { return c.Saldos.TotalEnCaja() }

type MovimientoCajaFuerte struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaFuerteID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CajaID            *uuid.UUID      `gorm:"type:uuid;index"`
	PagoID            *uuid.UUID      `gorm:"type:uuid;index"`
	Tipo              string          `gorm:"type:varchar(10);not null"`
	MetodoPago        MetodoPago      `gorm:"type:varchar(30);not null;index"`
	Concepto          string          `gorm:"size:255;not null"`
	Categoria         string          `gorm:"size:80"`
	Monto             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Fecha             time.Time       `gorm:"not null;index"`
	Observaciones     *string
	InventarioDetalle money.Desglose `gorm:"type:jsonb"`
	UsuarioID         uuid.UUID      `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (MovimientoCajaFuerte) TableName() string { return "movimientos_caja_fuerte" }

// Signo is +1 for INGRESO and -1 for EGRESO.
func (m *MovimientoCajaFuerte) Signo() int64 {
	if m.Tipo == TipoMovimientoIngreso {
		return 1
	}
	return -1
}

func (m *MovimientoCajaFuerte) Delta() decimal.Decimal {
	return m.Monto.Mul(decimal.NewFromInt(m.Signo()))
}

func TipoMovimientoValido(t string) bool {
	return t == TipoMovimientoIngreso || t == TipoMovimientoEgreso
}

// InventarioEfectivo is the count of one denomination held in the vault.
type InventarioEfectivo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaFuerteID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_inventario_denominacion"`
	Denominacion int64           `gorm:"not null;uniqueIndex:uq_inventario_denominacion"`
	Cantidad     int64           `gorm:"not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	UpdatedAt    time.Time
}

func (InventarioEfectivo) TableName() string { return "inventario_efectivo" }
