package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EstadoCajaAbierta = "ABIERTA"
	EstadoCajaCerrada = "CERRADA"
)

// Caja is one till session from opening to close. At most one row may be
// ABIERTA at a time (partial unique index uq_cajas_una_abierta).
type Caja struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioAperturaID uuid.UUID       `gorm:"type:uuid;not null"`
	UsuarioCierreID   *uuid.UUID      `gorm:"type:uuid"`
	SaldoInicial      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Ingresos Acumulado `gorm:"embedded;embeddedPrefix:ingreso_"`
	Egresos  Acumulado `gorm:"embedded;embeddedPrefix:egreso_"`

	// Arqueo, written once on close
	EfectivoTeorico *decimal.Decimal `gorm:"type:decimal(14,2)"`
	EfectivoFisico  *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Diferencia      *decimal.Decimal `gorm:"type:decimal(14,2)"`

	Estado                string `gorm:"type:varchar(10);not null;default:'ABIERTA';index"`
	ObservacionesApertura *string
	ObservacionesCierre   *string
	FechaApertura         time.Time `gorm:"not null;index"`
	FechaCierre           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (Caja) TableName() string { return "cajas" }

func (c *Caja) Abierta() bool { return c.Estado == EstadoCajaAbierta }

// EfectivoEsperado is the cash that should be in the drawer right now.
func (c *Caja) EfectivoEsperado() decimal.Decimal {
	return c.SaldoInicial.Add(c.Ingresos.Efectivo).Sub(c.Egresos.Efectivo)
}

func (c *Caja) TotalIngresos() decimal.Decimal { return c.Ingresos.TotalEnCaja() }
func (c *Caja) TotalEgresos() decimal.Decimal  { return c.Egresos.TotalEnCaja() }

// TotalCreditos is the deferred financing collected; it never touches the drawer.
func (c *Caja) TotalCreditos() decimal.Decimal { return c.Ingresos.Familia(FamiliaCredito) }

// Arquear returns the theoretical cash and the variance against a physical count.
// A positive variance is a surplus, a negative one a shortage.
func (c *Caja) Arquear(fisico decimal.Decimal) (teorico, diferencia decimal.Decimal) {
	teorico = c.EfectivoEsperado()
	return teorico, fisico.Sub(teorico)
}
