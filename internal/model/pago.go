package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EstadoPagoCompletado = "COMPLETADO"

// Pago is a student payment received at the till. Either MetodoPago is set,
// or EsPagoMixto is true and Detalles carries two or more legs.
type Pago struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EstudianteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CajaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Concepto       string          `gorm:"size:255;not null"`
	Monto          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MetodoPago     *MetodoPago     `gorm:"type:varchar(30)"`
	EsPagoMixto    bool            `gorm:"not null;default:false"`
	Estado         string          `gorm:"type:varchar(20);not null;default:'COMPLETADO'"`
	ReferenciaPago *string         `gorm:"size:100;uniqueIndex"`
	Observaciones  *string
	FechaPago      time.Time `gorm:"not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time

	Detalles   []DetallePago `gorm:"foreignKey:PagoID"`
	Estudiante *Estudiante   `gorm:"foreignKey:EstudianteID"`
}

// DetallePago is one leg of a split payment.
type DetallePago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago MetodoPago      `gorm:"type:varchar(30);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Referencia *string         `gorm:"size:100"`
	CreatedAt  time.Time
}

func (DetallePago) TableName() string { return "detalles_pago" }

// Lineas returns the (method, amount) legs of the payment, one for a simple payment.
func (p *Pago) Lineas() []DetallePago {
	if p.EsPagoMixto {
		return p.Detalles
	}
	if p.MetodoPago == nil {
		return nil
	}
	return []DetallePago{{PagoID: p.ID, MetodoPago: *p.MetodoPago, Monto: p.Monto, Referencia: p.ReferenciaPago}}
}
