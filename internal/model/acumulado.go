package model

import (
	"github.com/shopspring/decimal"
)

// Acumulado keeps one running amount per payment rail. Caja embeds it twice
// (ingreso_*, egreso_*) and CajaFuerte once (saldo_*).
type Acumulado struct {
	Efectivo              decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"efectivo"`
	Nequi                 decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"nequi"`
	Daviplata             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"daviplata"`
	TransferenciaBancaria decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"transferencia_bancaria"`
	TarjetaDebito         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tarjeta_debito"`
	TarjetaCredito        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tarjeta_credito"`
	Credismart            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"credismart"`
	Sistecredito          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"sistecredito"`
}

func (a *Acumulado) campo(m MetodoPago) *decimal.Decimal {
	switch m {
	case MetodoEfectivo:
		return &a.Efectivo
	case MetodoNequi:
		return &a.Nequi
	case MetodoDaviplata:
		return &a.Daviplata
	case MetodoTransferenciaBancaria:
		return &a.TransferenciaBancaria
	case MetodoTarjetaDebito:
		return &a.TarjetaDebito
	case MetodoTarjetaCredito:
		return &a.TarjetaCredito
	case MetodoCredismart:
		return &a.Credismart
	case MetodoSistecredito:
		return &a.Sistecredito
	}
	return nil
}

// Monto returns the amount on rail m; unknown rails are zero.
func (a Acumulado) Monto(m MetodoPago) decimal.Decimal {
	if p := a.campo(m); p != nil {
		return *p
	}
	return decimal.Zero
}

// Sumar adds x (possibly negative) to rail m.
func (a *Acumulado) Sumar(m MetodoPago, x decimal.Decimal) error {
	p := a.campo(m)
	if p == nil {
		return ErrMetodoPagoInvalido
	}
	*p = p.Add(x)
	return nil
}

// Fijar overwrites rail m with x.
func (a *Acumulado) Fijar(m MetodoPago, x decimal.Decimal) error {
	p := a.campo(m)
	if p == nil {
		return ErrMetodoPagoInvalido
	}
	*p = x
	return nil
}

func (a Acumulado) Familia(f FamiliaPago) decimal.Decimal {
	total := decimal.Zero
	for _, m := range metodosPago {
		if m.Familia() == f {
			total = total.Add(a.Monto(m))
		}
	}
	return total
}

// Total sums every rail, deferred financing included.
func (a Acumulado) Total() decimal.Decimal {
	total := decimal.Zero
	for _, m := range metodosPago {
		total = total.Add(a.Monto(m))
	}
	return total
}

// TotalEnCaja sums the rails that count toward till totals.
func (a Acumulado) TotalEnCaja() decimal.Decimal {
	total := decimal.Zero
	for _, m := range metodosPago {
		if m.CuentaEnCaja() {
			total = total.Add(a.Monto(m))
		}
	}
	return total
}
