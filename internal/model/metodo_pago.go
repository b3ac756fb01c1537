package model

import (
	"errors"
	"strings"
)

var ErrMetodoPagoInvalido = errors.New("método de pago no soportado")

// MetodoPago is the payment rail a till or vault amount travels on.
type MetodoPago string

const (
	MetodoEfectivo              MetodoPago = "EFECTIVO"
	MetodoNequi                 MetodoPago = "NEQUI"
	MetodoDaviplata             MetodoPago = "DAVIPLATA"
	MetodoTransferenciaBancaria MetodoPago = "TRANSFERENCIA_BANCARIA"
	MetodoTarjetaDebito         MetodoPago = "TARJETA_DEBITO"
	MetodoTarjetaCredito        MetodoPago = "TARJETA_CREDITO"
	MetodoCredismart            MetodoPago = "CREDISMART"
	MetodoSistecredito          MetodoPago = "SISTECREDITO"
)

// FamiliaPago groups rails for the till report and the dashboard.
type FamiliaPago string

const (
	FamiliaEfectivo      FamiliaPago = "EFECTIVO"
	FamiliaTransferencia FamiliaPago = "TRANSFERENCIA"
	FamiliaTarjeta       FamiliaPago = "TARJETA"
	FamiliaCredito       FamiliaPago = "CREDITO"
)

type reglaMetodo struct {
	familia FamiliaPago
	// cuentaEnCaja: the amount is part of the till's ingress/egress totals.
	cuentaEnCaja bool
	// espejoInmediato: mirrored into the vault when the payment is recorded.
	// Cash is not; it reaches the vault with the till close.
	espejoInmediato bool
	// requiereDenominaciones: vault movements carry a banknote/coin breakdown.
	requiereDenominaciones bool
}

var metodosPago = []MetodoPago{
	MetodoEfectivo,
	MetodoNequi,
	MetodoDaviplata,
	MetodoTransferenciaBancaria,
	MetodoTarjetaDebito,
	MetodoTarjetaCredito,
	MetodoCredismart,
	MetodoSistecredito,
}

var reglasMetodo = map[MetodoPago]reglaMetodo{
	MetodoEfectivo:              {familia: FamiliaEfectivo, cuentaEnCaja: true, requiereDenominaciones: true},
	MetodoNequi:                 {familia: FamiliaTransferencia, cuentaEnCaja: true, espejoInmediato: true},
	MetodoDaviplata:             {familia: FamiliaTransferencia, cuentaEnCaja: true, espejoInmediato: true},
	MetodoTransferenciaBancaria: {familia: FamiliaTransferencia, cuentaEnCaja: true, espejoInmediato: true},
	MetodoTarjetaDebito:         {familia: FamiliaTarjeta, cuentaEnCaja: true, espejoInmediato: true},
	MetodoTarjetaCredito:        {familia: FamiliaTarjeta, cuentaEnCaja: true, espejoInmediato: true},
	MetodoCredismart:            {familia: FamiliaCredito, espejoInmediato: true},
	MetodoSistecredito:          {familia: FamiliaCredito, espejoInmediato: true},
}

// MetodosPago lists every rail in display order.
func MetodosPago() []MetodoPago {
	out := make([]MetodoPago, len(metodosPago))
	copy(out, metodosPago)
	return out
}

// ParseMetodoPago accepts the canonical name in any case and surrounding spaces.
func ParseMetodoPago(s string) (MetodoPago, error) {
	m := MetodoPago(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valido() {
		return "", ErrMetodoPagoInvalido
	}
	return m, nil
}

func (m MetodoPago) Valido() bool {
	_, ok := reglasMetodo[m]
	return ok
}

func (m MetodoPago) Familia() FamiliaPago         { return reglasMetodo[m].familia }
func (m MetodoPago) CuentaEnCaja() bool           { return reglasMetodo[m].cuentaEnCaja }
func (m MetodoPago) EspejoInmediato() bool        { return reglasMetodo[m].espejoInmediato }
func (m MetodoPago) RequiereDenominaciones() bool { return reglasMetodo[m].requiereDenominaciones }
func (m MetodoPago) EsCredito() bool              { return m.Familia() == FamiliaCredito }
