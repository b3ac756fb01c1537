package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetodoPago(t *testing.T) {
	m, err := ParseMetodoPago("  nequi ")
	require.NoError(t, err)
	assert.Equal(t, MetodoNequi, m)

	_, err = ParseMetodoPago("BITCOIN")
	assert.ErrorIs(t, err, ErrMetodoPagoInvalido)
}

func TestReglasMetodo(t *testing.T) {
	for _, m := range MetodosPago() {
		assert.True(t, m.Valido(), m)
	}

	assert.True(t, MetodoEfectivo.RequiereDenominaciones())
	assert.False(t, MetodoEfectivo.EspejoInmediato(), "cash reaches the vault at till close")

	for _, m := range []MetodoPago{MetodoCredismart, MetodoSistecredito} {
		assert.True(t, m.EsCredito())
		assert.False(t, m.CuentaEnCaja())
		assert.True(t, m.EspejoInmediato())
	}
	assert.Equal(t, FamiliaTarjeta, MetodoTarjetaCredito.Familia())
	assert.Equal(t, FamiliaTransferencia, MetodoDaviplata.Familia())
}
