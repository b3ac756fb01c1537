package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesgloseValidar(t *testing.T) {
	cases := []struct {
		name string
		d    Desglose
		want error
	}{
		{"vacio", Desglose{}, ErrDesgloseVacio},
		{"denominacion invalida", Desglose{{Denominacion: 30000, Cantidad: 1}}, ErrDenominacionInvalida},
		{"duplicada", Desglose{{50000, 1}, {50000, 2}}, ErrDenominacionDuplicada},
		{"cantidad negativa", Desglose{{1000, -1}}, ErrCantidadNegativa},
		{"valido", Desglose{{100000, 2}, {50, 3}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validar()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDesgloseCuadra(t *testing.T) {
	d := Desglose{{50000, 2}, {20000, 1}, {500, 1}}
	assert.True(t, d.Total().Equal(decimal.NewFromInt(120500)))
	assert.NoError(t, d.Cuadra(decimal.NewFromInt(120500)))

	err := d.Cuadra(decimal.NewFromInt(120000))
	assert.ErrorIs(t, err, ErrDesgloseNoCuadra)
	assert.Contains(t, err.Error(), "$120.500")
}

func TestDesgloseNormalizado(t *testing.T) {
	d := Desglose{{500, 2}, {100000, 1}, {2000, 0}, {20000, 3}}
	assert.Equal(t, Desglose{{100000, 1}, {20000, 3}, {500, 2}}, d.Normalizado())
}

func TestDescomponerGreedy(t *testing.T) {
	d, err := Descomponer(decimal.NewFromInt(300500))
	require.NoError(t, err)
	assert.Equal(t, Desglose{{100000, 3}, {500, 1}}, d)

	d, err = Descomponer(decimal.NewFromInt(187650))
	require.NoError(t, err)
	assert.Equal(t, Desglose{{100000, 1}, {50000, 1}, {20000, 1}, {10000, 1}, {5000, 1}, {2000, 1}, {500, 1}, {100, 1}, {50, 1}}, d)
	assert.True(t, d.Total().Equal(decimal.NewFromInt(187650)))

	d, err = Descomponer(decimal.Zero)
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestDescomponerRechaza(t *testing.T) {
	_, err := Descomponer(decimal.NewFromInt(-100))
	assert.ErrorIs(t, err, ErrCantidadNegativa)

	_, err = Descomponer(decimal.RequireFromString("1000.50"))
	assert.ErrorIs(t, err, ErrDesgloseNoCuadra)

	// 70 pesos cannot be made of 50-peso coins
	_, err = Descomponer(decimal.NewFromInt(1070))
	assert.ErrorIs(t, err, ErrDesgloseNoCuadra)
}

func TestDesgloseValueScan(t *testing.T) {
	v, err := Desglose(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	orig := Desglose{{10000, 4}, {1000, 2}}
	v, err = orig.Value()
	require.NoError(t, err)

	var back Desglose
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, orig, back)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)
	assert.Error(t, back.Scan(42))
}
