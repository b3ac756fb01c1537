package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarPagoEfectivo(t *testing.T) {
	est := nuevoEstudiante(1200000)
	env := newTestEnv(est)
	caja := env.abrir(t, 0)

	resp := env.pagar(t, est, 300000, model.MetodoEfectivo)

	assert.Equal(t, "ABONO AL CURSO", resp.Concepto)
	require.NotNil(t, resp.SaldoPendiente)
	assert.True(t, resp.SaldoPendiente.Equal(dec(900000)))
	assert.True(t, env.estudiantes.saldo(est.ID).Equal(dec(900000)))

	c, err := env.cajaSvc.ObtenerReporte(context.Background(), uuid.MustParse(caja.ID))
	require.NoError(t, err)
	assert.True(t, c.Ingresos.Efectivo.Equal(dec(300000)))
	assert.True(t, c.EfectivoEnCaja.Equal(dec(300000)))

	assert.Empty(t, env.cf.movimientos(), "cash waits for the till close")
	assert.Len(t, env.recibos.ids, 1)
}

func TestRegistrarPagoDigitalSeReflejaEnCajaFuerte(t *testing.T) {
	est := nuevoEstudiante(500000)
	env := newTestEnv(est)
	env.abrir(t, 0)

	resp := env.pagar(t, est, 120000, model.MetodoNequi)

	movs := env.cf.movimientos()
	require.Len(t, movs, 1)
	assert.Equal(t, model.MetodoNequi, movs[0].MetodoPago)
	assert.Equal(t, model.CategoriaPagoEstudiante, movs[0].Categoria)
	require.NotNil(t, movs[0].PagoID)
	assert.Equal(t, resp.ID, movs[0].PagoID.String())
	assert.Empty(t, movs[0].InventarioDetalle)
	assert.True(t, env.cf.saldos().Nequi.Equal(dec(120000)))
}

func TestRegistrarPagoMixto(t *testing.T) {
	est := nuevoEstudiante(1000000)
	env := newTestEnv(est)
	caja := env.abrir(t, 0)

	resp, err := env.pagoSvc.RegistrarPago(context.Background(), env.usuario, dto.RegistrarPagoRequest{
		EstudianteID: est.ID.String(),
		Monto:        dec(180000),
		EsPagoMixto:  true,
		DetallesPago: []dto.DetallePagoRequest{
			{MetodoPago: "EFECTIVO", Monto: dec(100000)},
			{MetodoPago: "nequi", Monto: dec(50000), Referencia: strPtr("NQ-778")},
			{MetodoPago: "CREDISMART", Monto: dec(30000)},
		},
		Concepto: "Segunda cuota",
	})
	require.NoError(t, err)
	assert.True(t, resp.EsPagoMixto)
	assert.Nil(t, resp.MetodoPago)
	assert.Len(t, resp.Detalles, 3)

	c, err := env.cajaSvc.ObtenerReporte(context.Background(), uuid.MustParse(caja.ID))
	require.NoError(t, err)
	assert.True(t, c.Ingresos.Efectivo.Equal(dec(100000)))
	assert.True(t, c.Ingresos.Nequi.Equal(dec(50000)))
	assert.True(t, c.Ingresos.Credismart.Equal(dec(30000)))
	assert.True(t, c.TotalIngresos.Equal(dec(150000)), "deferred financing is excluded from till totals")
	assert.True(t, c.TotalCreditos.Equal(dec(30000)))

	// non-cash legs are mirrored, deferred rails included
	saldos := env.cf.saldos()
	assert.True(t, saldos.Efectivo.IsZero())
	assert.True(t, saldos.Nequi.Equal(dec(50000)))
	assert.True(t, saldos.Credismart.Equal(dec(30000)))
	assert.Len(t, env.cf.movimientos(), 2)

	resumen, err := env.cajaFuerteSvc.Resumen(context.Background())
	require.NoError(t, err)
	assert.True(t, resumen.SaldoTotal.Equal(dec(80000)))
	assert.True(t, resumen.SaldoLiquido.Equal(dec(50000)))

	assert.True(t, env.estudiantes.saldo(est.ID).Equal(dec(820000)))
}

func TestRegistrarPagoMixtoNoCuadra(t *testing.T) {
	est := nuevoEstudiante(1000000)
	env := newTestEnv(est)
	caja := env.abrir(t, 0)

	_, err := env.pagoSvc.RegistrarPago(context.Background(), env.usuario, dto.RegistrarPagoRequest{
		EstudianteID: est.ID.String(),
		Monto:        dec(180000),
		EsPagoMixto:  true,
		DetallesPago: []dto.DetallePagoRequest{
			{MetodoPago: "EFECTIVO", Monto: dec(100000)},
			{MetodoPago: "NEQUI", Monto: dec(50000)},
		},
	})
	assert.ErrorIs(t, err, service.ErrPagoMixtoNoCuadra)

	// nothing persisted anywhere
	assert.Empty(t, env.pagos.pagos)
	assert.Empty(t, env.cf.movimientos())
	assert.True(t, env.estudiantes.saldo(est.ID).Equal(dec(1000000)))
	c, err := env.cajaSvc.ObtenerReporte(context.Background(), uuid.MustParse(caja.ID))
	require.NoError(t, err)
	assert.True(t, c.TotalIngresos.IsZero())
}

func TestRegistrarPagoValidaciones(t *testing.T) {
	est := nuevoEstudiante(100000)
	pagado := nuevoEstudiante(0)
	env := newTestEnv(est, pagado)
	env.abrir(t, 0)
	efectivo := "EFECTIVO"

	cases := []struct {
		name string
		req  dto.RegistrarPagoRequest
		want error
	}{
		{"excede saldo", dto.RegistrarPagoRequest{EstudianteID: est.ID.String(), Monto: dec(100001), MetodoPago: &efectivo}, service.ErrSaldoInsuficiente},
		{"sin saldo pendiente", dto.RegistrarPagoRequest{EstudianteID: pagado.ID.String(), Monto: dec(1000), MetodoPago: &efectivo}, service.ErrSinSaldoPendiente},
		{"sin metodo", dto.RegistrarPagoRequest{EstudianteID: est.ID.String(), Monto: dec(1000)}, service.ErrMetodoPagoRequerido},
		{"metodo desconocido", dto.RegistrarPagoRequest{EstudianteID: est.ID.String(), Monto: dec(1000), MetodoPago: strPtr("CHEQUE")}, model.ErrMetodoPagoInvalido},
		{"monto cero", dto.RegistrarPagoRequest{EstudianteID: est.ID.String(), Monto: decimal.Zero, MetodoPago: &efectivo}, service.ErrMontoInvalido},
		{"mixto con un solo metodo", dto.RegistrarPagoRequest{
			EstudianteID: est.ID.String(), Monto: dec(1000), EsPagoMixto: true,
			DetallesPago: []dto.DetallePagoRequest{{MetodoPago: "EFECTIVO", Monto: dec(1000)}},
		}, service.ErrPagoMixtoNoCuadra},
		{"estudiante inexistente", dto.RegistrarPagoRequest{EstudianteID: uuid.NewString(), Monto: dec(1000), MetodoPago: &efectivo}, service.ErrEstudianteNoEncontrado},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.pagoSvc.RegistrarPago(context.Background(), env.usuario, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.True(t, env.estudiantes.saldo(est.ID).Equal(dec(100000)))
}

func TestRegistrarPagoSinCajaAbierta(t *testing.T) {
	est := nuevoEstudiante(100000)
	env := newTestEnv(est)
	efectivo := "EFECTIVO"

	_, err := env.pagoSvc.RegistrarPago(context.Background(), env.usuario, dto.RegistrarPagoRequest{
		EstudianteID: est.ID.String(), Monto: dec(1000), MetodoPago: &efectivo,
	})
	assert.ErrorIs(t, err, service.ErrNoHayCajaAbierta)
}

func TestRegistrarPagoReferenciaDuplicada(t *testing.T) {
	est := nuevoEstudiante(100000)
	env := newTestEnv(est)
	env.abrir(t, 0)
	nequi := "NEQUI"
	req := dto.RegistrarPagoRequest{
		EstudianteID: est.ID.String(), Monto: dec(1000), MetodoPago: &nequi, ReferenciaPago: strPtr("TX-1"),
	}

	_, err := env.pagoSvc.RegistrarPago(context.Background(), env.usuario, req)
	require.NoError(t, err)
	_, err = env.pagoSvc.RegistrarPago(context.Background(), env.usuario, req)
	assert.ErrorIs(t, err, service.ErrReferenciaDuplicada)
}

func TestEstadoFinanciero(t *testing.T) {
	cases := []struct {
		name      string
		haceHoras int
		saldo     int64
		want      string
		dias      int
	}{
		{"al dia", 10*24 - 12, 400000, service.EstadoAlDia, 80},
		{"proximo a vencer", 85*24 - 12, 400000, service.EstadoProximoVencer, 5},
		{"vence hoy", 90*24 - 12, 400000, service.EstadoProximoVencer, 0},
		{"vencido hace horas", 90*24 + 12, 400000, service.EstadoVencido, -1},
		{"vencido", 100*24 - 12, 400000, service.EstadoVencido, -10},
		{"pagado", 85*24 - 12, 0, service.EstadoPagadoCompleto, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := nuevoEstudiante(900000)
			est.SaldoPendiente = dec(tc.saldo)
			env := newTestEnv(est)
			env.pagos.pagos = append(env.pagos.pagos, model.Pago{
				ID: uuid.New(), EstudianteID: est.ID, Monto: dec(500000), Concepto: "ABONO AL CURSO",
				FechaPago: time.Now().Add(-time.Duration(tc.haceHoras) * time.Hour),
			})

			resp, err := env.pagoSvc.EstadoFinanciero(context.Background(), est.Cedula)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.Estado)
			assert.True(t, resp.TotalPagado.Equal(dec(500000)))
			require.NotNil(t, resp.DiasRestantes)
			assert.Equal(t, tc.dias, *resp.DiasRestantes)
			require.NotNil(t, resp.FechaLimitePago)
		})
	}
}

func TestEstadoFinancieroSinServicio(t *testing.T) {
	est := &model.Estudiante{ID: uuid.New(), Nombre: "Luis", Cedula: "123"}
	env := newTestEnv(est)

	resp, err := env.pagoSvc.EstadoFinanciero(context.Background(), " 123 ")
	require.NoError(t, err)
	assert.Equal(t, service.EstadoSinServicio, resp.Estado)
	assert.Empty(t, resp.Pagos)

	_, err = env.pagoSvc.EstadoFinanciero(context.Background(), "999")
	assert.ErrorIs(t, err, service.ErrEstudianteNoEncontrado)
}

// An enrolled student who has not paid yet has no deadline running.
func TestEstadoFinancieroSinPagos(t *testing.T) {
	est := nuevoEstudiante(900000)
	env := newTestEnv(est)

	resp, err := env.pagoSvc.EstadoFinanciero(context.Background(), est.Cedula)
	require.NoError(t, err)
	assert.Equal(t, service.EstadoSinServicio, resp.Estado)
	assert.Nil(t, resp.DiasRestantes)
	assert.Nil(t, resp.FechaLimitePago)
	assert.Nil(t, resp.FechaPrimerPago)
}
