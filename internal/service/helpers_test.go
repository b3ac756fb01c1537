package service_test

import (
	"context"
	"testing"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func strPtr(s string) *string { return &s }

// desglose builds a breakdown from {denominacion, cantidad} pairs.
func desglose(items ...[2]int64) money.Desglose {
	d := make(money.Desglose, 0, len(items))
	for _, it := range items {
		d = append(d, money.Item{Denominacion: it[0], Cantidad: it[1]})
	}
	return d
}

// testEnv wires every service over the in-memory repositories.
type testEnv struct {
	cajas       *memCajaRepo
	pagos       *memPagoRepo
	egresos     *memEgresoRepo
	estudiantes *memEstudianteRepo
	cf          *memCajaFuerteRepo
	auditoria   *memAuditoriaRepo
	recibos     *encoladorFake

	cajaSvc       service.CajaService
	pagoSvc       service.PagoService
	egresoSvc     service.EgresoService
	cajaFuerteSvc service.CajaFuerteService

	usuario uuid.UUID
}

func newTestEnv(estudiantes ...*model.Estudiante) *testEnv {
	e := &testEnv{
		cajas:       newMemCajaRepo(),
		pagos:       &memPagoRepo{},
		egresos:     &memEgresoRepo{},
		estudiantes: newMemEstudianteRepo(estudiantes...),
		cf:          newMemCajaFuerteRepo(),
		auditoria:   &memAuditoriaRepo{},
		recibos:     &encoladorFake{},
		usuario:     uuid.New(),
	}
	e.estudiantes.pagos = e.pagos
	locker := newMutexLocker()
	e.cajaFuerteSvc = service.NewCajaFuerteService(e.cf, e.auditoria, locker, "CEA EDUCAR")
	e.cajaSvc = service.NewCajaService(e.cajas, e.pagos, e.egresos, e.estudiantes, e.cajaFuerteSvc, e.auditoria)
	e.pagoSvc = service.NewPagoService(e.pagos, e.cajas, e.estudiantes, e.cajaFuerteSvc, e.recibos)
	e.egresoSvc = service.NewEgresoService(e.egresos, e.cajas)
	return e
}

func nuevoEstudiante(saldo int64) *model.Estudiante {
	return &model.Estudiante{
		ID:              uuid.New(),
		Nombre:          "Ana Gómez",
		Cedula:          "1061" + uuid.NewString()[:6],
		TipoServicio:    "LICENCIA B1",
		ValorTotalCurso: dec(saldo),
		SaldoPendiente:  dec(saldo),
	}
}

func (e *testEnv) abrir(t *testing.T, saldo int64) *dto.CajaResponse {
	t.Helper()
	resp, err := e.cajaSvc.Abrir(context.Background(), e.usuario, dto.AbrirCajaRequest{SaldoInicial: dec(saldo)})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) pagar(t *testing.T, est *model.Estudiante, monto int64, metodo model.MetodoPago) *dto.PagoResponse {
	t.Helper()
	m := string(metodo)
	resp, err := e.pagoSvc.RegistrarPago(context.Background(), e.usuario, dto.RegistrarPagoRequest{
		EstudianteID: est.ID.String(),
		Monto:        dec(monto),
		MetodoPago:   &m,
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) recontar(t *testing.T, items ...[2]int64) {
	t.Helper()
	_, err := e.cajaFuerteSvc.ActualizarInventario(context.Background(), e.usuario,
		dto.ActualizarInventarioRequest{Items: desglose(items...)})
	require.NoError(t, err)
}
