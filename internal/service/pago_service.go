package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	conceptoPagoPorDefecto = "ABONO AL CURSO"
	// A course must be paid in full within plazoPagoDias of the first payment.
	plazoPagoDias = 90
	diasAlerta    = 7
)

// Student payment standing.
const (
	EstadoSinServicio    = "SIN_SERVICIO"
	EstadoAlDia          = "AL_DIA"
	EstadoProximoVencer  = "PROXIMO_VENCER"
	EstadoVencido        = "VENCIDO"
	EstadoPagadoCompleto = "PAGADO_COMPLETO"
)

// EncoladorRecibos queues receipt rendering once a payment is committed.
type EncoladorRecibos interface {
	EnqueueRecibo(ctx context.Context, pagoID uuid.UUID) error
}

type PagoService interface {
	RegistrarPago(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	ListarPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.PagoResponse, error)
	EstadoFinanciero(ctx context.Context, cedula string) (*dto.EstadoFinancieroResponse, error)
}

type pagoService struct {
	repo        repository.PagoRepository
	cajas       repository.CajaRepository
	estudiantes repository.EstudianteRepository
	cajaFuerte  CajaFuerteService
	recibos     EncoladorRecibos
}

func NewPagoService(
	repo repository.PagoRepository,
	cajas repository.CajaRepository,
	estudiantes repository.EstudianteRepository,
	cajaFuerte CajaFuerteService,
	recibos EncoladorRecibos,
) PagoService {
	return &pagoService{
		repo:        repo,
		cajas:       cajas,
		estudiantes: estudiantes,
		cajaFuerte:  cajaFuerte,
		recibos:     recibos,
	}
}

// planificarPago turns the request into payment legs. A simple payment has
// exactly one leg; a split payment needs two or more positive legs adding up
// to monto exactly.
func planificarPago(monto decimal.Decimal, req dto.RegistrarPagoRequest) ([]model.DetallePago, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	metodoPrincipal := ""
	if req.MetodoPago != nil {
		metodoPrincipal = strings.TrimSpace(*req.MetodoPago)
	}

	if !req.EsPagoMixto {
		if metodoPrincipal == "" {
			return nil, ErrMetodoPagoRequerido
		}
		if len(req.DetallesPago) > 0 {
			return nil, fmt.Errorf("%w: un pago simple no lleva detalles de pago", ErrSolicitudInvalida)
		}
		m, err := model.ParseMetodoPago(metodoPrincipal)
		if err != nil {
			return nil, err
		}
		return []model.DetallePago{{MetodoPago: m, Monto: monto, Referencia: req.ReferenciaPago}}, nil
	}

	if metodoPrincipal != "" {
		return nil, fmt.Errorf("%w: un pago mixto no lleva método principal", ErrSolicitudInvalida)
	}
	if len(req.DetallesPago) < 2 {
		return nil, fmt.Errorf("%w: se requieren al menos dos métodos", ErrPagoMixtoNoCuadra)
	}
	lineas := make([]model.DetallePago, 0, len(req.DetallesPago))
	suma := decimal.Zero
	for _, d := range req.DetallesPago {
		m, err := model.ParseMetodoPago(d.MetodoPago)
		if err != nil {
			return nil, err
		}
		dm := money.Redondear(d.Monto)
		if !dm.IsPositive() {
			return nil, ErrMontoInvalido
		}
		suma = suma.Add(dm)
		lineas = append(lineas, model.DetallePago{MetodoPago: m, Monto: dm, Referencia: d.Referencia})
	}
	if !suma.Equal(monto) {
		return nil, fmt.Errorf("%w: detalles %s, total %s", ErrPagoMixtoNoCuadra,
			money.Formatear(suma), money.Formatear(monto))
	}
	return lineas, nil
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// One transaction: lock the open till and the student, insert the payment,
// accumulate each leg in the till, mirror the non-cash legs into the vault and
// reduce the student's pending balance. The receipt is queued after commit.

func (s *pagoService) RegistrarPago(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	estudianteID, err := uuid.Parse(req.EstudianteID)
	if err != nil {
		return nil, fmt.Errorf("%w: estudiante_id", ErrSolicitudInvalida)
	}
	monto := money.Redondear(req.Monto)
	lineas, err := planificarPago(monto, req)
	if err != nil {
		return nil, err
	}
	concepto := strings.TrimSpace(req.Concepto)
	if concepto == "" {
		concepto = conceptoPagoPorDefecto
	}

	var (
		pago       *model.Pago
		saldoFinal decimal.Decimal
	)
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.cajas.LockAbierta(ctx, tx)
		if err != nil {
			return err
		}
		est, err := s.estudiantes.LockByID(ctx, tx, estudianteID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEstudianteNoEncontrado
		}
		if err != nil {
			return err
		}
		if !est.SaldoPendiente.IsPositive() {
			return ErrSinSaldoPendiente
		}
		if monto.GreaterThan(est.SaldoPendiente) {
			return fmt.Errorf("%w (saldo pendiente %s)", ErrSaldoInsuficiente, money.Formatear(est.SaldoPendiente))
		}

		p := &model.Pago{
			EstudianteID:   est.ID,
			CajaID:         caja.ID,
			Concepto:       concepto,
			Monto:          monto,
			EsPagoMixto:    req.EsPagoMixto,
			Estado:         model.EstadoPagoCompletado,
			ReferenciaPago: req.ReferenciaPago,
			Observaciones:  req.Observaciones,
			FechaPago:      time.Now(),
			UsuarioID:      usuarioID,
		}
		if req.EsPagoMixto {
			p.Detalles = lineas
		} else {
			m := lineas[0].MetodoPago
			p.MetodoPago = &m
		}
		if err := s.repo.Create(ctx, tx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrReferenciaDuplicada
			}
			return err
		}

		for _, l := range lineas {
			if err := caja.Ingresos.Sumar(l.MetodoPago, l.Monto); err != nil {
				return err
			}
		}
		if err := s.cajas.Update(ctx, tx, caja); err != nil {
			return err
		}

		pagoID, cajaID := p.ID, caja.ID
		for _, l := range lineas {
			if !l.MetodoPago.EspejoInmediato() {
				continue
			}
			if _, err := s.cajaFuerte.RegistrarAutomaticoTx(ctx, tx, MovimientoAutomatico{
				CajaID:    &cajaID,
				PagoID:    &pagoID,
				Metodo:    l.MetodoPago,
				Monto:     l.Monto,
				Concepto:  fmt.Sprintf("PAGO %s - %s", est.Nombre, concepto),
				Categoria: model.CategoriaPagoEstudiante,
				UsuarioID: usuarioID,
			}); err != nil {
				return err
			}
		}

		if err := s.estudiantes.ReducirSaldo(ctx, tx, est.ID, monto); err != nil {
			return err
		}
		saldoFinal = est.SaldoPendiente.Sub(monto)
		p.Estudiante = est
		pago = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("pago_id", pago.ID.String()).Str("caja_id", pago.CajaID.String()).
		Str("monto", pago.Monto.StringFixed(2)).Bool("mixto", pago.EsPagoMixto).
		Msg("pago registrado")

	if s.recibos != nil {
		if err := s.recibos.EnqueueRecibo(ctx, pago.ID); err != nil {
			log.Error().Err(err).Str("pago_id", pago.ID.String()).Msg("no se pudo encolar el recibo")
		}
	}

	resp := pagoToResponse(pago)
	resp.SaldoPendiente = &saldoFinal
	return &resp, nil
}

func (s *pagoService) ListarPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.PagoResponse, error) {
	pagos, err := s.repo.ListByCaja(ctx, cajaID, 0)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		resp = append(resp, pagoToResponse(&pagos[i]))
	}
	return resp, nil
}

// ── EstadoFinanciero ──────────────────────────────────────────────────────────

func (s *pagoService) EstadoFinanciero(ctx context.Context, cedula string) (*dto.EstadoFinancieroResponse, error) {
	est, err := s.estudiantes.FindByCedula(ctx, strings.TrimSpace(cedula))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEstudianteNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.ListByEstudiante(ctx, est.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EstadoFinancieroResponse{
		EstudianteID:    est.ID.String(),
		Nombre:          est.Nombre,
		Cedula:          est.Cedula,
		Matricula:       est.Matricula,
		TipoServicio:    est.TipoServicio,
		ValorTotalCurso: est.ValorTotalCurso,
		SaldoPendiente:  est.SaldoPendiente,
		TotalPagado:     decimal.Zero,
		Pagos:           make([]dto.PagoResponse, 0, len(pagos)),
	}
	for i := range pagos {
		resp.TotalPagado = resp.TotalPagado.Add(pagos[i].Monto)
		resp.Pagos = append(resp.Pagos, pagoToResponse(&pagos[i]))
		if resp.FechaPrimerPago == nil || pagos[i].FechaPago.Before(*resp.FechaPrimerPago) {
			f := pagos[i].FechaPago
			resp.FechaPrimerPago = &f
		}
	}
	resp.Estado, resp.FechaLimitePago, resp.DiasRestantes = estadoPago(est, resp.FechaPrimerPago, time.Now())
	return resp, nil
}

// estadoPago classifies the student against the payment deadline. Days left
// are whole days, rounded down, so the day after the deadline is -1.
func estadoPago(est *model.Estudiante, primerPago *time.Time, ahora time.Time) (string, *time.Time, *int) {
	if primerPago == nil {
		return EstadoSinServicio, nil, nil
	}
	limite := primerPago.AddDate(0, 0, plazoPagoDias)
	dias := int(math.Floor(limite.Sub(ahora).Hours() / 24))
	switch {
	case !est.SaldoPendiente.IsPositive():
		return EstadoPagadoCompleto, &limite, &dias
	case dias < 0:
		return EstadoVencido, &limite, &dias
	case dias <= diasAlerta:
		return EstadoProximoVencer, &limite, &dias
	default:
		return EstadoAlDia, &limite, &dias
	}
}
