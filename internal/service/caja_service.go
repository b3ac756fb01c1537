package service

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error)
	// Actual returns (nil, nil) when no till is open.
	Actual(ctx context.Context) (*dto.CajaResponse, error)
	ObtenerReporte(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResponse, error)
	Historial(ctx context.Context, filter dto.HistorialCajaFilter) (*dto.CajaListResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardCajaResponse, error)
}

type cajaService struct {
	repo        repository.CajaRepository
	pagos       repository.PagoRepository
	egresos     repository.EgresoRepository
	estudiantes repository.EstudianteRepository
	cajaFuerte  CajaFuerteService
	auditoria   repository.AuditoriaRepository
}

func NewCajaService(
	repo repository.CajaRepository,
	pagos repository.PagoRepository,
	egresos repository.EgresoRepository,
	estudiantes repository.EstudianteRepository,
	cajaFuerte CajaFuerteService,
	auditoria repository.AuditoriaRepository,
) CajaService {
	return &cajaService{
		repo:        repo,
		pagos:       pagos,
		egresos:     egresos,
		estudiantes: estudiantes,
		cajaFuerte:  cajaFuerte,
		auditoria:   auditoria,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// A Postgres advisory lock held for the transaction serializes openers, so the
// loser always sees the winner's till. uq_cajas_una_abierta backs it up.

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	saldo := money.Redondear(req.SaldoInicial)
	if saldo.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo inicial no puede ser negativo", ErrMontoInvalido)
	}

	var caja *model.Caja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.BloquearApertura(ctx, tx); err != nil {
			return err
		}
		abierta, err := s.repo.FindAbierta(ctx, tx)
		if err != nil {
			return err
		}
		if abierta != nil {
			return fmt.Errorf("%w desde %s", ErrCajaYaAbierta, abierta.FechaApertura.Format("2006-01-02 15:04"))
		}

		nueva := &model.Caja{
			UsuarioAperturaID:     usuarioID,
			SaldoInicial:          saldo,
			Estado:                model.EstadoCajaAbierta,
			ObservacionesApertura: req.Observaciones,
			FechaApertura:         time.Now(),
		}
		if err := s.repo.Create(ctx, tx, nueva); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCajaYaAbierta
			}
			return err
		}
		caja = nueva
		return auditar(ctx, tx, s.auditoria, "caja", nueva.ID, model.AccionAbrir, usuarioID, nil, nueva)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("caja_id", caja.ID.String()).Str("saldo_inicial", caja.SaldoInicial.StringFixed(2)).
		Msg("caja abierta")
	return cajaToResponse(caja, 0, 0), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Blind count: the cashier declares the physical cash, the variance is computed
// against the theoretical cash and the counted cash moves to the vault.

func (s *cajaService) Cerrar(ctx context.Context, cajaID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	var caja *model.Caja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.LockByID(ctx, tx, cajaID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCajaNoEncontrada
		}
		if err != nil {
			return err
		}
		if !c.Abierta() {
			return ErrCajaYaCerrada
		}
		fisico, desglose, err := conteoCierre(req)
		if err != nil {
			return err
		}
		antes := *c

		teorico, diferencia := c.Arquear(fisico)
		ahora := time.Now()
		c.EfectivoTeorico = &teorico
		c.EfectivoFisico = &fisico
		c.Diferencia = &diferencia
		c.Estado = model.EstadoCajaCerrada
		c.UsuarioCierreID = &usuarioID
		c.FechaCierre = &ahora
		c.ObservacionesCierre = req.Observaciones
		if err := s.repo.Update(ctx, tx, c); err != nil {
			return err
		}

		if fisico.IsPositive() {
			id := c.ID
			if _, err := s.cajaFuerte.RegistrarAutomaticoTx(ctx, tx, MovimientoAutomatico{
				CajaID:    &id,
				Metodo:    model.MetodoEfectivo,
				Monto:     fisico,
				Concepto:  fmt.Sprintf("CIERRE CAJA %s", c.ID.String()[:8]),
				Categoria: model.CategoriaCierreCaja,
				Desglose:  desglose,
				UsuarioID: usuarioID,
			}); err != nil {
				return err
			}
		}
		caja = c
		return auditar(ctx, tx, s.auditoria, "caja", c.ID, model.AccionCerrar, usuarioID, antes, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("caja_id", caja.ID.String()).
		Str("efectivo_teorico", caja.EfectivoTeorico.StringFixed(2)).
		Str("efectivo_fisico", caja.EfectivoFisico.StringFixed(2)).
		Str("diferencia", caja.Diferencia.StringFixed(2)).
		Msg("caja cerrada")
	return s.conConteos(ctx, caja)
}

// conteoCierre validates the declared cash and resolves its breakdown, greedy
// when the cashier sends none.
func conteoCierre(req dto.CerrarCajaRequest) (decimal.Decimal, money.Desglose, error) {
	fisico := money.Redondear(req.EfectivoFisico)
	if fisico.IsNegative() {
		return fisico, nil, fmt.Errorf("%w: el efectivo contado no puede ser negativo", ErrMontoInvalido)
	}
	if !fisico.IsPositive() {
		return fisico, nil, nil
	}
	if len(req.Desglose) > 0 {
		if err := req.Desglose.Cuadra(fisico); err != nil {
			return fisico, nil, err
		}
		return fisico, req.Desglose.Normalizado(), nil
	}
	d, err := money.Descomponer(fisico)
	return fisico, d, err
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) conConteos(ctx context.Context, c *model.Caja) (*dto.CajaResponse, error) {
	numPagos, err := s.pagos.CountByCaja(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	numEgresos, err := s.egresos.CountByCaja(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return cajaToResponse(c, numPagos, numEgresos), nil
}

func (s *cajaService) Actual(ctx context.Context) (*dto.CajaResponse, error) {
	c, err := s.repo.FindAbierta(ctx, nil)
	if err != nil || c == nil {
		return nil, err
	}
	return s.conConteos(ctx, c)
}

func (s *cajaService) ObtenerReporte(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	c, err := s.repo.FindByID(ctx, cajaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCajaNoEncontrada
	}
	if err != nil {
		return nil, err
	}
	return s.conConteos(ctx, c)
}

func (s *cajaService) Historial(ctx context.Context, filter dto.HistorialCajaFilter) (*dto.CajaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	cajas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CajaListResponse{
		Data:       make([]dto.CajaResponse, 0, len(cajas)),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}
	for i := range cajas {
		resp.Data = append(resp.Data, *cajaToResponse(&cajas[i], 0, 0))
	}
	return resp, nil
}

// Dashboard summarises the open till: totals, deferred financing and the
// latest five payments and expenses. Payment-deadline alerts are reported
// whether or not a till is open.
func (s *cajaService) Dashboard(ctx context.Context) (*dto.DashboardCajaResponse, error) {
	resp := &dto.DashboardCajaResponse{
		UltimosPagos:   []dto.PagoResponse{},
		UltimosEgresos: []dto.EgresoResponse{},
	}
	ahora := time.Now()
	vence := ahora.AddDate(0, 0, -plazoPagoDias)
	alerta := ahora.AddDate(0, 0, -(plazoPagoDias - diasAlerta - 1))
	var err error
	resp.EstudiantesProximosVencer, resp.EstudiantesVencidos, err = s.estudiantes.ContarVencimientos(ctx, vence, alerta)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.FindAbierta(ctx, nil)
	if err != nil || c == nil {
		return resp, err
	}
	if resp.CajaAbierta, err = s.conConteos(ctx, c); err != nil {
		return nil, err
	}
	resp.TotalIngresos = c.TotalIngresos()
	resp.TotalEgresos = c.TotalEgresos()
	resp.EfectivoEnCaja = c.EfectivoEsperado()
	resp.TotalCreditos = c.TotalCreditos()
	resp.NumPagos = resp.CajaAbierta.NumPagos

	pagos, err := s.pagos.ListByCaja(ctx, c.ID, 5)
	if err != nil {
		return nil, err
	}
	for i := range pagos {
		resp.UltimosPagos = append(resp.UltimosPagos, pagoToResponse(&pagos[i]))
	}
	egresos, err := s.egresos.ListByCaja(ctx, c.ID, 5)
	if err != nil {
		return nil, err
	}
	for i := range egresos {
		resp.UltimosEgresos = append(resp.UltimosEgresos, egresoToResponse(&egresos[i]))
	}
	return resp, nil
}
