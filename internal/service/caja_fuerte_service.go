package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/infra"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	limiteMovimientos = 200
	entidadMovimiento = "movimiento_caja_fuerte"
)

type CajaFuerteService interface {
	CrearMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoCajaFuerteRequest) (*dto.MovimientoCajaFuerteResponse, error)
	ActualizarMovimiento(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarMovimientoCajaFuerteRequest) (*dto.MovimientoCajaFuerteResponse, error)
	EliminarMovimiento(ctx context.Context, id, usuarioID uuid.UUID, desglose money.Desglose) error
	Resumen(ctx context.Context) (*dto.ResumenCajaFuerteResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) (*dto.MovimientoCajaFuerteListResponse, error)
	ReciboEgresoPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	ExportarMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) ([]byte, error)
	ObtenerInventario(ctx context.Context) (*dto.InventarioResponse, error)
	ActualizarInventario(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error)
	// HistorialMovimiento returns the audit trail of a movement, oldest first.
	// It survives the movement's deletion.
	HistorialMovimiento(ctx context.Context, id uuid.UUID) ([]dto.AuditoriaResponse, error)
	// RegistrarAutomaticoTx posts a system INGRESO inside the caller's
	// transaction (till close-in, non-cash payment mirror).
	RegistrarAutomaticoTx(ctx context.Context, tx *gorm.DB, in MovimientoAutomatico) (*model.MovimientoCajaFuerte, error)
}

// MovimientoAutomatico is a vault INGRESO produced by the till.
type MovimientoAutomatico struct {
	CajaID    *uuid.UUID
	PagoID    *uuid.UUID
	Metodo    model.MetodoPago
	Monto     decimal.Decimal
	Concepto  string
	Categoria string
	Desglose  money.Desglose
	UsuarioID uuid.UUID
}

type cajaFuerteService struct {
	repo      repository.CajaFuerteRepository
	auditoria repository.AuditoriaRepository
	locker    Bloqueador
	escuela   string
}

func NewCajaFuerteService(
	repo repository.CajaFuerteRepository,
	auditoria repository.AuditoriaRepository,
	locker Bloqueador,
	escuela string,
) CajaFuerteService {
	return &cajaFuerteService{repo: repo, auditoria: auditoria, locker: locker, escuela: escuela}
}

func claveCajaFuerte(id uuid.UUID) string { return "caja_fuerte:" + id.String() }

func normalizarConcepto(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if len([]rune(c)) < 3 {
		return "", ErrConceptoInvalido
	}
	return c, nil
}

// validarMovimiento checks a movement's shape and returns the breakdown to store:
// mandatory and exact for cash, absent for every other rail.
func validarMovimiento(tipo string, metodo model.MetodoPago, monto decimal.Decimal, desglose money.Desglose) (money.Desglose, error) {
	if !model.TipoMovimientoValido(tipo) {
		return nil, ErrTipoMovimientoInvalido
	}
	if !metodo.Valido() {
		return nil, model.ErrMetodoPagoInvalido
	}
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	if !metodo.RequiereDenominaciones() {
		if len(desglose) > 0 {
			return nil, fmt.Errorf("%w: solo los movimientos en efectivo llevan denominaciones", ErrSolicitudInvalida)
		}
		return nil, nil
	}
	if err := desglose.Cuadra(monto); err != nil {
		return nil, err
	}
	return desglose.Normalizado(), nil
}

// ── Core posting ─────────────────────────────────────────────────────────────

// conCajaFuerte runs fn in a transaction holding the vault row lock and the
// redis lock for the vault, then persists the recomputed balances.
func (s *cajaFuerteService) conCajaFuerte(ctx context.Context, fn func(tx *gorm.DB, cf *model.CajaFuerte) error) error {
	cf, err := s.repo.Asegurar(ctx, nil)
	if err != nil {
		return err
	}
	return conBloqueo(ctx, s.locker, claveCajaFuerte(cf.ID), func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			bloqueada, err := s.repo.Lock(ctx, tx, cf.ID)
			if err != nil {
				return err
			}
			if err := fn(tx, bloqueada); err != nil {
				return err
			}
			return s.repo.UpdateSaldos(ctx, tx, bloqueada)
		})
	})
}

func (s *cajaFuerteService) conteoActual(ctx context.Context, tx *gorm.DB, cajaFuerteID uuid.UUID) (map[int64]int64, error) {
	filas, err := s.repo.Inventario(ctx, tx, cajaFuerteID)
	if err != nil {
		return nil, err
	}
	conteo := make(map[int64]int64, len(filas))
	for _, f := range filas {
		conteo[f.Denominacion] = f.Cantidad
	}
	return conteo, nil
}

// aplicarDesglose moves every line of d into (signo=+1) or out of (signo=-1)
// the inventory. No count may go negative.
func (s *cajaFuerteService) aplicarDesglose(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte, d money.Desglose, signo int64) error {
	conteo, err := s.conteoActual(ctx, tx, cf.ID)
	if err != nil {
		return err
	}
	for _, it := range d {
		nueva := conteo[it.Denominacion] + signo*it.Cantidad
		if nueva < 0 {
			return fmt.Errorf("%w: no hay suficientes piezas de %s (disponibles %d, requeridas %d)",
				ErrInventarioInsuficiente, money.Formatear(decimal.NewFromInt(it.Denominacion)),
				conteo[it.Denominacion], it.Cantidad)
		}
		conteo[it.Denominacion] = nueva
	}
	return s.guardarConteo(ctx, tx, cf, conteo)
}

// guardarConteo persists every denomination and sets the cash balance to the
// sum of the subtotals.
func (s *cajaFuerteService) guardarConteo(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte, conteo map[int64]int64) error {
	denominaciones := money.Denominaciones()
	filas := make([]model.InventarioEfectivo, 0, len(denominaciones))
	total := decimal.Zero
	for _, den := range denominaciones {
		sub := decimal.NewFromInt(den).Mul(decimal.NewFromInt(conteo[den]))
		total = total.Add(sub)
		filas = append(filas, model.InventarioEfectivo{
			CajaFuerteID: cf.ID, Denominacion: den, Cantidad: conteo[den], Total: sub,
		})
	}
	if err := s.repo.GuardarInventario(ctx, tx, filas); err != nil {
		return err
	}
	return cf.Saldos.Fijar(model.MetodoEfectivo, total)
}

// recalcularRiel sets a non-cash rail to the signed sum of its movements.
func (s *cajaFuerteService) recalcularRiel(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte, metodo model.MetodoPago) error {
	if metodo.RequiereDenominaciones() {
		return nil
	}
	total, err := s.repo.SumMovimientos(ctx, tx, cf.ID, metodo)
	if err != nil {
		return err
	}
	return cf.Saldos.Fijar(metodo, total)
}

// postear applies mov to the locked vault and writes it.
func (s *cajaFuerteService) postear(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte, mov *model.MovimientoCajaFuerte) error {
	mov.CajaFuerteID = cf.ID
	if mov.MetodoPago.RequiereDenominaciones() {
		if err := s.aplicarDesglose(ctx, tx, cf, mov.InventarioDetalle, mov.Signo()); err != nil {
			return err
		}
	}
	if err := s.repo.CreateMovimiento(ctx, tx, mov); err != nil {
		return err
	}
	return s.recalcularRiel(ctx, tx, cf, mov.MetodoPago)
}

// revertir undoes the inventory effect of mov. Cash needs a breakdown: the
// stored one, else the caller's, else ErrSinDesgloseOriginal.
func (s *cajaFuerteService) revertir(ctx context.Context, tx *gorm.DB, cf *model.CajaFuerte, mov *model.MovimientoCajaFuerte, alterno money.Desglose) error {
	if !mov.MetodoPago.RequiereDenominaciones() {
		return nil
	}
	detalle := mov.InventarioDetalle
	if len(detalle) == 0 {
		if len(alterno) == 0 {
			return ErrSinDesgloseOriginal
		}
		if err := alterno.Cuadra(mov.Monto); err != nil {
			return err
		}
		detalle = alterno.Normalizado()
	}
	return s.aplicarDesglose(ctx, tx, cf, detalle, -mov.Signo())
}

// ── CrearMovimiento ──────────────────────────────────────────────────────────

func (s *cajaFuerteService) CrearMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoCajaFuerteRequest) (*dto.MovimientoCajaFuerteResponse, error) {
	metodo, err := model.ParseMetodoPago(req.MetodoPago)
	if err != nil {
		return nil, err
	}
	monto := money.Redondear(req.Monto)
	desglose, err := validarMovimiento(req.Tipo, metodo, monto, req.InventarioItems)
	if err != nil {
		return nil, err
	}
	concepto, err := normalizarConcepto(req.Concepto)
	if err != nil {
		return nil, err
	}

	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	mov := &model.MovimientoCajaFuerte{
		Tipo:              req.Tipo,
		MetodoPago:        metodo,
		Concepto:          concepto,
		Categoria:         strings.TrimSpace(req.Categoria),
		Monto:             monto,
		Fecha:             fecha,
		Observaciones:     req.Observaciones,
		InventarioDetalle: desglose,
		UsuarioID:         usuarioID,
	}

	err = s.conCajaFuerte(ctx, func(tx *gorm.DB, cf *model.CajaFuerte) error {
		if err := s.postear(ctx, tx, cf, mov); err != nil {
			return err
		}
		return auditar(ctx, tx, s.auditoria, entidadMovimiento, mov.ID, model.AccionCrear, usuarioID, nil, mov)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("movimiento_id", mov.ID.String()).Str("tipo", mov.Tipo).
		Str("metodo_pago", string(mov.MetodoPago)).Str("monto", mov.Monto.StringFixed(2)).
		Msg("caja fuerte: movimiento registrado")
	resp := movimientoToResponse(mov)
	return &resp, nil
}

// ── RegistrarAutomaticoTx ────────────────────────────────────────────────────

func (s *cajaFuerteService) RegistrarAutomaticoTx(ctx context.Context, tx *gorm.DB, in MovimientoAutomatico) (*model.MovimientoCajaFuerte, error) {
	if in.Categoria == model.CategoriaCierreCaja && in.CajaID != nil {
		existe, err := s.repo.ExisteCierreCaja(ctx, tx, *in.CajaID)
		if err != nil {
			return nil, err
		}
		if existe {
			log.Warn().Str("caja_id", in.CajaID.String()).Msg("caja fuerte: cierre ya registrado, se omite")
			return nil, nil
		}
	}

	monto := money.Redondear(in.Monto)
	desglose, err := validarMovimiento(model.TipoMovimientoIngreso, in.Metodo, monto, in.Desglose)
	if err != nil {
		return nil, err
	}

	cf, err := s.repo.Asegurar(ctx, tx)
	if err != nil {
		return nil, err
	}
	bloqueada, err := s.repo.Lock(ctx, tx, cf.ID)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimientoCajaFuerte{
		CajaID:            in.CajaID,
		PagoID:            in.PagoID,
		Tipo:              model.TipoMovimientoIngreso,
		MetodoPago:        in.Metodo,
		Concepto:          strings.ToUpper(strings.TrimSpace(in.Concepto)),
		Categoria:         in.Categoria,
		Monto:             monto,
		Fecha:             time.Now(),
		InventarioDetalle: desglose,
		UsuarioID:         in.UsuarioID,
	}
	if err := s.postear(ctx, tx, bloqueada, mov); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSaldos(ctx, tx, bloqueada); err != nil {
		return nil, err
	}
	return mov, nil
}

// ── ActualizarMovimiento ─────────────────────────────────────────────────────
// Reverse the old effect, then post the edited movement as if it were new.

func (s *cajaFuerteService) ActualizarMovimiento(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarMovimientoCajaFuerteRequest) (*dto.MovimientoCajaFuerteResponse, error) {
	var mov *model.MovimientoCajaFuerte
	err := s.conCajaFuerte(ctx, func(tx *gorm.DB, cf *model.CajaFuerte) error {
		actual, err := s.repo.LockMovimiento(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovimientoNoEncontrado
		}
		if err != nil {
			return err
		}
		antes := *actual

		if err := s.revertir(ctx, tx, cf, &antes, nil); err != nil {
			return err
		}

		if req.MetodoPago != nil {
			m, err := model.ParseMetodoPago(*req.MetodoPago)
			if err != nil {
				return err
			}
			actual.MetodoPago = m
		}
		if req.Concepto != nil {
			c, err := normalizarConcepto(*req.Concepto)
			if err != nil {
				return err
			}
			actual.Concepto = c
		}
		if req.Categoria != nil {
			actual.Categoria = strings.TrimSpace(*req.Categoria)
		}
		if req.Monto != nil {
			actual.Monto = money.Redondear(*req.Monto)
		}
		if req.Fecha != nil {
			actual.Fecha = *req.Fecha
		}
		if req.Observaciones != nil {
			actual.Observaciones = req.Observaciones
		}

		items := req.InventarioItems
		if len(items) == 0 && actual.MetodoPago.RequiereDenominaciones() && antes.MetodoPago.RequiereDenominaciones() {
			items = antes.InventarioDetalle
		}
		desglose, err := validarMovimiento(actual.Tipo, actual.MetodoPago, actual.Monto, items)
		if err != nil {
			return err
		}
		actual.InventarioDetalle = desglose

		if actual.MetodoPago.RequiereDenominaciones() {
			if err := s.aplicarDesglose(ctx, tx, cf, desglose, actual.Signo()); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateMovimiento(ctx, tx, actual); err != nil {
			return err
		}
		if err := s.recalcularRiel(ctx, tx, cf, antes.MetodoPago); err != nil {
			return err
		}
		if actual.MetodoPago != antes.MetodoPago {
			if err := s.recalcularRiel(ctx, tx, cf, actual.MetodoPago); err != nil {
				return err
			}
		}
		mov = actual
		return auditar(ctx, tx, s.auditoria, entidadMovimiento, id, model.AccionActualizar, usuarioID, antes, actual)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("movimiento_id", id.String()).Msg("caja fuerte: movimiento actualizado")
	resp := movimientoToResponse(mov)
	return &resp, nil
}

// ── EliminarMovimiento ───────────────────────────────────────────────────────

func (s *cajaFuerteService) EliminarMovimiento(ctx context.Context, id, usuarioID uuid.UUID, desglose money.Desglose) error {
	err := s.conCajaFuerte(ctx, func(tx *gorm.DB, cf *model.CajaFuerte) error {
		mov, err := s.repo.LockMovimiento(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovimientoNoEncontrado
		}
		if err != nil {
			return err
		}
		if err := s.revertir(ctx, tx, cf, mov, desglose); err != nil {
			return err
		}
		if err := s.repo.DeleteMovimiento(ctx, tx, id); err != nil {
			return err
		}
		if err := s.recalcularRiel(ctx, tx, cf, mov.MetodoPago); err != nil {
			return err
		}
		return auditar(ctx, tx, s.auditoria, entidadMovimiento, id, model.AccionEliminar, usuarioID, mov, nil)
	})
	if err != nil {
		return err
	}
	log.Info().Str("movimiento_id", id.String()).Msg("caja fuerte: movimiento eliminado")
	return nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *cajaFuerteService) Resumen(ctx context.Context) (*dto.ResumenCajaFuerteResponse, error) {
	cf, err := s.repo.Asegurar(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resumenToResponse(cf), nil
}

func normalizarFiltro(filter dto.MovimientoCajaFuerteFilter) dto.MovimientoCajaFuerteFilter {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > limiteMovimientos {
		filter.Limit = limiteMovimientos
	}
	filter.Tipo = strings.ToUpper(strings.TrimSpace(filter.Tipo))
	filter.MetodoPago = strings.ToUpper(strings.TrimSpace(filter.MetodoPago))
	return filter
}

func (s *cajaFuerteService) ListarMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) (*dto.MovimientoCajaFuerteListResponse, error) {
	filter = normalizarFiltro(filter)
	movs, err := s.repo.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovimientoCajaFuerteListResponse{
		Data:  make([]dto.MovimientoCajaFuerteResponse, 0, len(movs)),
		Skip:  filter.Skip,
		Limit: filter.Limit,
	}
	for i := range movs {
		resp.Data = append(resp.Data, movimientoToResponse(&movs[i]))
	}
	return resp, nil
}

func (s *cajaFuerteService) ReciboEgresoPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	mov, err := s.repo.FindMovimiento(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrMovimientoNoEncontrado
	}
	if err != nil {
		return nil, "", err
	}
	if mov.Tipo != model.TipoMovimientoEgreso {
		return nil, "", ErrReciboSoloEgresos
	}
	pdf, err := infra.GenerarReciboEgresoPDF(mov, s.escuela)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("recibo_egreso_%s.pdf", mov.ID.String()[:8]), nil
}

func (s *cajaFuerteService) ExportarMovimientos(ctx context.Context, filter dto.MovimientoCajaFuerteFilter) ([]byte, error) {
	filter = normalizarFiltro(filter)
	// the export is not paginated
	filter.Skip, filter.Limit = 0, 0
	movs, err := s.repo.ListMovimientos(ctx, filter)
	if err != nil {
		return nil, err
	}
	return infra.ExportarMovimientosXLSX(movs)
}

func (s *cajaFuerteService) HistorialMovimiento(ctx context.Context, id uuid.UUID) ([]dto.AuditoriaResponse, error) {
	entradas, err := s.auditoria.ListByEntidad(ctx, entidadMovimiento, id)
	if err != nil {
		return nil, err
	}
	if len(entradas) == 0 {
		if _, err := s.repo.FindMovimiento(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovimientoNoEncontrado
		} else if err != nil {
			return nil, err
		}
	}
	resp := make([]dto.AuditoriaResponse, 0, len(entradas))
	for i := range entradas {
		resp = append(resp, auditoriaToResponse(&entradas[i]))
	}
	return resp, nil
}

// ── Inventario ───────────────────────────────────────────────────────────────

func (s *cajaFuerteService) ObtenerInventario(ctx context.Context) (*dto.InventarioResponse, error) {
	cf, err := s.repo.Asegurar(ctx, nil)
	if err != nil {
		return nil, err
	}
	conteo, err := s.conteoActual(ctx, nil, cf.ID)
	if err != nil {
		return nil, err
	}
	return inventarioToResponse(money.Denominaciones(), conteo), nil
}

// ActualizarInventario records a physical recount. Listed denominations are
// overwritten, the rest keep their count, and the cash balance follows.
func (s *cajaFuerteService) ActualizarInventario(ctx context.Context, usuarioID uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error) {
	if err := req.Items.Validar(); err != nil {
		return nil, err
	}
	var conteo map[int64]int64
	err := s.conCajaFuerte(ctx, func(tx *gorm.DB, cf *model.CajaFuerte) error {
		actual, err := s.conteoActual(ctx, tx, cf.ID)
		if err != nil {
			return err
		}
		antes := make(map[int64]int64, len(actual))
		for k, v := range actual {
			antes[k] = v
		}
		for _, it := range req.Items {
			actual[it.Denominacion] = it.Cantidad
		}
		if err := s.guardarConteo(ctx, tx, cf, actual); err != nil {
			return err
		}
		conteo = actual
		return auditar(ctx, tx, s.auditoria, "inventario_efectivo", cf.ID, model.AccionRecuento, usuarioID, antes, actual)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("denominaciones", len(req.Items)).Msg("caja fuerte: inventario actualizado")
	return inventarioToResponse(money.Denominaciones(), conteo), nil
}
