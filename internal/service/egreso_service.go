package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type EgresoService interface {
	RegistrarEgreso(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarEgresoRequest) (*dto.EgresoResponse, error)
	ListarPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.EgresoResponse, error)
}

type egresoService struct {
	repo  repository.EgresoRepository
	cajas repository.CajaRepository
}

func NewEgresoService(repo repository.EgresoRepository, cajas repository.CajaRepository) EgresoService {
	return &egresoService{repo: repo, cajas: cajas}
}

// RegistrarEgreso pays an expense out of the open till. Deferred financing
// rails never hold money at the till, so they cannot fund an expense.
func (s *egresoService) RegistrarEgreso(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarEgresoRequest) (*dto.EgresoResponse, error) {
	concepto, err := normalizarConcepto(req.Concepto)
	if err != nil {
		return nil, err
	}
	monto := money.Redondear(req.Monto)
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	metodo, err := model.ParseMetodoPago(req.MetodoPago)
	if err != nil {
		return nil, err
	}
	if metodo.EsCredito() {
		return nil, fmt.Errorf("%w: %s", ErrMetodoNoPermitido, metodo)
	}
	categoria := model.CategoriaOtros
	if c := strings.ToUpper(strings.TrimSpace(req.Categoria)); c != "" {
		categoria = model.CategoriaEgreso(c)
	}
	if !categoria.Valida() {
		return nil, ErrCategoriaInvalida
	}

	var egreso *model.Egreso
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.cajas.LockAbierta(ctx, tx)
		if err != nil {
			return err
		}
		e := &model.Egreso{
			CajaID:        caja.ID,
			Concepto:      concepto,
			Categoria:     categoria,
			Monto:         monto,
			MetodoPago:    metodo,
			NumeroFactura: req.NumeroFactura,
			Observaciones: req.Observaciones,
			UsuarioID:     usuarioID,
			Fecha:         time.Now(),
		}
		if err := s.repo.Create(ctx, tx, e); err != nil {
			return err
		}
		if err := caja.Egresos.Sumar(metodo, monto); err != nil {
			return err
		}
		if err := s.cajas.Update(ctx, tx, caja); err != nil {
			return err
		}
		egreso = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("egreso_id", egreso.ID.String()).Str("caja_id", egreso.CajaID.String()).
		Str("metodo_pago", string(metodo)).Str("monto", monto.StringFixed(2)).
		Msg("egreso registrado")
	resp := egresoToResponse(egreso)
	return &resp, nil
}

func (s *egresoService) ListarPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.EgresoResponse, error) {
	egresos, err := s.repo.ListByCaja(ctx, cajaID, 0)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EgresoResponse, 0, len(egresos))
	for i := range egresos {
		resp = append(resp, egresoToResponse(&egresos[i]))
	}
	return resp, nil
}
