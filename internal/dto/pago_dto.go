package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetallePagoRequest struct {
	MetodoPago string          `json:"metodo"     validate:"required"`
	Monto      decimal.Decimal `json:"monto"      validate:"gt=0"`
	Referencia *string         `json:"referencia" validate:"omitempty,max=100"`
}

// RegistrarPagoRequest is either a single-method payment (MetodoPago) or a
// split payment (EsPagoMixto with two or more DetallesPago).
type RegistrarPagoRequest struct {
	EstudianteID   string               `json:"estudiante_id"   validate:"required,uuid"`
	Monto          decimal.Decimal      `json:"monto"           validate:"gt=0"`
	MetodoPago     *string              `json:"metodo_pago"`
	EsPagoMixto    bool                 `json:"es_pago_mixto"`
	DetallesPago   []DetallePagoRequest `json:"detalles_pago"   validate:"omitempty,dive"`
	Concepto       string               `json:"concepto"        validate:"omitempty,max=255"`
	ReferenciaPago *string              `json:"referencia_pago" validate:"omitempty,max=100"`
	Observaciones  *string              `json:"observaciones"   validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetallePagoResponse struct {
	MetodoPago string          `json:"metodo"`
	Monto      decimal.Decimal `json:"monto"`
	Referencia *string         `json:"referencia"`
}

type PagoResponse struct {
	ID               string                `json:"id"`
	EstudianteID     string                `json:"estudiante_id"`
	EstudianteNombre string                `json:"estudiante_nombre,omitempty"`
	EstudianteCedula string                `json:"estudiante_cedula,omitempty"`
	CajaID           string                `json:"caja_id"`
	Concepto         string                `json:"concepto"`
	Monto            decimal.Decimal       `json:"monto"`
	MetodoPago       *string               `json:"metodo_pago"`
	EsPagoMixto      bool                  `json:"es_pago_mixto"`
	Detalles         []DetallePagoResponse `json:"detalles_pago"`
	Estado           string                `json:"estado"`
	ReferenciaPago   *string               `json:"referencia_pago"`
	Observaciones    *string               `json:"observaciones"`
	FechaPago        time.Time             `json:"fecha_pago"`
	UsuarioID        string                `json:"usuario_id"`
	SaldoPendiente   *decimal.Decimal      `json:"saldo_pendiente,omitempty"`
}

// EstadoFinancieroResponse is the student's payment standing.
// Estado: SIN_SERVICIO | AL_DIA | PROXIMO_VENCER | VENCIDO | PAGADO_COMPLETO
type EstadoFinancieroResponse struct {
	EstudianteID    string          `json:"estudiante_id"`
	Nombre          string          `json:"nombre"`
	Cedula          string          `json:"cedula"`
	Matricula       string          `json:"matricula"`
	TipoServicio    string          `json:"tipo_servicio"`
	ValorTotalCurso decimal.Decimal `json:"valor_total_curso"`
	TotalPagado     decimal.Decimal `json:"total_pagado"`
	SaldoPendiente  decimal.Decimal `json:"saldo_pendiente"`
	FechaPrimerPago *time.Time      `json:"fecha_primer_pago"`
	FechaLimitePago *time.Time      `json:"fecha_limite_pago"`
	DiasRestantes   *int            `json:"dias_restantes"`
	Estado          string          `json:"estado"`
	Pagos           []PagoResponse  `json:"pagos"`
}
