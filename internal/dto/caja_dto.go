package dto

import (
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	SaldoInicial  decimal.Decimal `json:"saldo_inicial"          validate:"min=0"`
	Observaciones *string         `json:"observaciones_apertura" validate:"omitempty,max=500"`
}

// CerrarCajaRequest carries the blind physical count. Desglose is optional;
// when omitted the vault receives the count split into the largest bills.
type CerrarCajaRequest struct {
	EfectivoFisico decimal.Decimal `json:"efectivo_fisico_contado" validate:"min=0"`
	Desglose       money.Desglose  `json:"desglose_efectivo"`
	Observaciones  *string         `json:"observaciones_cierre"    validate:"omitempty,max=500"`
}

type HistorialCajaFilter struct {
	Page  int        `form:"page"`
	Limit int        `form:"limit"`
	Desde *time.Time `form:"fecha_inicio" time_format:"2006-01-02"`
	Hasta *time.Time `form:"fecha_fin"    time_format:"2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MontosPorMetodo is a per-rail breakdown with its total.
type MontosPorMetodo struct {
	Efectivo              decimal.Decimal `json:"efectivo"`
	Nequi                 decimal.Decimal `json:"nequi"`
	Daviplata             decimal.Decimal `json:"daviplata"`
	TransferenciaBancaria decimal.Decimal `json:"transferencia_bancaria"`
	TarjetaDebito         decimal.Decimal `json:"tarjeta_debito"`
	TarjetaCredito        decimal.Decimal `json:"tarjeta_credito"`
	Credismart            decimal.Decimal `json:"credismart"`
	Sistecredito          decimal.Decimal `json:"sistecredito"`
	Total                 decimal.Decimal `json:"total"`
}

type CajaResponse struct {
	ID                    string           `json:"id"`
	Estado                string           `json:"estado"`
	UsuarioAperturaID     string           `json:"usuario_apertura_id"`
	UsuarioCierreID       *string          `json:"usuario_cierre_id"`
	FechaApertura         time.Time        `json:"fecha_apertura"`
	FechaCierre           *time.Time       `json:"fecha_cierre"`
	SaldoInicial          decimal.Decimal  `json:"saldo_inicial"`
	Ingresos              MontosPorMetodo  `json:"ingresos"`
	Egresos               MontosPorMetodo  `json:"egresos"`
	TotalIngresos         decimal.Decimal  `json:"total_ingresos"`
	TotalEgresos          decimal.Decimal  `json:"total_egresos"`
	TotalTransferencias   decimal.Decimal  `json:"total_transferencias"`
	TotalTarjetas         decimal.Decimal  `json:"total_tarjetas"`
	TotalCreditos         decimal.Decimal  `json:"total_creditos"`
	EfectivoEnCaja        decimal.Decimal  `json:"efectivo_en_caja"`
	EfectivoTeorico       *decimal.Decimal `json:"efectivo_teorico"`
	EfectivoFisico        *decimal.Decimal `json:"efectivo_fisico"`
	Diferencia            *decimal.Decimal `json:"diferencia"`
	ObservacionesApertura *string          `json:"observaciones_apertura"`
	ObservacionesCierre   *string          `json:"observaciones_cierre"`
	NumPagos              int64            `json:"num_pagos"`
	NumEgresos            int64            `json:"num_egresos"`
}

type CajaListResponse struct {
	Data       []CajaResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type DashboardCajaResponse struct {
	CajaAbierta               *CajaResponse    `json:"caja_abierta"`
	TotalIngresos             decimal.Decimal  `json:"total_ingresos_hoy"`
	TotalEgresos              decimal.Decimal  `json:"total_egresos_hoy"`
	EfectivoEnCaja            decimal.Decimal  `json:"efectivo_en_caja"`
	TotalCreditos             decimal.Decimal  `json:"total_creditos_hoy"`
	NumPagos                  int64            `json:"num_pagos_hoy"`
	UltimosPagos              []PagoResponse   `json:"ultimos_pagos"`
	UltimosEgresos            []EgresoResponse `json:"ultimos_egresos"`
	EstudiantesProximosVencer int64            `json:"estudiantes_proximos_vencer"`
	EstudiantesVencidos       int64            `json:"estudiantes_vencidos"`
}
