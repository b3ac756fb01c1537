package dto

import (
	"encoding/json"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MovimientoCajaFuerteRequest posts a manual vault movement. Cash movements
// must declare InventarioItems summing exactly to Monto; other rails must not.
type MovimientoCajaFuerteRequest struct {
	Tipo            string          `json:"tipo"             validate:"required,oneof=INGRESO EGRESO"`
	MetodoPago      string          `json:"metodo_pago"      validate:"required"`
	Concepto        string          `json:"concepto"         validate:"required,min=3,max=255"`
	Categoria       string          `json:"categoria"        validate:"omitempty,max=80"`
	Monto           decimal.Decimal `json:"monto"            validate:"gt=0"`
	Fecha           *time.Time      `json:"fecha"`
	Observaciones   *string         `json:"observaciones"    validate:"omitempty,max=500"`
	InventarioItems money.Desglose  `json:"inventario_items"`
}

// ActualizarMovimientoCajaFuerteRequest changes any subset of fields; the
// movement type is fixed at creation.
type ActualizarMovimientoCajaFuerteRequest struct {
	MetodoPago      *string          `json:"metodo_pago"`
	Concepto        *string          `json:"concepto"      validate:"omitempty,min=3,max=255"`
	Categoria       *string          `json:"categoria"     validate:"omitempty,max=80"`
	Monto           *decimal.Decimal `json:"monto"`
	Fecha           *time.Time       `json:"fecha"`
	Observaciones   *string          `json:"observaciones" validate:"omitempty,max=500"`
	InventarioItems money.Desglose   `json:"inventario_items"`
}

// EliminarMovimientoRequest supplies the breakdown to reverse when the stored
// movement has none.
type EliminarMovimientoRequest struct {
	InventarioItems money.Desglose `json:"inventario_items"`
}

type ActualizarInventarioRequest struct {
	Items money.Desglose `json:"items" validate:"required,min=1"`
}

type MovimientoCajaFuerteFilter struct {
	Tipo       string     `form:"tipo"`
	MetodoPago string     `form:"metodo_pago"`
	Desde      *time.Time `form:"fecha_inicio" time_format:"2006-01-02"`
	Hasta      *time.Time `form:"fecha_fin"    time_format:"2006-01-02"`
	Skip       int        `form:"skip"`
	Limit      int        `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaFuerteResponse struct {
	ID                string          `json:"id"`
	Tipo              string          `json:"tipo"`
	MetodoPago        string          `json:"metodo_pago"`
	Concepto          string          `json:"concepto"`
	Categoria         string          `json:"categoria"`
	Monto             decimal.Decimal `json:"monto"`
	Fecha             time.Time       `json:"fecha"`
	Observaciones     *string         `json:"observaciones"`
	InventarioDetalle money.Desglose  `json:"inventario_detalle"`
	CajaID            *string         `json:"caja_id"`
	PagoID            *string         `json:"pago_id"`
	UsuarioID         string          `json:"usuario_id"`
}

type MovimientoCajaFuerteListResponse struct {
	Data  []MovimientoCajaFuerteResponse `json:"data"`
	Skip  int                            `json:"skip"`
	Limit int                            `json:"limit"`
}

type ResumenCajaFuerteResponse struct {
	ID                  string          `json:"id"`
	Saldos              MontosPorMetodo `json:"saldos"`
	SaldoTotal          decimal.Decimal `json:"saldo_total"`
	SaldoLiquido        decimal.Decimal `json:"saldo_liquido"`
	SaldoCreditos       decimal.Decimal `json:"saldo_creditos"`
	UltimaActualizacion time.Time       `json:"ultima_actualizacion"`
}

type InventarioItemResponse struct {
	Denominacion int64           `json:"denominacion"`
	Cantidad     int64           `json:"cantidad"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type InventarioResponse struct {
	Items         []InventarioItemResponse `json:"items"`
	TotalPiezas   int64                    `json:"total_piezas"`
	TotalEfectivo decimal.Decimal          `json:"total_efectivo"`
}

// AuditoriaResponse is one audit entry; Antes and Despues are the JSON
// snapshots around the change.
type AuditoriaResponse struct {
	ID        string          `json:"id"`
	Entidad   string          `json:"entidad"`
	EntidadID string          `json:"entidad_id"`
	Accion    string          `json:"accion"`
	UsuarioID *string         `json:"usuario_id"`
	Antes     json.RawMessage `json:"antes,omitempty"`
	Despues   json.RawMessage `json:"despues,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
