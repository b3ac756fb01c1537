package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegistrarEgresoRequest struct {
	Concepto      string          `json:"concepto"       validate:"required,min=3,max=255"`
	Categoria     string          `json:"categoria"      validate:"omitempty,max=40"`
	Monto         decimal.Decimal `json:"monto"          validate:"gt=0"`
	MetodoPago    string          `json:"metodo_pago"    validate:"required"`
	NumeroFactura *string         `json:"numero_factura" validate:"omitempty,max=50"`
	Observaciones *string         `json:"observaciones"  validate:"omitempty,max=500"`
}

type EgresoResponse struct {
	ID            string          `json:"id"`
	CajaID        string          `json:"caja_id"`
	Concepto      string          `json:"concepto"`
	Categoria     string          `json:"categoria"`
	Monto         decimal.Decimal `json:"monto"`
	MetodoPago    string          `json:"metodo_pago"`
	NumeroFactura *string         `json:"numero_factura"`
	Observaciones *string         `json:"observaciones"`
	Fecha         time.Time       `json:"fecha"`
	UsuarioID     string          `json:"usuario_id"`
}
