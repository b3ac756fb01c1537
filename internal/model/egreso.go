package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoriaEgreso string

const (
	CategoriaCombustible            CategoriaEgreso = "COMBUSTIBLE"
	CategoriaMantenimientoVehiculo  CategoriaEgreso = "MANTENIMIENTO_VEHICULO"
	CategoriaServiciosPublicos      CategoriaEgreso = "SERVICIOS_PUBLICOS"
	CategoriaNomina                 CategoriaEgreso = "NOMINA"
	CategoriaPapeleria              CategoriaEgreso = "PAPELERIA"
	CategoriaAseo                   CategoriaEgreso = "ASEO"
	CategoriaAlquiler               CategoriaEgreso = "ALQUILER"
	CategoriaSeguros                CategoriaEgreso = "SEGUROS"
	CategoriaImpuestos              CategoriaEgreso = "IMPUESTOS"
	CategoriaPublicidad             CategoriaEgreso = "PUBLICIDAD"
	CategoriaOtros                  CategoriaEgreso = "OTROS"
	CategoriaEstudianteNoRegistrado CategoriaEgreso = "ESTUDIANTE_NO_REGISTRADO"
	CategoriaPagoPrestamoEmpleado   CategoriaEgreso = "PAGO_PRESTAMO_EMPLEADO"
	CategoriaVentaMaterial          CategoriaEgreso = "VENTA_MATERIAL"
	CategoriaIngresoAdministrativo  CategoriaEgreso = "INGRESO_ADMINISTRATIVO"
	CategoriaEgresoAdministrativo   CategoriaEgreso = "EGRESO_ADMINISTRATIVO"
)

var categoriasEgreso = map[CategoriaEgreso]struct{}{
	CategoriaCombustible: {}, CategoriaMantenimientoVehiculo: {}, CategoriaServiciosPublicos: {},
	CategoriaNomina: {}, CategoriaPapeleria: {}, CategoriaAseo: {}, CategoriaAlquiler: {},
	CategoriaSeguros: {}, CategoriaImpuestos: {}, CategoriaPublicidad: {}, CategoriaOtros: {},
	CategoriaEstudianteNoRegistrado: {}, CategoriaPagoPrestamoEmpleado: {}, CategoriaVentaMaterial: {},
	CategoriaIngresoAdministrativo: {}, CategoriaEgresoAdministrativo: {},
}

func (c CategoriaEgreso) Valida() bool {
	_, ok := categoriasEgreso[c]
	return ok
}

// Egreso is an expense paid out of the open till. It never reaches the vault.
type Egreso struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Concepto      string          `gorm:"size:255;not null"`
	Categoria     CategoriaEgreso `gorm:"type:varchar(40);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MetodoPago    MetodoPago      `gorm:"type:varchar(30);not null"`
	NumeroFactura *string         `gorm:"size:50"`
	Observaciones *string
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	Fecha         time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

func (Egreso) TableName() string { return "egresos_caja" }
