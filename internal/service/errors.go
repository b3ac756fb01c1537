package service

import (
	"errors"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/infra"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"
)

var (
	ErrCajaYaAbierta    = errors.New("ya existe una caja abierta")
	ErrCajaYaCerrada    = errors.New("la caja ya está cerrada")
	ErrNoHayCajaAbierta = repository.ErrNoHayCajaAbierta
	ErrCajaNoEncontrada = errors.New("caja no encontrada")

	ErrEstudianteNoEncontrado = errors.New("estudiante no encontrado")
	ErrSaldoInsuficiente      = errors.New("el monto excede el saldo pendiente del estudiante")
	ErrSinSaldoPendiente      = errors.New("el estudiante no tiene saldo pendiente")
	ErrPagoMixtoNoCuadra      = errors.New("la suma de los métodos de pago no coincide con el monto total")
	ErrMetodoPagoRequerido    = errors.New("debe especificar un método de pago")
	ErrReferenciaDuplicada    = errors.New("la referencia de pago ya fue registrada")

	ErrMetodoNoPermitido = errors.New("método de pago no permitido para esta operación")
	ErrMontoInvalido     = errors.New("el monto debe ser mayor a cero")
	ErrConceptoInvalido  = errors.New("el concepto debe tener al menos 3 caracteres")
	ErrCategoriaInvalida = errors.New("categoría de egreso inválida")
	ErrSolicitudInvalida = errors.New("solicitud inválida")

	ErrMovimientoNoEncontrado = errors.New("movimiento no encontrado")
	ErrTipoMovimientoInvalido = errors.New("tipo de movimiento inválido, use INGRESO o EGRESO")
	ErrInventarioInsuficiente = errors.New("inventario insuficiente")
	ErrSinDesgloseOriginal    = errors.New("el movimiento no tiene desglose de denominaciones para revertir")
	ErrReciboSoloEgresos      = errors.New("solo se generan recibos para egresos")

	ErrRecursoOcupado = infra.ErrRecursoOcupado

	ErrCredencialesInvalidas = errors.New("credenciales invalidas")
	ErrTokenInvalido         = errors.New("refresh token invalido o expirado")
	ErrUsuarioExistente      = errors.New("el nombre de usuario ya existe")
)
