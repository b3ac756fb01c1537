package money

import "errors"

var (
	ErrDesgloseVacio         = errors.New("debes registrar las denominaciones")
	ErrDenominacionInvalida  = errors.New("denominación inválida")
	ErrDenominacionDuplicada = errors.New("denominaciones duplicadas")
	ErrCantidadNegativa      = errors.New("la cantidad no puede ser negativa")
	ErrDesgloseNoCuadra      = errors.New("las denominaciones no cuadran con el monto del movimiento")
)
