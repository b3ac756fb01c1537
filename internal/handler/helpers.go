package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/apierror"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a float so gt=0, min=0 and required work on it.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// On failure it writes the response; the caller must return immediately.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// statusDe maps domain errors to HTTP status codes. Zero means unexpected.
func statusDe(err error) int {
	switch {
	case errors.Is(err, service.ErrCajaYaAbierta),
		errors.Is(err, service.ErrCajaYaCerrada),
		errors.Is(err, service.ErrNoHayCajaAbierta),
		errors.Is(err, service.ErrReferenciaDuplicada),
		errors.Is(err, service.ErrUsuarioExistente):
		return http.StatusConflict

	case errors.Is(err, service.ErrCajaNoEncontrada),
		errors.Is(err, service.ErrEstudianteNoEncontrado),
		errors.Is(err, service.ErrMovimientoNoEncontrado):
		return http.StatusNotFound

	case errors.Is(err, money.ErrDesgloseVacio),
		errors.Is(err, money.ErrDenominacionInvalida),
		errors.Is(err, money.ErrDenominacionDuplicada),
		errors.Is(err, money.ErrCantidadNegativa),
		errors.Is(err, money.ErrDesgloseNoCuadra),
		errors.Is(err, model.ErrMetodoPagoInvalido),
		errors.Is(err, service.ErrSaldoInsuficiente),
		errors.Is(err, service.ErrSinSaldoPendiente),
		errors.Is(err, service.ErrPagoMixtoNoCuadra),
		errors.Is(err, service.ErrMetodoPagoRequerido),
		errors.Is(err, service.ErrMetodoNoPermitido),
		errors.Is(err, service.ErrInventarioInsuficiente),
		errors.Is(err, service.ErrMontoInvalido),
		errors.Is(err, service.ErrConceptoInvalido),
		errors.Is(err, service.ErrCategoriaInvalida),
		errors.Is(err, service.ErrSolicitudInvalida),
		errors.Is(err, service.ErrTipoMovimientoInvalido),
		errors.Is(err, service.ErrReciboSoloEgresos):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrSinDesgloseOriginal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrRecursoOcupado):
		return http.StatusLocked
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrTokenInvalido):
		return http.StatusUnauthorized
	}
	return 0
}

// respondError writes domain errors with their message. Anything else goes
// to the ErrorHandler middleware, which logs it and answers a generic 500.
func respondError(c *gin.Context, err error) {
	if status := statusDe(err); status != 0 {
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	_ = c.Error(err)
}
