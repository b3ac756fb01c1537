package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/middleware"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusDe(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrCajaYaAbierta, http.StatusConflict},
		{fmt.Errorf("%w desde ayer", service.ErrCajaYaAbierta), http.StatusConflict},
		{service.ErrNoHayCajaAbierta, http.StatusConflict},
		{service.ErrMovimientoNoEncontrado, http.StatusNotFound},
		{fmt.Errorf("%w: declarado $1", money.ErrDesgloseNoCuadra), http.StatusBadRequest},
		{service.ErrInventarioInsuficiente, http.StatusBadRequest},
		{service.ErrMetodoNoPermitido, http.StatusBadRequest},
		{service.ErrSinDesgloseOriginal, http.StatusUnprocessableEntity},
		{service.ErrRecursoOcupado, http.StatusLocked},
		{service.ErrTokenInvalido, http.StatusUnauthorized},
		{errors.New("connection reset"), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusDe(tc.err), tc.err.Error())
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/dominio", func(c *gin.Context) { respondError(c, service.ErrCajaYaCerrada) })
	r.GET("/interno", func(c *gin.Context) { respondError(c, errors.New("pq: deadlock detected")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dominio", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrCajaYaCerrada.Error())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/interno", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
}

func TestParseUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cajas/:id", func(c *gin.Context) {
		if _, ok := parseUUIDParam(c, "id"); ok {
			c.Status(http.StatusNoContent)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cajas/no-es-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cajas/6f1c7a52-3f7e-4b8e-9a61-0c1d2e3f4a5b", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
