package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/handler"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubCajaService answers every call with the configured response and error.
type stubCajaService struct {
	resp    *dto.CajaResponse
	err     error
	llamada bool
}

func (s *stubCajaService) Abrir(context.Context, uuid.UUID, dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	s.llamada = true
	return s.resp, s.err
}

func (s *stubCajaService) Cerrar(context.Context, uuid.UUID, uuid.UUID, dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	s.llamada = true
	return s.resp, s.err
}

func (s *stubCajaService) Actual(context.Context) (*dto.CajaResponse, error) { return s.resp, s.err }

func (s *stubCajaService) ObtenerReporte(context.Context, uuid.UUID) (*dto.CajaResponse, error) {
	return s.resp, s.err
}

func (s *stubCajaService) Historial(context.Context, dto.HistorialCajaFilter) (*dto.CajaListResponse, error) {
	return &dto.CajaListResponse{}, s.err
}

func (s *stubCajaService) Dashboard(context.Context) (*dto.DashboardCajaResponse, error) {
	return &dto.DashboardCajaResponse{}, s.err
}

var _ service.CajaService = (*stubCajaService)(nil)

func cajaRouter(svc service.CajaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCajaHandler(svc)
	r.POST("/caja/abrir", h.Abrir)
	r.PUT("/caja/:id/cerrar", h.Cerrar)
	r.GET("/caja/actual", h.Actual)
	return r
}

func TestAbrirCaja_Handler(t *testing.T) {
	svc := &stubCajaService{resp: &dto.CajaResponse{ID: uuid.NewString(), Estado: "ABIERTA"}}
	r := cajaRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/caja/abrir", map[string]interface{}{"saldo_inicial": 50000})
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.llamada = false
	w = doJSON(t, r, http.MethodPost, "/caja/abrir", map[string]interface{}{"saldo_inicial": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, svc.llamada)

	svc.err = service.ErrCajaYaAbierta
	w = doJSON(t, r, http.MethodPost, "/caja/abrir", map[string]interface{}{"saldo_inicial": 0})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCerrarCaja_Handler(t *testing.T) {
	svc := &stubCajaService{err: service.ErrCajaNoEncontrada}
	r := cajaRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/caja/xyz/cerrar", map[string]interface{}{"efectivo_fisico_contado": 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.llamada)

	w = doJSON(t, r, http.MethodPut, "/caja/"+uuid.NewString()+"/cerrar", map[string]interface{}{"efectivo_fisico_contado": 1000})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCajaActual_SinCaja(t *testing.T) {
	r := cajaRouter(&stubCajaService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/caja/actual", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}
