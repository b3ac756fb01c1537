package handler

import (
	"net/http"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/middleware"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Registrar godoc
// @Summary Registra un pago de estudiante en la caja abierta
// @Tags pagos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarPagoRequest true "Pago simple o mixto"
// @Success 201 {object} dto.PagoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPorCaja godoc
// @Summary Pagos registrados en una caja
// @Tags pagos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de caja"
// @Success 200 {array} dto.PagoResponse
// @Router /v1/caja/{id}/pagos [get]
func (h *PagosHandler) ListarPorCaja(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorCaja(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoFinanciero godoc
// @Summary Estado de cuenta de un estudiante por cédula
// @Tags pagos
// @Produce json
// @Security BearerAuth
// @Param cedula path string true "Cédula"
// @Success 200 {object} dto.EstadoFinancieroResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/estudiantes/{cedula} [get]
func (h *PagosHandler) EstadoFinanciero(c *gin.Context) {
	resp, err := h.svc.EstadoFinanciero(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
