package handler

import (
	"net/http"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/middleware"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
)

type EgresosHandler struct{ svc service.EgresoService }

func NewEgresosHandler(svc service.EgresoService) *EgresosHandler {
	return &EgresosHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un gasto pagado desde la caja abierta
// @Tags egresos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarEgresoRequest true "Gasto"
// @Success 201 {object} dto.EgresoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/egresos [post]
func (h *EgresosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarEgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEgreso(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EgresosHandler) ListarPorCaja(c *gin.Context) {
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
