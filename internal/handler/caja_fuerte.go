package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/middleware"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CajaFuerteHandler struct{ svc service.CajaFuerteService }

func NewCajaFuerteHandler(svc service.CajaFuerteService) *CajaFuerteHandler {
	return &CajaFuerteHandler{svc: svc}
}

// Resumen godoc
// @Summary Saldos de la caja fuerte por método de pago
// @Tags caja-fuerte
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenCajaFuerteResponse
// @Router /v1/caja-fuerte/resumen [get]
func (h *CajaFuerteHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Movimientos de la caja fuerte
// @Tags caja-fuerte
// @Produce json
// @Security BearerAuth
// @Param tipo query string false "INGRESO | EGRESO"
// @Param metodo_pago query string false "Método de pago"
// @Param fecha_inicio query string false "YYYY-MM-DD"
// @Param fecha_fin query string false "YYYY-MM-DD"
// @Param skip query int false "Desplazamiento"
// @Param limit query int false "Máximo 200"
// @Success 200 {object} dto.MovimientoCajaFuerteListResponse
// @Router /v1/caja-fuerte/movimientos [get]
func (h *CajaFuerteHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoCajaFuerteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearMovimiento godoc
// @Summary Registra un ingreso o egreso manual en la caja fuerte
// @Description Los movimientos en efectivo requieren el desglose de denominaciones.
// @Tags caja-fuerte
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoCajaFuerteRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoCajaFuerteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 423 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos [post]
func (h *CajaFuerteHandler) CrearMovimiento(c *gin.Context) {
	var req dto.MovimientoCajaFuerteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMovimiento(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarMovimiento godoc
// @Summary Corrige un movimiento revirtiendo su efecto y aplicando el nuevo
// @Tags caja-fuerte
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Param body body dto.ActualizarMovimientoCajaFuerteRequest true "Campos a cambiar"
// @Success 200 {object} dto.MovimientoCajaFuerteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos/{id} [put]
func (h *CajaFuerteHandler) ActualizarMovimiento(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMovimientoCajaFuerteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarMovimiento(c.Request.Context(), id, middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarMovimiento godoc
// @Summary Elimina un movimiento revirtiendo su efecto
// @Tags caja-fuerte
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos/{id} [delete]
func (h *CajaFuerteHandler) EliminarMovimiento(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id, middleware.UsuarioID(c), nil); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EliminarConDesglose godoc
// @Summary Elimina un movimiento en efectivo sin desglose guardado, indicando las denominaciones a revertir
// @Tags caja-fuerte
// @Accept json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Param body body dto.EliminarMovimientoRequest true "Denominaciones"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos/{id}/eliminar [post]
func (h *CajaFuerteHandler) EliminarConDesglose(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.EliminarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id, middleware.UsuarioID(c), req.InventarioItems); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReciboPDF godoc
// @Summary Comprobante PDF de un egreso
// @Tags caja-fuerte
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos/{id}/recibo-pdf [get]
func (h *CajaFuerteHandler) ReciboPDF(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	pdf, nombre, err := h.svc.ReciboEgresoPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Historial godoc
// @Summary Auditoría de un movimiento de la caja fuerte
// @Tags caja-fuerte
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de movimiento"
// @Success 200 {array} dto.AuditoriaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja-fuerte/movimientos/{id}/auditoria [get]
func (h *CajaFuerteHandler) Historial(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.HistorialMovimiento(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta los movimientos filtrados a Excel
// @Tags caja-fuerte
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /v1/caja-fuerte/movimientos/exportar [get]
func (h *CajaFuerteHandler) Exportar(c *gin.Context) {
	var filter dto.MovimientoCajaFuerteFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, err := h.svc.ExportarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("movimientos_caja_fuerte_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, mimeXLSX, data)
}

// ObtenerInventario godoc
// @Summary Conteo de billetes y monedas en la caja fuerte
// @Tags caja-fuerte
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InventarioResponse
// @Router /v1/caja-fuerte/inventario [get]
func (h *CajaFuerteHandler) ObtenerInventario(c *gin.Context) {
	resp, err := h.svc.ObtenerInventario(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarInventario godoc
// @Summary Recuento completo del inventario de efectivo
// @Tags caja-fuerte
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ActualizarInventarioRequest true "Conteo por denominación"
// @Success 200 {object} dto.InventarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja-fuerte/inventario [put]
func (h *CajaFuerteHandler) ActualizarInventario(c *gin.Context) {
	var req dto.ActualizarInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarInventario(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
