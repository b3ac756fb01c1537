package service

import (
	"encoding/json"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/dto"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func montosDesde(a model.Acumulado) dto.MontosPorMetodo {
	return dto.MontosPorMetodo{
		Efectivo:              a.Efectivo,
		Nequi:                 a.Nequi,
		Daviplata:             a.Daviplata,
		TransferenciaBancaria: a.TransferenciaBancaria,
		TarjetaDebito:         a.TarjetaDebito,
		TarjetaCredito:        a.TarjetaCredito,
		Credismart:            a.Credismart,
		Sistecredito:          a.Sistecredito,
		Total:                 a.Total(),
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func cajaToResponse(c *model.Caja, numPagos, numEgresos int64) *dto.CajaResponse {
	return &dto.CajaResponse{
		ID:                    c.ID.String(),
		Estado:                c.Estado,
		UsuarioAperturaID:     c.UsuarioAperturaID.String(),
		UsuarioCierreID:       idString(c.UsuarioCierreID),
		FechaApertura:         c.FechaApertura,
		FechaCierre:           c.FechaCierre,
		SaldoInicial:          c.SaldoInicial,
		Ingresos:              montosDesde(c.Ingresos),
		Egresos:               montosDesde(c.Egresos),
		TotalIngresos:         c.TotalIngresos(),
		TotalEgresos:          c.TotalEgresos(),
		TotalTransferencias:   c.Ingresos.Familia(model.FamiliaTransferencia),
		TotalTarjetas:         c.Ingresos.Familia(model.FamiliaTarjeta),
		TotalCreditos:         c.TotalCreditos(),
		EfectivoEnCaja:        c.EfectivoEsperado(),
		EfectivoTeorico:       c.EfectivoTeorico,
		EfectivoFisico:        c.EfectivoFisico,
		Diferencia:            c.Diferencia,
		ObservacionesApertura: c.ObservacionesApertura,
		ObservacionesCierre:   c.ObservacionesCierre,
		NumPagos:              numPagos,
		NumEgresos:            numEgresos,
	}
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	resp := dto.PagoResponse{
		ID:             p.ID.String(),
		EstudianteID:   p.EstudianteID.String(),
		CajaID:         p.CajaID.String(),
		Concepto:       p.Concepto,
		Monto:          p.Monto,
		EsPagoMixto:    p.EsPagoMixto,
		Estado:         p.Estado,
		ReferenciaPago: p.ReferenciaPago,
		Observaciones:  p.Observaciones,
		FechaPago:      p.FechaPago,
		UsuarioID:      p.UsuarioID.String(),
		Detalles:       make([]dto.DetallePagoResponse, 0, len(p.Detalles)),
	}
	if p.MetodoPago != nil {
		m := string(*p.MetodoPago)
		resp.MetodoPago = &m
	}
	for _, d := range p.Detalles {
		resp.Detalles = append(resp.Detalles, dto.DetallePagoResponse{
			MetodoPago: string(d.MetodoPago), Monto: d.Monto, Referencia: d.Referencia,
		})
	}
	if p.Estudiante != nil {
		resp.EstudianteNombre = p.Estudiante.Nombre
		resp.EstudianteCedula = p.Estudiante.Cedula
	}
	return resp
}

func egresoToResponse(e *model.Egreso) dto.EgresoResponse {
	return dto.EgresoResponse{
		ID:            e.ID.String(),
		CajaID:        e.CajaID.String(),
		Concepto:      e.Concepto,
		Categoria:     string(e.Categoria),
		Monto:         e.Monto,
		MetodoPago:    string(e.MetodoPago),
		NumeroFactura: e.NumeroFactura,
		Observaciones: e.Observaciones,
		Fecha:         e.Fecha,
		UsuarioID:     e.UsuarioID.String(),
	}
}

func movimientoToResponse(m *model.MovimientoCajaFuerte) dto.MovimientoCajaFuerteResponse {
	return dto.MovimientoCajaFuerteResponse{
		ID:                m.ID.String(),
		Tipo:              m.Tipo,
		MetodoPago:        string(m.MetodoPago),
		Concepto:          m.Concepto,
		Categoria:         m.Categoria,
		Monto:             m.Monto,
		Fecha:             m.Fecha,
		Observaciones:     m.Observaciones,
		InventarioDetalle: m.InventarioDetalle,
		CajaID:            idString(m.CajaID),
		PagoID:            idString(m.PagoID),
		UsuarioID:         m.UsuarioID.String(),
	}
}

func resumenToResponse(cf *model.CajaFuerte) *dto.ResumenCajaFuerteResponse {
	return &dto.ResumenCajaFuerteResponse{
		ID:                  cf.ID.String(),
		Saldos:              montosDesde(cf.Saldos),
		SaldoTotal:          cf.SaldoTotal(),
		SaldoLiquido:        cf.SaldoLiquido(),
		SaldoCreditos:       cf.Saldos.Familia(model.FamiliaCredito),
		UltimaActualizacion: cf.UpdatedAt,
	}
}

// inventarioToResponse zero-fills every denomination from a count map.
func inventarioToResponse(denominaciones []int64, conteo map[int64]int64) *dto.InventarioResponse {
	resp := &dto.InventarioResponse{
		Items:         make([]dto.InventarioItemResponse, 0, len(denominaciones)),
		TotalEfectivo: decimal.Zero,
	}
	for _, den := range denominaciones {
		n := conteo[den]
		sub := decimal.NewFromInt(den).Mul(decimal.NewFromInt(n))
		resp.Items = append(resp.Items, dto.InventarioItemResponse{Denominacion: den, Cantidad: n, Subtotal: sub})
		resp.TotalPiezas += n
		resp.TotalEfectivo = resp.TotalEfectivo.Add(sub)
	}
	return resp
}

func auditoriaToResponse(a *model.Auditoria) dto.AuditoriaResponse {
	r := dto.AuditoriaResponse{
		ID:        a.ID.String(),
		Entidad:   a.Entidad,
		EntidadID: a.EntidadID.String(),
		Accion:    a.Accion,
		UsuarioID: idString(a.UsuarioID),
		CreatedAt: a.CreatedAt,
	}
	if a.Antes != nil {
		r.Antes = json.RawMessage(*a.Antes)
	}
	if a.Despues != nil {
		r.Despues = json.RawMessage(*a.Despues)
	}
	return r
}
