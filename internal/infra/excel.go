package infra

import (
	"fmt"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const hojaMovimientos = "Movimientos"

func decimalDe(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ExportarMovimientosXLSX builds a workbook with one row per vault movement
// and a signed total at the bottom.
func ExportarMovimientosXLSX(movs []model.MovimientoCajaFuerte) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaMovimientos); err != nil {
		return nil, err
	}

	encabezados := []string{"Fecha", "Tipo", "Método", "Concepto", "Categoría", "Monto", "Caja", "Denominaciones"}
	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaMovimientos, celda, h); err != nil {
			return nil, err
		}
	}
	estiloEncabezado, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(hojaMovimientos, "A1", "H1", estiloEncabezado); err != nil {
		return nil, err
	}

	neto := decimal.Zero
	for i := range movs {
		m := &movs[i]
		fila := i + 2
		caja := ""
		if m.CajaID != nil {
			caja = m.CajaID.String()[:8]
		}
		valores := []interface{}{
			m.Fecha.Format("2006-01-02 15:04"), m.Tipo, string(m.MetodoPago), m.Concepto,
			m.Categoria, m.Delta().StringFixed(2), caja, resumenDesglose(m),
		}
		for col, v := range valores {
			celda, _ := excelize.CoordinatesToCellName(col+1, fila)
			if err := f.SetCellValue(hojaMovimientos, celda, v); err != nil {
				return nil, err
			}
		}
		neto = neto.Add(m.Delta())
	}

	filaTotal := len(movs) + 2
	if err := f.SetCellValue(hojaMovimientos, fmt.Sprintf("E%d", filaTotal), "NETO"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(hojaMovimientos, fmt.Sprintf("F%d", filaTotal), neto.StringFixed(2)); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(hojaMovimientos, "A", "A", 18)
	_ = f.SetColWidth(hojaMovimientos, "D", "D", 40)
	_ = f.SetColWidth(hojaMovimientos, "H", "H", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resumenDesglose(m *model.MovimientoCajaFuerte) string {
	s := ""
	for i, it := range m.InventarioDetalle {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%dx%d", it.Cantidad, it.Denominacion)
	}
	return s
}
