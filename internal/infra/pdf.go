package infra

// pdf.go renders receipts with go-pdf/fpdf:
//   - payment receipt for the student (A7, written to disk by the receipt worker)
//   - vault expense voucher (letter size, streamed by the HTTP handler)

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"

	"github.com/go-pdf/fpdf"
)

// GenerarReciboPagoPDF writes the receipt for a payment (Estudiante preloaded)
// into storagePath and returns the file path.
func GenerarReciboPagoPDF(p *model.Pago, escuela, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", p.ID.String()))

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(escuela), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Recibo de pago"), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 4, tr("Recibo N° "+p.ID.String()[:8]), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, p.FechaPago.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if p.Estudiante != nil {
		pdf.CellFormat(contentW, 4, tr(p.Estudiante.Nombre), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, tr("C.C. "+p.Estudiante.Cedula), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Detail ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.6
	col2 := contentW * 0.4
	pdf.MultiCell(contentW, 4, tr(p.Concepto), "", "L", false)
	for _, l := range p.Lineas() {
		pdf.CellFormat(col1, 4, tr(string(l.MetodoPago)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, tr(money.Formatear(l.Monto)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, tr(money.Formatear(p.Monto)), "", 1, "R", false, 0, "")

	if p.Estudiante != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1, 4, "Saldo pendiente:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, tr(money.Formatear(p.Estudiante.SaldoPendiente)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su pago!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerarReciboEgresoPDF renders the signed voucher for a vault EGRESO.
func GenerarReciboEgresoPDF(mov *model.MovimientoCajaFuerte, escuela string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(escuela), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, tr("Comprobante de egreso - Caja fuerte"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	fila := func(etiqueta, valor string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, tr(etiqueta), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-45, 7, tr(valor), "1", 1, "L", false, 0, "")
	}
	fila("Comprobante", mov.ID.String()[:8])
	fila("Fecha", mov.Fecha.Format("02/01/2006 15:04"))
	fila("Concepto", mov.Concepto)
	if mov.Categoria != "" {
		fila("Categoría", mov.Categoria)
	}
	fila("Método de pago", string(mov.MetodoPago))
	fila("Valor", money.Formatear(mov.Monto))
	if mov.Observaciones != nil && *mov.Observaciones != "" {
		fila("Observaciones", *mov.Observaciones)
	}

	if len(mov.InventarioDetalle) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 7, tr("Denominaciones entregadas"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, it := range mov.InventarioDetalle {
			pdf.CellFormat(contentW/3, 6, tr(money.Formatear(decimalDe(it.Denominacion))), "B", 0, "L", false, 0, "")
			pdf.CellFormat(contentW/3, 6, fmt.Sprintf("x %d", it.Cantidad), "B", 0, "C", false, 0, "")
			pdf.CellFormat(contentW/3, 6, tr(money.Formatear(it.Subtotal())), "B", 1, "R", false, 0, "")
		}
	}

	// ── Signatures ───────────────────────────────────────────────────────────
	pdf.Ln(30)
	y := pdf.GetY()
	half := contentW / 2
	pdf.Line(25, y, 20+half-5, y)
	pdf.Line(20+half+5, y, pageW-25, y)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half, 5, "Entrega", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Recibe", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
