package worker

// recibo_worker.go
// Renders the PDF receipt of a student payment and, when the student has an
// email on file, queues it for delivery.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/infra"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/money"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReciboJobPayload struct {
	PagoID string `json:"pago_id"`
}

type emailEncolador interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type ReciboWorker struct {
	pagos       repository.PagoRepository
	emails      emailEncolador
	storagePath string
	escuela     string
}

func NewReciboWorker(pagos repository.PagoRepository, dispatcher *Dispatcher, storagePath, escuela string) *ReciboWorker {
	w := &ReciboWorker{pagos: pagos, storagePath: storagePath, escuela: escuela}
	if dispatcher != nil {
		w.emails = dispatcher
	}
	return w
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// malformed payloads never succeed on retry
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	pagoID, err := uuid.Parse(payload.PagoID)
	if err != nil {
		log.Error().Str("pago_id", payload.PagoID).Msg("recibo_worker: invalid pago_id")
		return nil
	}

	pago, err := w.pagos.FindByID(ctx, pagoID)
	if err != nil {
		return fmt.Errorf("recibo_worker: load pago: %w", err)
	}
	pdfPath, err := infra.GenerarReciboPagoPDF(pago, w.escuela, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", pdfPath).Str("pago_id", payload.PagoID).Msg("recibo_worker: PDF generated")

	if w.emails == nil || pago.Estudiante == nil || pago.Estudiante.Email == nil || *pago.Estudiante.Email == "" {
		return nil
	}
	job := EmailJobPayload{
		ToEmail: *pago.Estudiante.Email,
		Subject: fmt.Sprintf("%s - Recibo de pago %s", w.escuela, pago.ID.String()[:8]),
		Body: fmt.Sprintf("Hola %s,\nAdjunto encontrarás el recibo de tu pago por %s.\nSaldo pendiente: %s",
			pago.Estudiante.Nombre, money.Formatear(pago.Monto), money.Formatear(pago.Estudiante.SaldoPendiente)),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: failed to enqueue email")
	}
	return nil
}
