package worker

// report_worker.go
// Processes report delivery jobs from QueueAlerts.
// Sends the daily report PDF to the requested address via SMTP.

import (
	"context"
	"encoding/json"

	"clubpos/internal/infra"

	"github.com/rs/zerolog/log"
)

const JobTypeReportEmail = "report_email"

// ReportEmailPayload is the job envelope for a report delivery.
type ReportEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ReportWorker mails generated report PDFs.
type ReportWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewReportWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *ReportWorker {
	return &ReportWorker{mailer: mailer, cb: cb}
}

// Process sends one report email with the PDF attached. The send goes through
// the shared SMTP circuit breaker and retries with backoff.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}
	if payload.To == "" {
		log.Warn().Msg("report_worker: empty recipient, skipping")
		return
	}

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.mailer.SendReport(payload.To, payload.Subject, payload.Body, payload.PDFPath)
		})
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.To).Msg("report_worker: failed to send report")
		return
	}
	log.Info().Str("to", payload.To).Msg("report_worker: report sent")
}
