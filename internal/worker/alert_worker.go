package worker

// alert_worker.go
// Processes low-stock alert jobs from QueueAlerts.
// Sends a notification email via SMTP through the circuit breaker, so a
// downed mail server cannot pile up blocked goroutines.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubpos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const JobTypeLowStock = "low_stock"

// alertDedupeTTL suppresses repeat alerts for the same product. A product
// that stays under threshold all day produces one email, not one per sale.
const alertDedupeTTL = 6 * time.Hour

// LowStockPayload is the job envelope sent to QueueAlerts.
type LowStockPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// AlertWorker sends low-stock notification emails.
type AlertWorker struct {
	mailer  *infra.Mailer
	cb      *infra.CircuitBreaker
	rdb     *redis.Client
	alertTo string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, alertTo string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, rdb: rdb, alertTo: alertTo}
}

// Process sends one low-stock email, deduplicated per product via a Redis
// SETNX key. Failed sends retry with backoff and land in the DLQ after the
// last attempt.
func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LowStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.alertTo == "" {
		log.Warn().Msg("alert_worker: no recipient configured, skipping")
		return
	}

	dedupeKey := "alert:low_stock:" + payload.ProductID
	set, err := w.rdb.SetNX(ctx, dedupeKey, 1, alertDedupeTTL).Result()
	if err == nil && !set {
		log.Debug().Str("product_id", payload.ProductID).Msg("alert_worker: alert already sent recently")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Name)
	body := fmt.Sprintf(
		"El producto %s quedo con %d unidades (umbral: %d).\nReponer stock a la brevedad.",
		payload.Name, payload.Stock, payload.Threshold,
	)

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.mailer.SendAlert(w.alertTo, subject, body)
		})
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("product_id", payload.ProductID).Msg("alert_worker: failed to send alert")
		SendToDLQ(ctx, w.rdb, QueueAlerts, JobTypeLowStock, raw, sendErr.Error(), 3)
		// Let the next resync re-trigger the alert
		w.rdb.Del(ctx, dedupeKey)
		return
	}
	log.Info().
		Str("product", payload.Name).
		Int("stock", payload.Stock).
		Msg("alert_worker: low stock alert sent")
}
