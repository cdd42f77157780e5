package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment method types seeded at install time (cmd/seedowner).
const (
	PaymentCash     = "EFECTIVO"
	PaymentDebit    = "DEBITO"
	PaymentCredit   = "CREDITO"
	PaymentTransfer = "TRANSFERENCIA"
	PaymentQR       = "QR"
)

type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
