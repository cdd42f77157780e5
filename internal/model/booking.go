package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking statuses. PENDIENTE→COBRADO and PENDIENTE→CANCELADO are the only
// valid transitions; both are terminal.
const (
	BookingPending   = "PENDIENTE"
	BookingCharged   = "COBRADO"
	BookingCancelled = "CANCELADO"
)

type Booking struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourtID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartAt     time.Time       `gorm:"not null;index"`
	DurationMin int             `gorm:"not null"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status      string          `gorm:"not null;default:'PENDIENTE';index"`

	PaymentMethodID *uuid.UUID       `gorm:"type:uuid"`
	TotalPaid       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedByUserID uuid.UUID        `gorm:"type:uuid;not null"`
	ChargedByUserID *uuid.UUID       `gorm:"type:uuid"`
	ChargedAt       *time.Time       `gorm:"index"`
	CreatedAt       time.Time

	Court         *Court         `gorm:"foreignKey:CourtID"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
}
