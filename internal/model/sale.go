package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is immutable once created: no edit or cancel is modeled for sales
// (unlike bookings). A sale, its items and the SALE ledger movements they
// generate are written in one transaction.
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time       `gorm:"index"`

	Items         []SaleItem     `gorm:"foreignKey:SaleID"`
	User          *User          `gorm:"foreignKey:UserID"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
}

// SaleItem stores the blended FIFO cost of the line in UnitCostSnapshot; the
// per-layer breakdown is preserved in the ledger movements tagged with the
// sale id.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty              int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCostSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
