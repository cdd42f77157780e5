package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry sold at the club counter. PurchaseCost is the
// reference cost used when registering purchases; the real cost basis of each
// unit lives in the inventory ledger (see InventoryMovement).
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string          `gorm:"index;not null"`
	SKU               *string         `gorm:"uniqueIndex"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PurchaseCost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
