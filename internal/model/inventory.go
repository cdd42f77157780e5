package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. ADJUST carries the direction in the sign of Qty.
const (
	MovementPurchase = "PURCHASE"
	MovementSale     = "SALE"
	MovementAdjust   = "ADJUST"
)

// InventoryMovement is one immutable entry of the inventory ledger. The signed
// sum of Qty over all movements of a product is its true current stock.
// Rows are never updated or deleted; corrections are new ADJUST movements.
type InventoryMovement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty       int             `gorm:"not null"` // positive = stock in, negative = stock out
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Type      string          `gorm:"not null"` // PURCHASE | SALE | ADJUST
	RefSaleID *uuid.UUID      `gorm:"type:uuid;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time       `gorm:"index"` // FIFO ordering key

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }

// InventoryStock is the denormalized one-row-per-product stock cache. It is
// never authoritative: it is re-derivable from InventoryMovement at any time
// and may lag behind the ledger between a commit and the next resync.
type InventoryStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Stock     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (InventoryStock) TableName() string { return "inventory_stocks" }
