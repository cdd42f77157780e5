package dto

import "github.com/shopspring/decimal"

type PurchaseRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int             `json:"qty"        validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"min=0"`
}

// AdjustRequest carries the direction in the sign of Qty; zero is rejected by
// the service.
type AdjustRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int             `json:"qty"        validate:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"min=0"`
}

// StockItem is one row of GET /v1/inventory/stock. Stock is clamped at zero
// for display; the ledger remains the authoritative signed sum.
type StockItem struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"       validate:"omitempty,oneof=PURCHASE SALE ADJUST"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Qty       int             `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Type      string          `json:"type"`
	RefSaleID *string         `json:"ref_sale_id"`
	CreatedAt string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
