package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty"        validate:"required,min=1"`
}

type CreateSaleRequest struct {
	PaymentMethodID string            `json:"payment_method_id" validate:"required,uuid"`
	Items           []SaleItemRequest `json:"items"             validate:"required,min=1,dive"`
}

type SaleFilter struct {
	From string `form:"from"` // YYYY-MM-DD; empty = today
	To   string `form:"to"`   // YYYY-MM-DD; empty = from (single day)
}

type SaleItemResponse struct {
	ProductID        string          `json:"product_id"`
	Product          string          `json:"product"`
	Qty              int             `json:"qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Username      string             `json:"username"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     string             `json:"created_at"`
}
