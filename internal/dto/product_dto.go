package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name              string          `json:"name"                validate:"required,min=2"`
	SKU               *string         `json:"sku"                 validate:"omitempty,min=2"`
	SalePrice         decimal.Decimal `json:"sale_price"          validate:"required,min=0"`
	PurchaseCost      decimal.Decimal `json:"purchase_cost"       validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
	Active            *bool           `json:"active"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"                validate:"omitempty,min=2"`
	SKU               *string          `json:"sku"                 validate:"omitempty,min=2"`
	SalePrice         *decimal.Decimal `json:"sale_price"          validate:"omitempty,min=0"`
	PurchaseCost      *decimal.Decimal `json:"purchase_cost"       validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Active            *bool            `json:"active"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               *string         `json:"sku"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	PurchaseCost      decimal.Decimal `json:"purchase_cost"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
}
