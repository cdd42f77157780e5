package dto

import "github.com/shopspring/decimal"

type CreateBookingRequest struct {
	CourtID     string          `json:"court_id"     validate:"required,uuid"`
	StartAt     string          `json:"start_at"     validate:"required"` // RFC 3339
	DurationMin int             `json:"duration_min" validate:"required,min=30,max=240"`
	ListPrice   decimal.Decimal `json:"list_price"   validate:"required,min=0"`
	Discount    decimal.Decimal `json:"discount"     validate:"min=0"`
}

type ChargeBookingRequest struct {
	PaymentMethodID string          `json:"payment_method_id" validate:"required,uuid"`
	TotalPaid       decimal.Decimal `json:"total_paid"        validate:"required,min=0"`
}

type BookingResponse struct {
	ID          string           `json:"id"`
	CourtID     string           `json:"court_id"`
	Court       string           `json:"court"`
	StartAt     string           `json:"start_at"`
	DurationMin int              `json:"duration_min"`
	ListPrice   decimal.Decimal  `json:"list_price"`
	Discount    decimal.Decimal  `json:"discount"`
	Status      string           `json:"status"`
	TotalPaid   *decimal.Decimal `json:"total_paid,omitempty"`
	ChargedAt   *string          `json:"charged_at,omitempty"`
}
