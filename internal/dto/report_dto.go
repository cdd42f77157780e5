package dto

import "github.com/shopspring/decimal"

// DailyReport is the financial rollup of one day (or an arbitrary range).
// Profit = courtRevenue + productRevenue - COGS, where COGS is the FIFO
// cost basis snapshotted on each sale line.
type DailyReport struct {
	CourtRevenue   decimal.Decimal `json:"court_revenue"`
	ProductRevenue decimal.Decimal `json:"product_revenue"`
	COGS           decimal.Decimal `json:"cogs"`
	Profit         decimal.Decimal `json:"profit"`
}

type MethodTotal struct {
	MethodID   string          `json:"method_id"`
	Name       string          `json:"name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
}

// EmailReportRequest asks for the daily report PDF to be generated and mailed
// asynchronously.
type EmailReportRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to"   validate:"required,email"`
}

type Dashboard struct {
	CourtRevenue   decimal.Decimal `json:"court_revenue"`
	ProductRevenue decimal.Decimal `json:"product_revenue"`
	COGS           decimal.Decimal `json:"cogs"`
	Profit         decimal.Decimal `json:"profit"`
	TotalsByMethod []MethodTotal   `json:"totals_by_method"`
	TopProducts    []TopProduct    `json:"top_products"`
	LowStock       []StockItem     `json:"low_stock"`
}
