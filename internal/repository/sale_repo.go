package repository

import (
	"context"
	"time"

	"clubpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductQty is a (product, quantity) aggregation row for the dashboard.
type ProductQty struct {
	ProductID uuid.UUID
	Qty       int
}

type SaleRepository interface {
	// CreateTx inserts the sale header and its items inside the caller's
	// transaction. Ledger movements are appended by the caller through
	// MovementRepository.CreateTx in the same transaction.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Sale, error)

	// Aggregations for reports and dashboard KPIs.
	SumTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ListItemsInRange(ctx context.Context, from, to time.Time) ([]model.SaleItem, error)
	TotalsByMethodInRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
	TopProductsInRange(ctx context.Context, from, to time.Time, limit int) ([]ProductQty, error)

	// InTx runs fn inside a database transaction; fn's writes through the
	// *Tx methods commit together or not at all.
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("PaymentMethod").
		Preload("User").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("PaymentMethod").
		Preload("User").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumTotalInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at BETWEEN ? AND ?", from, to).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *saleRepo) ListItemsInRange(ctx context.Context, from, to time.Time) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at BETWEEN ? AND ?", from, to).
		Find(&items).Error
	return items, err
}

func (r *saleRepo) TotalsByMethodInRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		PaymentMethodID uuid.UUID
		Total           decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method_id, COALESCE(SUM(total), 0) AS total").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("payment_method_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.PaymentMethodID] = row.Total
	}
	return totals, nil
}

func (r *saleRepo) TopProductsInRange(ctx context.Context, from, to time.Time, limit int) ([]ProductQty, error) {
	var rows []ProductQty
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("sale_items.product_id, COALESCE(SUM(sale_items.qty), 0) AS qty").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at BETWEEN ? AND ?", from, to).
		Group("sale_items.product_id").
		Order("qty DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
