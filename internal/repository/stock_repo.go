package repository

import (
	"context"
	"time"

	"clubpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository accesses the denormalized stock cache. The cache is derived
// state; writers go through upsert-by-product so rebuilds are idempotent.
type StockRepository interface {
	Upsert(ctx context.Context, productID uuid.UUID, stock int) error
	ListAll(ctx context.Context) ([]model.InventoryStock, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Upsert(ctx context.Context, productID uuid.UUID, stock int) error {
	row := model.InventoryStock{ProductID: productID, Stock: stock, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
	}).Create(&row).Error
}

func (r *stockRepo) ListAll(ctx context.Context) ([]model.InventoryStock, error) {
	var stocks []model.InventoryStock
	err := r.db.WithContext(ctx).Find(&stocks).Error
	return stocks, err
}
