package repository

import (
	"context"

	"clubpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter defines filters for browsing the inventory ledger.
type MovementFilter struct {
	ProductID *uuid.UUID
	Type      string
	Page      int
	Limit     int
}

// MovementRepository is the access layer of the inventory ledger. The ledger
// is append-only: there is deliberately no Update or Delete here.
type MovementRepository interface {
	Create(ctx context.Context, m *model.InventoryMovement) error
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error

	// ListIncoming returns PURCHASE and positive ADJUST movements ordered by
	// creation time ascending, the FIFO cost layers of a product.
	ListIncoming(ctx context.Context, productID uuid.UUID) ([]model.InventoryMovement, error)
	// ListOutgoing returns SALE and negative ADJUST movements ordered by
	// creation time ascending, the historical withdrawals to replay.
	ListOutgoing(ctx context.Context, productID uuid.UUID) ([]model.InventoryMovement, error)

	SumByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	SumAll(ctx context.Context) (map[uuid.UUID]int, error)

	List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) ListIncoming(ctx context.Context, productID uuid.UUID) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND type IN ? AND qty > 0", productID,
			[]string{model.MovementPurchase, model.MovementAdjust}).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) ListOutgoing(ctx context.Context, productID uuid.UUID) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND type IN ? AND qty < 0", productID,
			[]string{model.MovementSale, model.MovementAdjust}).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) SumByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *movementRepo) SumAll(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		ProductID uuid.UUID
		Total     int
	}
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Select("product_id, COALESCE(SUM(qty), 0) AS total").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		sums[row.ProductID] = row.Total
	}
	return sums, nil
}

func (r *movementRepo) List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.InventoryMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}
