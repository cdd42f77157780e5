package repository

import (
	"context"

	"clubpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourtRepository interface {
	Create(ctx context.Context, c *model.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Court, error)
	ListActive(ctx context.Context) ([]model.Court, error)
}

type courtRepo struct{ db *gorm.DB }

func NewCourtRepository(db *gorm.DB) CourtRepository { return &courtRepo{db: db} }

func (r *courtRepo) Create(ctx context.Context, c *model.Court) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courtRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Court, error) {
	var c model.Court
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *courtRepo) ListActive(ctx context.Context) ([]model.Court, error) {
	var courts []model.Court
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&courts).Error
	return courts, err
}
