package repository

import (
	"context"
	"time"

	"clubpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ListByDay(ctx context.Context, from, to time.Time) ([]model.Booking, error)

	// SumChargedInRange sums totalPaid over COBRADO bookings charged in the
	// window, the court-revenue side of the daily report.
	SumChargedInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ListChargedInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error)
}

type bookingRepo struct{ db *gorm.DB }

func NewBookingRepository(db *gorm.DB) BookingRepository { return &bookingRepo{db: db} }

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).Preload("Court").First(&b, "id = ?", id).Error
	return &b, err
}

func (r *bookingRepo) Update(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bookingRepo) ListByDay(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Court").
		Where("start_at BETWEEN ? AND ?", from, to).
		Order("start_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) SumChargedInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("status = ? AND charged_at BETWEEN ? AND ?", model.BookingCharged, from, to).
		Select("COALESCE(SUM(total_paid), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *bookingRepo) ListChargedInRange(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Court").
		Preload("PaymentMethod").
		Where("status = ? AND charged_at BETWEEN ? AND ?", model.BookingCharged, from, to).
		Order("charged_at ASC").
		Find(&bookings).Error
	return bookings, err
}
