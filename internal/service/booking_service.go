package service

import (
	"context"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Agenda(ctx context.Context, date string) ([]dto.BookingResponse, error)
	Charge(ctx context.Context, id, userID uuid.UUID, req dto.ChargeBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	courts   repository.CourtRepository
	payments repository.PaymentMethodRepository
}

func NewBookingService(
	bookings repository.BookingRepository,
	courts repository.CourtRepository,
	payments repository.PaymentMethodRepository,
) BookingService {
	return &bookingService{bookings: bookings, courts: courts, payments: payments}
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		return nil, apierror.Validationf("court_id invalido")
	}
	court, err := s.courts.FindByID(ctx, courtID)
	if err != nil {
		return nil, apierror.NotFoundf("cancha %s", req.CourtID)
	}
	if !court.Active {
		return nil, apierror.Conflictf("la cancha %s esta inactiva", court.Name)
	}
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, apierror.Validationf("start_at invalido, se espera RFC 3339")
	}
	if req.Discount.GreaterThan(req.ListPrice) {
		return nil, apierror.Validationf("el descuento supera el precio de lista")
	}

	b := &model.Booking{
		CourtID:         courtID,
		StartAt:         startAt.UTC(),
		DurationMin:     req.DurationMin,
		ListPrice:       req.ListPrice,
		Discount:        req.Discount,
		Status:          model.BookingPending,
		CreatedByUserID: userID,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Court = court
	return bookingToResponse(b), nil
}

// Agenda lists all bookings whose start falls on the given day, any status.
func (s *bookingService) Agenda(ctx context.Context, date string) ([]dto.BookingResponse, error) {
	from, to, err := dayBounds(date)
	if err != nil {
		return nil, apierror.Validationf("fecha invalida")
	}
	bookings, err := s.bookings.ListByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = *bookingToResponse(&bookings[i])
	}
	return resp, nil
}

// Charge settles a pending booking. Only PENDIENTE bookings can be charged;
// charging is what makes the booking count as court revenue, timestamped now.
func (s *bookingService) Charge(ctx context.Context, id, userID uuid.UUID, req dto.ChargeBookingRequest) (*dto.BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("reserva %s", id)
	}
	if b.Status != model.BookingPending {
		return nil, apierror.Conflictf("la reserva ya esta %s", b.Status)
	}
	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, apierror.Validationf("payment_method_id invalido")
	}
	if _, err := s.payments.FindByID(ctx, methodID); err != nil {
		return nil, apierror.NotFoundf("metodo de pago %s", req.PaymentMethodID)
	}

	now := time.Now().UTC()
	total := req.TotalPaid
	b.Status = model.BookingCharged
	b.PaymentMethodID = &methodID
	b.TotalPaid = &total
	b.ChargedByUserID = &userID
	b.ChargedAt = &now
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return bookingToResponse(b), nil
}

// Cancel voids a pending booking. Charged bookings stay charged; money
// already taken needs an explicit correction, not a silent cancel.
func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("reserva %s", id)
	}
	if b.Status != model.BookingPending {
		return nil, apierror.Conflictf("la reserva ya esta %s", b.Status)
	}
	b.Status = model.BookingCancelled
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return bookingToResponse(b), nil
}

func bookingToResponse(b *model.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:          b.ID.String(),
		CourtID:     b.CourtID.String(),
		StartAt:     b.StartAt.Format(time.RFC3339),
		DurationMin: b.DurationMin,
		ListPrice:   b.ListPrice,
		Discount:    b.Discount,
		Status:      b.Status,
		TotalPaid:   b.TotalPaid,
	}
	if b.Court != nil {
		resp.Court = b.Court.Name
	}
	if b.ChargedAt != nil {
		s := b.ChargedAt.Format(time.RFC3339)
		resp.ChargedAt = &s
	}
	return resp
}
