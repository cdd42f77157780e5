package service

import (
	"context"

	"clubpos/internal/dto"
	"clubpos/internal/repository"
)

// CatalogService exposes the small reference catalogs the frontend needs to
// render forms: active courts and the fixed payment methods.
type CatalogService interface {
	Courts(ctx context.Context) ([]dto.CourtResponse, error)
	PaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error)
}

type catalogService struct {
	courts   repository.CourtRepository
	payments repository.PaymentMethodRepository
}

func NewCatalogService(courts repository.CourtRepository, payments repository.PaymentMethodRepository) CatalogService {
	return &catalogService{courts: courts, payments: payments}
}

func (s *catalogService) Courts(ctx context.Context) ([]dto.CourtResponse, error) {
	courts, err := s.courts.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CourtResponse, len(courts))
	for i, c := range courts {
		resp[i] = dto.CourtResponse{ID: c.ID.String(), Name: c.Name}
	}
	return resp, nil
}

func (s *catalogService) PaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	methods, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentMethodResponse, len(methods))
	for i, m := range methods {
		resp[i] = dto.PaymentMethodResponse{ID: m.ID.String(), Name: m.Name, Type: m.Type}
	}
	return resp, nil
}
