package service

import (
	"context"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, query string) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		SalePrice:         req.SalePrice,
		PurchaseCost:      req.PurchaseCost,
		LowStockThreshold: req.LowStockThreshold,
		Active:            true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("producto %s", id)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx, query)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = *productToResponse(&products[i])
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("producto %s", id)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.PurchaseCost != nil {
		p.PurchaseCost = *req.PurchaseCost
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// Deactivate flags the product inactive instead of deleting it. The movement
// ledger keeps referencing it, so history and reports stay intact.
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFoundf("producto %s", id)
	}
	p.Active = false
	return s.products.Update(ctx, p)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		SalePrice:         p.SalePrice,
		PurchaseCost:      p.PurchaseCost,
		LowStockThreshold: p.LowStockThreshold,
		Active:            p.Active,
	}
}
