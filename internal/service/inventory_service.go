package service

import (
	"context"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"
	"clubpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InventoryService owns the movement ledger: single-movement registrations
// (purchase, adjustment), the stock read path, and FIFO withdrawal costing
// for the sale orchestrator.
type InventoryService interface {
	Purchase(ctx context.Context, userID uuid.UUID, req dto.PurchaseRequest) error
	Adjust(ctx context.Context, userID uuid.UUID, req dto.AdjustRequest) error
	Stock(ctx context.Context) ([]dto.StockItem, error)
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	CostWithdrawal(ctx context.Context, productID uuid.UUID, qty int) ([]CostLayer, error)
}

type inventoryService struct {
	movements repository.MovementRepository
	stocks    repository.StockRepository
	products  repository.ProductRepository
	fifo      *FIFOEngine
	sync      StockSyncService
}

func NewInventoryService(
	movements repository.MovementRepository,
	stocks repository.StockRepository,
	products repository.ProductRepository,
	sync StockSyncService,
) InventoryService {
	return &inventoryService{
		movements: movements,
		stocks:    stocks,
		products:  products,
		fifo:      NewFIFOEngine(movements),
		sync:      sync,
	}
}

func (s *inventoryService) Purchase(ctx context.Context, userID uuid.UUID, req dto.PurchaseRequest) error {
	if req.Qty <= 0 {
		return apierror.Validationf("qty debe ser > 0")
	}
	if req.UnitCost.IsNegative() {
		return apierror.Validationf("unit_cost no puede ser negativo")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return apierror.Validationf("product_id invalido")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return apierror.NotFoundf("producto %s", req.ProductID)
	}

	mv := &model.InventoryMovement{
		ProductID: productID,
		Qty:       req.Qty,
		UnitCost:  req.UnitCost,
		Type:      model.MovementPurchase,
		UserID:    userID,
	}
	if err := s.movements.Create(ctx, mv); err != nil {
		return err
	}
	s.resyncQuietly(ctx, productID)
	return nil
}

func (s *inventoryService) Adjust(ctx context.Context, userID uuid.UUID, req dto.AdjustRequest) error {
	if req.Qty == 0 {
		return apierror.Validationf("qty no puede ser 0")
	}
	if req.UnitCost.IsNegative() {
		return apierror.Validationf("unit_cost no puede ser negativo")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return apierror.Validationf("product_id invalido")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return apierror.NotFoundf("producto %s", req.ProductID)
	}

	mv := &model.InventoryMovement{
		ProductID: productID,
		Qty:       req.Qty,
		UnitCost:  req.UnitCost,
		Type:      model.MovementAdjust,
		UserID:    userID,
	}
	if err := s.movements.Create(ctx, mv); err != nil {
		return err
	}
	s.resyncQuietly(ctx, productID)
	return nil
}

// Stock reads the cache; when the cache is not yet populated it falls back to
// a one-off recompute from the ledger. Negative values are clamped to zero
// for display; they can arise from concurrent oversell and are not treated
// as a fatal integrity violation.
func (s *inventoryService) Stock(ctx context.Context) ([]dto.StockItem, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stockMap := make(map[uuid.UUID]int, len(products))
	cached, err := s.stocks.ListAll(ctx)
	if err == nil && len(cached) > 0 {
		for _, row := range cached {
			stockMap[row.ProductID] = row.Stock
		}
	} else {
		// Lazy fallback: cache empty or unreadable, recompute from the ledger.
		sums, err := s.movements.SumAll(ctx)
		if err != nil {
			return nil, err
		}
		stockMap = sums
	}

	items := make([]dto.StockItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.StockItem{
			ProductID:         p.ID.String(),
			Name:              p.Name,
			Stock:             max(stockMap[p.ID], 0),
			LowStockThreshold: p.LowStockThreshold,
		})
	}
	return items, nil
}

func (s *inventoryService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	repoFilter := repository.MovementFilter{
		Type:  filter.Type,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, apierror.Validationf("product_id invalido")
		}
		repoFilter.ProductID = &id
	}
	if repoFilter.Page < 1 {
		repoFilter.Page = 1
	}
	if repoFilter.Limit < 1 {
		repoFilter.Limit = 50
	}

	movements, total, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := dto.MovementResponse{
			ID:        m.ID.String(),
			ProductID: m.ProductID.String(),
			Qty:       m.Qty,
			UnitCost:  m.UnitCost,
			Type:      m.Type,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
		if m.Product != nil {
			resp.Product = m.Product.Name
		}
		if m.RefSaleID != nil {
			ref := m.RefSaleID.String()
			resp.RefSaleID = &ref
		}
		data = append(data, resp)
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  repoFilter.Page,
		Limit: repoFilter.Limit,
	}, nil
}

func (s *inventoryService) CostWithdrawal(ctx context.Context, productID uuid.UUID, qty int) ([]CostLayer, error) {
	return s.fifo.CostWithdrawal(ctx, productID, qty)
}

// resyncQuietly refreshes the cache after a committed movement. Failures are
// logged and swallowed: the ledger is authoritative and the write must not
// fail because stock visibility lagged.
func (s *inventoryService) resyncQuietly(ctx context.Context, productID uuid.UUID) {
	if _, err := s.sync.Resync(ctx, productID); err != nil {
		log.Warn().Err(err).Str("product_id", productID.String()).Msg("stock cache resync failed")
	}
}
