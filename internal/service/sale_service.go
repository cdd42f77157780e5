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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListByRange(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
}

type saleService struct {
	sales     repository.SaleRepository
	movements repository.MovementRepository
	products  repository.ProductRepository
	payments  repository.PaymentMethodRepository
	inventory InventoryService
	sync      StockSyncService
}

func NewSaleService(
	sales repository.SaleRepository,
	movements repository.MovementRepository,
	products repository.ProductRepository,
	payments repository.PaymentMethodRepository,
	inventory InventoryService,
	sync StockSyncService,
) SaleService {
	return &saleService{
		sales:     sales,
		movements: movements,
		products:  products,
		payments:  payments,
		inventory: inventory,
		sync:      sync,
	}
}

// Create registers a sale as one atomic unit: header, line items, and one
// negative SALE movement per FIFO layer consumed. Validation and costing run
// before the transaction opens, so any validation or insufficient-stock
// failure aborts with zero writes. The post-commit cache refresh is
// best-effort; its failure never rolls back the sale.
func (s *saleService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validationf("items requerido")
	}
	paymentMethodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, apierror.Validationf("payment_method_id invalido")
	}
	if _, err := s.payments.FindByID(ctx, paymentMethodID); err != nil {
		return nil, apierror.NotFoundf("metodo de pago %s", req.PaymentMethodID)
	}

	type preparedLine struct {
		productID uuid.UUID
		name      string
		qty       int
		unitPrice decimal.Decimal
		snapshot  decimal.Decimal
		lineTotal decimal.Decimal
		layers    []CostLayer
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Qty <= 0 {
			return nil, apierror.Validationf("qty debe ser > 0")
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validationf("product_id invalido")
		}
		productIDs = append(productIDs, id)
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	prepared := make([]preparedLine, 0, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		p, ok := productMap[productIDs[i]]
		if !ok {
			return nil, apierror.NotFoundf("producto %s", item.ProductID)
		}

		layers, err := s.inventory.CostWithdrawal(ctx, p.ID, item.Qty)
		if err != nil {
			return nil, err
		}

		lineTotal := p.SalePrice.Mul(decimal.NewFromInt(int64(item.Qty)))
		prepared = append(prepared, preparedLine{
			productID: p.ID,
			name:      p.Name,
			qty:       item.Qty,
			unitPrice: p.SalePrice,
			snapshot:  BlendedCost(layers, item.Qty),
			lineTotal: lineTotal,
			layers:    layers,
		})
		total = total.Add(lineTotal)
	}

	sale := model.Sale{
		UserID:          userID,
		PaymentMethodID: paymentMethodID,
		Total:           total,
	}
	for _, line := range prepared {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:        line.productID,
			Qty:              line.qty,
			UnitPrice:        line.unitPrice,
			UnitCostSnapshot: line.snapshot,
			LineTotal:        line.lineTotal,
		})
	}

	txErr := s.sales.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}
		// One ledger row per layer actually consumed: a single line spanning
		// two cost layers produces two SALE movements.
		for _, line := range prepared {
			for _, layer := range line.layers {
				saleRef := sale.ID
				mv := &model.InventoryMovement{
					ProductID: line.productID,
					Qty:       -layer.Qty,
					UnitCost:  layer.UnitCost,
					Type:      model.MovementSale,
					RefSaleID: &saleRef,
					UserID:    userID,
				}
				if err := s.movements.CreateTx(tx, mv); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit, best-effort: refresh the cache for each distinct product.
	seen := make(map[uuid.UUID]bool, len(prepared))
	for _, line := range prepared {
		if seen[line.productID] {
			continue
		}
		seen[line.productID] = true
		if _, err := s.sync.Resync(ctx, line.productID); err != nil {
			log.Warn().Err(err).Str("product_id", line.productID.String()).Msg("post-sale stock resync failed")
		}
	}

	return s.GetByID(ctx, sale.ID)
}

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("venta %s", id)
	}
	return saleToResponse(sale), nil
}

// ListByRange returns sales inside [from, to] day bounds, defaulting to today.
func (s *saleService) ListByRange(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	from, to, err := rangeBounds(filter.From, filter.To)
	if err != nil {
		return nil, apierror.Validationf("rango de fechas invalido")
	}

	sales, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:        item.ProductID.String(),
			Product:          name,
			Qty:              item.Qty,
			UnitPrice:        item.UnitPrice,
			UnitCostSnapshot: item.UnitCostSnapshot,
			LineTotal:        item.LineTotal,
		})
	}
	resp := &dto.SaleResponse{
		ID:        sale.ID.String(),
		UserID:    sale.UserID.String(),
		Total:     sale.Total,
		Items:     items,
		CreatedAt: sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.User != nil {
		resp.Username = sale.User.Username
	}
	if sale.PaymentMethod != nil {
		resp.PaymentMethod = sale.PaymentMethod.Name
	}
	return resp
}
