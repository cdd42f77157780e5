package service

import (
	"context"
	"sort"
	"time"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/repository"

	"github.com/google/uuid"
)

const (
	dashboardTopProducts = 5
	dashboardLowStockMax = 10
)

// DashboardService aggregates the KPIs for the owner landing page: the daily
// rollup, totals per payment method, best-selling products, and the products
// closest to running out.
type DashboardService interface {
	Build(ctx context.Context, date string) (*dto.Dashboard, error)
}

type dashboardService struct {
	report   *reportService
	sales    repository.SaleRepository
	products repository.ProductRepository
	stocks   repository.StockRepository
}

func NewDashboardService(
	sales repository.SaleRepository,
	bookings repository.BookingRepository,
	payments repository.PaymentMethodRepository,
	products repository.ProductRepository,
	stocks repository.StockRepository,
) DashboardService {
	return &dashboardService{
		report:   &reportService{sales: sales, bookings: bookings, payments: payments},
		sales:    sales,
		products: products,
		stocks:   stocks,
	}
}

func (s *dashboardService) Build(ctx context.Context, date string) (*dto.Dashboard, error) {
	from, to, err := dayBounds(date)
	if err != nil {
		return nil, apierror.Validationf("fecha invalida")
	}

	rollup, err := s.report.buildReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	methods, err := s.report.methodTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	top, err := s.topProducts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	low, err := s.lowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Dashboard{
		CourtRevenue:   rollup.CourtRevenue,
		ProductRevenue: rollup.ProductRevenue,
		COGS:           rollup.COGS,
		Profit:         rollup.Profit,
		TotalsByMethod: methods,
		TopProducts:    top,
		LowStock:       low,
	}, nil
}

func (s *dashboardService) topProducts(ctx context.Context, from, to time.Time) ([]dto.TopProduct, error) {
	ranked, err := s.sales.TopProductsInRange(ctx, from, to, dashboardTopProducts)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return []dto.TopProduct{}, nil
	}

	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		nameByID[p.ID] = p.Name
	}

	top := make([]dto.TopProduct, len(ranked))
	for i, r := range ranked {
		top[i] = dto.TopProduct{
			ProductID: r.ProductID.String(),
			Name:      nameByID[r.ProductID],
			Qty:       r.Qty,
		}
	}
	return top, nil
}

func (s *dashboardService) lowStock(ctx context.Context) ([]dto.StockItem, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	cache, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stockByProduct := make(map[uuid.UUID]int, len(cache))
	for _, row := range cache {
		stockByProduct[row.ProductID] = row.Stock
	}

	low := make([]dto.StockItem, 0)
	for _, p := range products {
		stock := stockByProduct[p.ID]
		if stock < 0 {
			stock = 0
		}
		if stock > p.LowStockThreshold {
			continue
		}
		low = append(low, dto.StockItem{
			ProductID:         p.ID.String(),
			Name:              p.Name,
			Stock:             stock,
			LowStockThreshold: p.LowStockThreshold,
		})
	}
	// Most depleted first
	sort.Slice(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	if len(low) > dashboardLowStockMax {
		low = low[:dashboardLowStockMax]
	}
	return low, nil
}
