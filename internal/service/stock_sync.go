package service

import (
	"context"

	"clubpos/internal/repository"
	"clubpos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockSyncService keeps the denormalized stock cache in line with the ledger.
// Every operation here is best-effort from the caller's point of view: a
// failed resync degrades stock visibility, never the triggering write.
type StockSyncService interface {
	// Resync recomputes stock = Σ qty over the product's movements and
	// upserts the cache row. Returns the recomputed stock.
	Resync(ctx context.Context, productID uuid.UUID) (int, error)
	// ResyncAll rebuilds the cache for every product from scratch. Runs at
	// process start and from the periodic rebuild cron; idempotent.
	ResyncAll(ctx context.Context) error
}

type stockSyncService struct {
	movements  repository.MovementRepository
	stocks     repository.StockRepository
	products   repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewStockSyncService(
	movements repository.MovementRepository,
	stocks repository.StockRepository,
	products repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) StockSyncService {
	return &stockSyncService{
		movements:  movements,
		stocks:     stocks,
		products:   products,
		dispatcher: dispatcher,
	}
}

func (s *stockSyncService) Resync(ctx context.Context, productID uuid.UUID) (int, error) {
	stock, err := s.movements.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if err := s.stocks.Upsert(ctx, productID, stock); err != nil {
		return 0, err
	}
	s.maybeAlertLowStock(ctx, productID, stock)
	return stock, nil
}

func (s *stockSyncService) ResyncAll(ctx context.Context) error {
	sums, err := s.movements.SumAll(ctx)
	if err != nil {
		return err
	}
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return err
	}

	synced := 0
	for _, p := range products {
		if err := s.stocks.Upsert(ctx, p.ID, sums[p.ID]); err != nil {
			// Keep going: a single failed upsert should not abort the rebuild.
			log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("stock sync: upsert failed")
			continue
		}
		synced++
	}
	log.Info().Int("synced", synced).Int("products", len(products)).Msg("stock cache rebuilt")
	return nil
}

// maybeAlertLowStock enqueues a low-stock alert when a resync lands at or
// below the product's threshold. Fire-and-forget: enqueue failures are logged
// and dropped.
func (s *stockSyncService) maybeAlertLowStock(ctx context.Context, productID uuid.UUID, stock int) {
	if s.dispatcher == nil {
		return
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil || stock > p.LowStockThreshold {
		return
	}
	payload := worker.LowStockPayload{
		ProductID: productID.String(),
		Name:      p.Name,
		Stock:     stock,
		Threshold: p.LowStockThreshold,
	}
	if err := s.dispatcher.EnqueueLowStockAlert(ctx, payload); err != nil {
		log.Warn().Err(err).Str("product_id", productID.String()).Msg("stock sync: alert enqueue failed")
	}
}
