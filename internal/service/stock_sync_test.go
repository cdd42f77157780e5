package service

import (
	"context"
	"errors"
	"testing"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResyncComputesLedgerSum(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Pelotas", "5000")

	purchase(movements, p.ID, 20, "3000")
	sale(movements, p.ID, 5, "3000")

	sync := NewStockSyncService(movements, stocks, products, nil)
	stock, err := sync.Resync(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stock)
	assert.Equal(t, 15, stocks.stocks[p.ID])
}

func TestResyncIsIdempotent(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Grip", "3500")
	purchase(movements, p.ID, 8, "2000")

	sync := NewStockSyncService(movements, stocks, products, nil)
	for i := 0; i < 3; i++ {
		stock, err := sync.Resync(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stock)
	}
	assert.Equal(t, 8, stocks.stocks[p.ID])
}

func TestResyncAllCoversEveryProduct(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	a := products.add("Gaseosa", "2000")
	b := products.add("Agua", "1500")
	c := products.add("Sin movimientos", "1000")

	purchase(movements, a.ID, 12, "1300")
	purchase(movements, b.ID, 7, "800")
	sale(movements, b.ID, 2, "800")

	sync := NewStockSyncService(movements, stocks, products, nil)
	require.NoError(t, sync.ResyncAll(context.Background()))

	assert.Equal(t, 12, stocks.stocks[a.ID])
	assert.Equal(t, 5, stocks.stocks[b.ID])
	// Products without ledger history land at zero, not absent.
	assert.Equal(t, 0, stocks.stocks[c.ID])
}

func TestAdjustNegativeUpdatesCache(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Toallas", "4000")
	purchase(movements, p.ID, 20, "2500")

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)

	err := inventory.Adjust(context.Background(), uuid.New(), dto.AdjustRequest{
		ProductID: p.ID.String(),
		Qty:       -5,
		UnitCost:  dec("2500"),
	})
	require.NoError(t, err)
	assert.Equal(t, 15, stocks.stocks[p.ID])
}

func TestAdjustZeroQtyRejected(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Toallas", "4000")

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)

	err := inventory.Adjust(context.Background(), uuid.New(), dto.AdjustRequest{
		ProductID: p.ID.String(),
		Qty:       0,
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}

func TestStockClampsNegativeForDisplay(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Gorras", "6000")

	// Ledger driven below zero by a correction.
	sale(movements, p.ID, 3, "0")

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)
	require.NoError(t, sync.ResyncAll(context.Background()))

	items, err := inventory.Stock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].Stock)

	// The cache itself keeps the true signed sum.
	assert.Equal(t, -3, stocks.stocks[p.ID])
}

func TestStockFallsBackToLedgerWhenCacheEmpty(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	p := products.add("Gaseosa", "2000")
	purchase(movements, p.ID, 9, "1300")

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)

	// No resync ran: the cache is empty, the read path recomputes.
	items, err := inventory.Stock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].Stock)
}

func TestPurchaseUnknownProduct(t *testing.T) {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)

	err := inventory.Purchase(context.Background(), uuid.New(), dto.PurchaseRequest{
		ProductID: uuid.NewString(),
		Qty:       5,
		UnitCost:  dec("100"),
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}
