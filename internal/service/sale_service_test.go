package service

import (
	"context"
	"errors"
	"testing"

	"clubpos/internal/apierror"
	"clubpos/internal/dto"
	"clubpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleTestEnv struct {
	movements *stubMovementRepo
	stocks    *stubStockRepo
	products  *stubProductRepo
	sales     *stubSaleRepo
	payments  *stubPaymentRepo
	svc       SaleService
}

func newSaleTestEnv() *saleTestEnv {
	movements := newStubMovementRepo()
	stocks := newStubStockRepo()
	products := newStubProductRepo()
	sales := newStubSaleRepo()
	payments := newStubPaymentRepo()

	// Shared transaction scope: the sale header and its ledger movements
	// roll back together, as in the real database.
	tx := &stubTx{}
	sales.tx = tx
	movements.tx = tx

	sync := NewStockSyncService(movements, stocks, products, nil)
	inventory := NewInventoryService(movements, stocks, products, sync)
	svc := NewSaleService(sales, movements, products, payments, inventory, sync)

	return &saleTestEnv{
		movements: movements,
		stocks:    stocks,
		products:  products,
		sales:     sales,
		payments:  payments,
		svc:       svc,
	}
}

func TestCreateSaleAcrossTwoCostLayers(t *testing.T) {
	env := newSaleTestEnv()
	gaseosa := env.products.add("Gaseosa", "2000")
	cash := env.payments.add("Efectivo", model.PaymentCash)

	productID := gaseosa.ID
	purchase(env.movements, productID, 50, "1300")
	purchase(env.movements, productID, 30, "1400")

	resp, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: productID.String(), Qty: 60},
		},
	})
	require.NoError(t, err)

	// Sale line: blended snapshot (50*1300 + 10*1400)/60 = 1316.67
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitCostSnapshot.Equal(dec("1316.67")),
		"snapshot %s", resp.Items[0].UnitCostSnapshot)
	assert.True(t, resp.Total.Equal(dec("120000")))

	// Ledger: one negative SALE movement per consumed layer.
	outgoing, err := env.movements.ListOutgoing(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, outgoing, 2)
	assert.Equal(t, -50, outgoing[0].Qty)
	assert.True(t, outgoing[0].UnitCost.Equal(dec("1300")))
	assert.Equal(t, -10, outgoing[1].Qty)
	assert.True(t, outgoing[1].UnitCost.Equal(dec("1400")))
	for _, mv := range outgoing {
		require.NotNil(t, mv.RefSaleID)
		assert.Equal(t, resp.ID, mv.RefSaleID.String())
	}

	// Post-commit resync landed the cache at 80 - 60 = 20.
	assert.Equal(t, 20, env.stocks.stocks[productID])
}

func TestCreateSaleInsufficientStockWritesNothing(t *testing.T) {
	env := newSaleTestEnv()
	agua := env.products.add("Agua", "1500")
	cash := env.payments.add("Efectivo", model.PaymentCash)
	purchase(env.movements, agua.ID, 5, "800")

	ledgerBefore := len(env.movements.movements)

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: agua.ID.String(), Qty: 8},
		},
	})

	var insufficient *apierror.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Shortfall)

	assert.Empty(t, env.sales.sales)
	assert.Equal(t, ledgerBefore, len(env.movements.movements))
}

func TestCreateSaleFailedInsertAddsNoMovements(t *testing.T) {
	env := newSaleTestEnv()
	agua := env.products.add("Agua", "1500")
	cash := env.payments.add("Efectivo", model.PaymentCash)
	purchase(env.movements, agua.ID, 10, "800")

	env.sales.fail = true
	ledgerBefore := len(env.movements.movements)

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: agua.ID.String(), Qty: 2},
		},
	})
	require.Error(t, err)
	assert.Equal(t, ledgerBefore, len(env.movements.movements))
}

func TestCreateSaleMidTransactionFailureRollsBack(t *testing.T) {
	env := newSaleTestEnv()
	gaseosa := env.products.add("Gaseosa", "2000")
	cash := env.payments.add("Efectivo", model.PaymentCash)
	purchase(env.movements, gaseosa.ID, 50, "1300")
	purchase(env.movements, gaseosa.ID, 30, "1400")

	// The sale header and the first SALE movement insert succeed, the second
	// movement insert fails: the header and the first movement must unwind.
	env.movements.failAfter = 1
	ledgerBefore := len(env.movements.movements)

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosa.ID.String(), Qty: 60},
		},
	})
	require.Error(t, err)

	assert.Empty(t, env.sales.sales)
	assert.Equal(t, ledgerBefore, len(env.movements.movements))
	assert.Empty(t, env.stocks.stocks)
}

func TestCreateSaleFailureBeforeAnyMovementPersistsNothing(t *testing.T) {
	env := newSaleTestEnv()
	agua := env.products.add("Agua", "1500")
	cash := env.payments.add("Efectivo", model.PaymentCash)
	purchase(env.movements, agua.ID, 10, "800")

	// First movement insert fails right after the sale header landed.
	env.movements.failAfter = 0
	ledgerBefore := len(env.movements.movements)

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: agua.ID.String(), Qty: 2},
		},
	})
	require.Error(t, err)

	assert.Empty(t, env.sales.sales)
	assert.Equal(t, ledgerBefore, len(env.movements.movements))
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	env := newSaleTestEnv()
	cash := env.payments.add("Efectivo", model.PaymentCash)

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: uuid.NewString(), Qty: 1},
		},
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestCreateSaleUnknownPaymentMethod(t *testing.T) {
	env := newSaleTestEnv()
	agua := env.products.add("Agua", "1500")
	purchase(env.movements, agua.ID, 10, "800")

	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: uuid.NewString(),
		Items: []dto.SaleItemRequest{
			{ProductID: agua.ID.String(), Qty: 1},
		},
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}

func TestCreateSaleEmptyBasket(t *testing.T) {
	env := newSaleTestEnv()
	_, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: uuid.NewString(),
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}

func TestListSalesRejectsInvertedRange(t *testing.T) {
	env := newSaleTestEnv()
	_, err := env.svc.ListByRange(context.Background(), dto.SaleFilter{
		From: "2026-08-30",
		To:   "2026-08-01",
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}

func TestCreateSaleMultipleItems(t *testing.T) {
	env := newSaleTestEnv()
	gaseosa := env.products.add("Gaseosa", "2000")
	agua := env.products.add("Agua", "1500")
	cash := env.payments.add("Efectivo", model.PaymentCash)
	purchase(env.movements, gaseosa.ID, 10, "1300")
	purchase(env.movements, agua.ID, 10, "800")

	resp, err := env.svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		PaymentMethodID: cash.ID.String(),
		Items: []dto.SaleItemRequest{
			{ProductID: gaseosa.ID.String(), Qty: 2},
			{ProductID: agua.ID.String(), Qty: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("8500"))) // 2*2000 + 3*1500

	assert.Equal(t, 8, env.stocks.stocks[gaseosa.ID])
	assert.Equal(t, 7, env.stocks.stocks[agua.ID])
}
