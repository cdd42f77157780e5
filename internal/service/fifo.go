package service

import (
	"context"

	"clubpos/internal/apierror"
	"clubpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLayer is one slice of a withdrawal: Qty units drawn from a cost layer
// created at UnitCost. The layers of a withdrawal always sum exactly to the
// requested quantity and are ordered oldest-first.
type CostLayer struct {
	UnitCost decimal.Decimal
	Qty      int
}

// FIFOEngine values withdrawals against the inventory ledger. It never holds
// state between calls: every computation replays the full immutable movement
// history, so it tolerates out-of-order historical inserts and stays correct
// after data corrections (new ADJUST rows).
type FIFOEngine struct {
	movements repository.MovementRepository
}

func NewFIFOEngine(movements repository.MovementRepository) *FIFOEngine {
	return &FIFOEngine{movements: movements}
}

// CostWithdrawal computes which cost layers a withdrawal of qtyToRemove units
// consumes, strictly oldest-first.
//
// Two passes over the ledger:
//  1. Incoming movements (PURCHASE, positive ADJUST) become layers with
//     available = qty, ordered by creation time ascending.
//  2. Historical outgoing movements (SALE, negative ADJUST) are re-deducted
//     from the earliest layers first, draining each layer to zero before
//     touching the next.
//
// The pending withdrawal is then consumed greedily from the oldest layer with
// availability. If the layers cannot cover it, an InsufficientStockError with
// the shortfall is returned and nothing is mutated.
func (e *FIFOEngine) CostWithdrawal(ctx context.Context, productID uuid.UUID, qtyToRemove int) ([]CostLayer, error) {
	if qtyToRemove <= 0 {
		return nil, apierror.Validationf("qty debe ser > 0")
	}

	incoming, err := e.movements.ListIncoming(ctx, productID)
	if err != nil {
		return nil, err
	}
	outgoing, err := e.movements.ListOutgoing(ctx, productID)
	if err != nil {
		return nil, err
	}

	type layer struct {
		unitCost  decimal.Decimal
		available int
	}
	layers := make([]layer, 0, len(incoming))
	for _, mv := range incoming {
		layers = append(layers, layer{unitCost: mv.UnitCost, available: mv.Qty})
	}

	// Replay historical outflows against the layers.
	for _, mv := range outgoing {
		toDeduct := -mv.Qty
		for i := range layers {
			if toDeduct <= 0 {
				break
			}
			d := min(layers[i].available, toDeduct)
			layers[i].available -= d
			toDeduct -= d
		}
	}

	// Consume the pending withdrawal from what is left.
	var result []CostLayer
	remaining := qtyToRemove
	for _, l := range layers {
		if remaining <= 0 {
			break
		}
		take := min(l.available, remaining)
		if take > 0 {
			result = append(result, CostLayer{UnitCost: l.unitCost, Qty: take})
			remaining -= take
		}
	}

	if remaining > 0 {
		return nil, &apierror.InsufficientStockError{
			ProductID: productID.String(),
			Shortfall: remaining,
		}
	}
	return result, nil
}

// BlendedCost returns the quantity-weighted average unit cost of the layers,
// rounded to 2 decimal places, the unitCostSnapshot stored on a sale line.
func BlendedCost(layers []CostLayer, qty int) decimal.Decimal {
	if qty <= 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, l := range layers {
		total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return total.DivRound(decimal.NewFromInt(int64(qty)), 2)
}
