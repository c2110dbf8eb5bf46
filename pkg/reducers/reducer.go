// Package reducers coalesces the per-frame SpecificActions inspectors
// attach onto an Inspection into higher-level composite actions: a pair
// of opposing Transfers into a Trade, a closed chain of Trades into an
// Arbitrage, a Liquidation plus its collateral payout into a
// ProfitableLiquidation. Unlike an Inspector, which only ever looks at
// one frame at a time, a Reducer scans across the whole Actions slice
// to find these multi-frame patterns.
package reducers

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Reducer looks for a multi-action pattern across an already-classified
// Inspection and promotes matching entries to a composite action,
// pruning the frames it absorbed. Reducers run in a fixed order and
// must be idempotent: running the same reducer twice in a row leaves
// the Inspection unchanged the second time.
type Reducer interface {
	Reduce(ctx context.Context, insp *trace.Inspection) error
}

// Default returns the reducers this project ships with, in their fixed
// run order: trades are promoted first so the arbitrage
// reducer has trades to chain, liquidations are priced once the trade
// graph is settled, and the transfer cleanup pass runs last to sweep up
// anything left dangling by the earlier passes.
func Default(oracle PriceOracle) []Reducer {
	return []Reducer{
		NewTrade(),
		NewArbitrage(),
		NewLiquidation(oracle),
		NewTransferCleanup(),
	}
}

// asTransfer returns the Transfer payload of a Known classification, or
// false if it isn't one.
func asTransfer(c trace.Classification) (*trace.Transfer, bool) {
	action, ok := c.AsAction()
	if !ok || action.Kind != trace.ActionTransfer {
		return nil, false
	}
	return action.Transfer, true
}

// asTrade returns the Trade payload of a Known classification, or false
// if it isn't one.
func asTrade(c trace.Classification) (*trace.Trade, bool) {
	action, ok := c.AsAction()
	if !ok || action.Kind != trace.ActionTrade {
		return nil, false
	}
	return action.Trade, true
}

// asLiquidation returns the Liquidation payload of a Known
// classification, or false if it isn't one.
func asLiquidation(c trace.Classification) (*trace.Liquidation, bool) {
	action, ok := c.AsAction()
	if !ok || action.Kind != trace.ActionLiquidation {
		return nil, false
	}
	return action.Liquidation, true
}
