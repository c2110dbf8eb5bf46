// Package evaluator implements C7: combining a finished Inspection with
// gas accounting and priced profits into the final Evaluation record.
package evaluator

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/reducers"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Evaluation is the final, persistable record for one transaction:
// what MEV-relevant action kinds it contained, and the net ETH profit
// once gas is accounted for.
type Evaluation struct {
	Inspection *trace.Inspection

	GasUsed  uint64
	GasPrice *uint256.Int

	// Actions is the set of action kinds present in the Inspection's
	// final, Known classifications, deduplicated.
	Actions []trace.ActionKind

	// Revenue is the sum, in wei, of every priced Arbitrage/
	// ProfitableLiquidation profit found in the Inspection.
	Revenue *uint256.Int

	// Profit is max(0, Revenue - GasUsed*GasPrice).
	Profit *uint256.Int

	// Unprofitable is set when Revenue did not cover gas cost: Profit
	// is clamped to zero rather than going negative, and this flag
	// records that the clamp fired.
	Unprofitable bool
}

// Evaluator combines a priced Inspection into an Evaluation. It holds
// no per-Inspection state and is safe to share across concurrently
// evaluated Inspections, same as Processor.
type Evaluator struct {
	oracle reducers.PriceOracle
}

func New(oracle reducers.PriceOracle) *Evaluator {
	return &Evaluator{oracle: oracle}
}

// Evaluate prices every Arbitrage/ProfitableLiquidation in insp,
// accumulates revenue, and nets it against gasUsed*gasPrice.
//
// A PriceError on an individual Arbitrage's profit token does not fail
// the whole evaluation: that arbitrage's profit is simply excluded from
// revenue, mirroring the liquidation reducer's "downgrade, don't abort"
// policy for the same class of failure.
func (e *Evaluator) Evaluate(ctx context.Context, insp *trace.Inspection, gasUsed uint64, gasPrice *uint256.Int) (*Evaluation, error) {
	revenue := trace.ZeroU256()
	seen := make(map[trace.ActionKind]struct{})
	var kinds []trace.ActionKind

	addKind := func(k trace.ActionKind) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		kinds = append(kinds, k)
	}

	for _, c := range insp.Known() {
		action, ok := c.AsAction()
		if !ok {
			continue
		}
		addKind(action.Kind)

		switch action.Kind {
		case trace.ActionArbitrage:
			value, err := e.priceProfit(ctx, action.Arbitrage.Token, action.Arbitrage.Profit, insp.Block)
			if err != nil {
				continue
			}
			revenue = trace.SaturatingAdd(revenue, value)
		case trace.ActionProfitableLiquidation:
			value, err := e.priceProfit(ctx, action.ProfitableLiquidation.Token, action.ProfitableLiquidation.Profit, insp.Block)
			if err != nil {
				continue
			}
			revenue = trace.SaturatingAdd(revenue, value)
		}
	}

	cost := trace.SaturatingMul(gasPrice, uint256.NewInt(gasUsed))

	eval := &Evaluation{
		Inspection: insp,
		GasUsed:    gasUsed,
		GasPrice:   gasPrice,
		Actions:    kinds,
		Revenue:    revenue,
	}
	if revenue.Gt(cost) {
		eval.Profit = trace.SaturatingSub(revenue, cost)
	} else {
		eval.Profit = trace.ZeroU256()
		eval.Unprofitable = true
	}
	return eval, nil
}

// priceProfit converts a profit already denominated in token into wei,
// using the oracle's "ETH value of 1e18 raw units" convention. WETH
// profits (ProfitableLiquidation always reports in WETH) go through the
// oracle too; prices.Oracle.Quote answers WETH with OneEther without an
// RPC call, so 1 WETH unit converts to 1 wei-ETH.
func (e *Evaluator) priceProfit(ctx context.Context, token common.Address, profit *uint256.Int, block uint64) (*uint256.Int, error) {
	priceOneEther, found, err := e.oracle.Quote(ctx, token, block)
	if err != nil {
		return nil, err
	}
	if !found {
		return trace.ZeroU256(), nil
	}
	return trace.ConvertToETH(priceOneEther, profit), nil
}
