package reducers

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Liquidation fills in a Liquidation's ReceivedAmount from the
// collateral transfer nested inside its subtrace, then prices both legs
// in ETH via the PriceOracle; if the collateral was worth strictly more
// than what was repaid, the Liquidation is promoted to a
// ProfitableLiquidation denominated in WETH. When pricing fails or
// times out, the Liquidation is left as-is rather than failing the
// whole reduction pass: a pricing failure downgrades
// ProfitableLiquidation to plain Liquidation, it never aborts.
type Liquidation struct {
	oracle PriceOracle
}

func NewLiquidation(oracle PriceOracle) *Liquidation {
	return &Liquidation{oracle: oracle}
}

func (l *Liquidation) Reduce(ctx context.Context, insp *trace.Inspection) error {
	snapshot := make([]trace.Classification, len(insp.Actions))
	copy(snapshot, insp.Actions)

	var prune []int
	type candidate struct {
		index int
		liq   trace.Liquidation
	}
	var promote []candidate

	for i := range insp.Actions {
		liq, ok := asLiquidation(insp.Actions[i])
		if !ok {
			continue
		}
		addr := insp.Actions[i].TraceAddress

		j, payout := findSubtraceTransfer(snapshot, i+1, addr, func(t trace.Transfer) bool {
			return t.To == liq.From && (t.Token == liq.ReceivedToken || t.Token == addresses.ETH)
		})
		if j < 0 {
			continue
		}

		next := *liq
		next.ReceivedAmount = payout.Amount
		prune = append(prune, j)
		promote = append(promote, candidate{index: i, liq: next})
	}

	for _, c := range promote {
		liq := c.liq
		sentEth, sentOK, err := l.oracle.Quote(ctx, liq.SentToken, insp.Block)
		if err != nil || !sentOK {
			insp.Actions[c.index] = trace.NewKnown(trace.NewLiquidation(liq), insp.Actions[c.index].TraceAddress)
			continue
		}
		receivedEth, receivedOK, err := l.oracle.Quote(ctx, liq.ReceivedToken, insp.Block)
		if err != nil || !receivedOK {
			insp.Actions[c.index] = trace.NewKnown(trace.NewLiquidation(liq), insp.Actions[c.index].TraceAddress)
			continue
		}

		sentValue := trace.ConvertToETH(sentEth, liq.SentAmount)
		receivedValue := trace.ConvertToETH(receivedEth, liq.ReceivedAmount)

		if !receivedValue.Gt(sentValue) {
			insp.Actions[c.index] = trace.NewKnown(trace.NewLiquidation(liq), insp.Actions[c.index].TraceAddress)
			continue
		}

		insp.Actions[c.index] = trace.NewKnown(trace.NewProfitableLiquidation(trace.ProfitableLiquidation{
			Liquidation: liq,
			Profit:      trace.SaturatingSub(receivedValue, sentValue),
			Token:       addresses.WETH,
		}), insp.Actions[c.index].TraceAddress)
	}

	for _, p := range prune {
		insp.Actions[p] = trace.NewPrune(insp.Actions[p].TraceAddress)
	}
	return nil
}

// findSubtraceTransfer scans actions from start onward for the first
// Known Transfer that is a strict descendant of parent and matches
// pred.
func findSubtraceTransfer(actions []trace.Classification, start int, parent trace.TraceAddress, pred func(trace.Transfer) bool) (int, *trace.Transfer) {
	for i := start; i < len(actions); i++ {
		if !actions[i].TraceAddress.IsSubtraceOf(parent) {
			continue
		}
		transfer, ok := asTransfer(actions[i])
		if !ok {
			continue
		}
		if pred(*transfer) {
			return i, transfer
		}
	}
	return -1, nil
}
