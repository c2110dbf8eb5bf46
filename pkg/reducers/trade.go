package reducers

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Trade promotes a pair of opposing ERC20 Transfers - token in from the
// trader to a pool, token out from the pool back to the trader - into a
// single Trade action: for each Transfer, it looks forward for the first
// Transfer that reverses it (same two parties, opposite direction,
// different token) and, if that one sits at the same depth in the trace
// tree, folds the pair into a Trade sitting at the first transfer's
// slot. A first reversing transfer at another depth yields no Trade.
type Trade struct{}

func NewTrade() *Trade { return &Trade{} }

func (t *Trade) Reduce(ctx context.Context, insp *trace.Inspection) error {
	snapshot := make([]trace.Classification, len(insp.Actions))
	copy(snapshot, insp.Actions)

	var prune []int
	for i := range insp.Actions {
		transfer, ok := asTransfer(insp.Actions[i])
		if !ok {
			continue
		}

		j, transfer2 := findTransfer(snapshot, i+1, func(c trace.Transfer) bool {
			return c.To == transfer.From && c.From == transfer.To && c.Token != transfer.Token
		})
		if j < 0 {
			continue
		}

		// Trades across multiple trace-tree depths are the job of the
		// inspector that owns that subtree, not this reducer - only
		// fold transfers that sit at the same rank.
		if len(insp.Actions[i].TraceAddress) != len(insp.Actions[j].TraceAddress) {
			continue
		}

		insp.Actions[i] = trace.NewKnown(trace.NewTrade(*transfer, *transfer2), insp.Actions[i].TraceAddress)

		// If nothing downstream still refers to transfer2's leg, it's
		// fully absorbed into the Trade and can be pruned.
		if k, _ := findTransfer(snapshot, j+1, func(c trace.Transfer) bool {
			return c.To == transfer2.From && c.From == transfer2.To
		}); k < 0 {
			prune = append(prune, j)
		}
	}

	for _, p := range prune {
		insp.Actions[p] = trace.NewPrune(insp.Actions[p].TraceAddress)
	}
	return nil
}

// findTransfer scans actions from start onward for the first Known
// Transfer matching pred, returning its index and payload, or (-1, nil).
func findTransfer(actions []trace.Classification, start int, pred func(trace.Transfer) bool) (int, *trace.Transfer) {
	for i := start; i < len(actions); i++ {
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
