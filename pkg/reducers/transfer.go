package reducers

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// TransferCleanup sweeps up ERC20 Transfers left dangling inside a
// subtree whose enclosing frame was already absorbed into a composite
// action by an earlier reducer - a Trade/Arbitrage/Liquidation that
// pruned its direct sibling but left a deeper descendant transfer
// untouched. Running this after Trade/Arbitrage/Liquidation, rather
// than folding it into each of them individually, keeps that one
// "is my ancestor already spoken for" check in a single place.
type TransferCleanup struct{}

func NewTransferCleanup() *TransferCleanup { return &TransferCleanup{} }

func (t *TransferCleanup) Reduce(ctx context.Context, insp *trace.Inspection) error {
	pruned := make([]trace.TraceAddress, 0, len(insp.Actions))
	for i := range insp.Actions {
		if insp.Actions[i].Kind == trace.Prune {
			pruned = append(pruned, insp.Actions[i].TraceAddress)
		}
	}

	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Known {
			continue
		}
		if insp.Actions[i].Action.Kind != trace.ActionTransfer {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		for _, p := range pruned {
			if addr.IsSubtraceOf(p) {
				insp.Actions[i] = trace.NewPrune(addr)
				break
			}
		}
	}
	return nil
}
