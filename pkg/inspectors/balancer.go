package inspectors

import (
	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Balancer recognizes calls to a Balancer V1 pool's swapExactAmountIn
// or swapExactAmountOut. Like Uniswap, it prunes the swap call itself
// and leaves the underlying ERC20 transfers for the ERC20 inspector
// and reducers.Trade to pair up.
type Balancer struct {
	pool *abiregistry.Registry
}

func NewBalancer() *Balancer {
	return &Balancer{pool: abiregistry.NewBalancerRegistry()}
}

func (b *Balancer) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}

		decoded, err := b.pool.DecodeCall(frame.Input)
		if err != nil {
			continue
		}
		switch decoded.Method.Name {
		case "swapExactAmountIn", "swapExactAmountOut":
			insp.Actions[i] = trace.NewPrune(addr)
			insp.AddProtocol(trace.ProtocolBalancer)
		}
	}
}
