package inspectors

import (
	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Curve recognizes calls to a Curve pool's exchange /
// exchange_underlying. As with Uniswap and Balancer, the swap call
// itself is pruned; the token movements it triggers are left for the
// ERC20 inspector and reducers.Trade.
type Curve struct {
	pool *abiregistry.Registry
}

func NewCurve() *Curve {
	return &Curve{pool: abiregistry.NewCurveRegistry()}
}

func (c *Curve) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}

		decoded, err := c.pool.DecodeCall(frame.Input)
		if err != nil {
			continue
		}
		switch decoded.Method.Name {
		case "exchange", "exchange_underlying":
			insp.Actions[i] = trace.NewPrune(addr)
			insp.AddProtocol(trace.ProtocolCurve)
		}
	}
}
