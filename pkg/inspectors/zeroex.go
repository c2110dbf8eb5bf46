package inspectors

import (
	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// ZeroX recognizes calls to the 0x Exchange's fillOrder and
// marketSellOrders. The maker/taker asset transfers they trigger are
// left for the ERC20 inspector and reducers.Trade, the same split used
// for the AMM-style protocols.
type ZeroX struct {
	exchange *abiregistry.Registry
}

func NewZeroX() *ZeroX {
	return &ZeroX{exchange: abiregistry.NewZeroXRegistry()}
}

func (z *ZeroX) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}

		decoded, err := z.exchange.DecodeCall(frame.Input)
		if err != nil {
			continue
		}
		switch decoded.Method.Name {
		case "fillOrder", "marketSellOrders":
			insp.Actions[i] = trace.NewPrune(addr)
			insp.AddProtocol(trace.ProtocolZeroX)
		}
	}
}
