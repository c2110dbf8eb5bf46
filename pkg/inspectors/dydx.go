package inspectors

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// DyDx recognizes calls to dYdX's Solo Margin deposit/withdraw, and its
// LogLiquidate event for collateral seizures. Solo Margin's real
// operate() takes nested Info/ActionArgs struct arrays; this inspector
// only decodes the flattened deposit/withdraw shape registered in
// abiregistry, which covers simple collateral moves but not batched
// multi-action operate() calls. LogLiquidate only carries market IDs,
// not token addresses, so the liquidated/collateral tokens are
// resolved through addresses.DyDxMarketToken; a market added after
// that table was written resolves to the zero address instead of
// failing classification.
type DyDx struct {
	solo *abiregistry.Registry
}

func NewDyDx() *DyDx {
	return &DyDx{solo: abiregistry.NewDyDxRegistry()}
}

func (d *DyDx) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}

		if decoded, err := d.solo.DecodeCall(frame.Input); err == nil {
			switch decoded.Method.Name {
			case "deposit", "withdraw":
				insp.Actions[i] = trace.NewPrune(addr)
				insp.AddProtocol(trace.ProtocolDyDx)
				continue
			}
		}

		if frame.To != addresses.DyDxSoloMargin {
			continue
		}
		if liq, ok := d.liquidationFromLogs(frame, insp.Logs); ok {
			insp.Actions[i] = trace.NewKnown(trace.NewLiquidation(liq), addr)
			insp.AddProtocol(trace.ProtocolDyDx)
		}
	}
}

func (d *DyDx) liquidationFromLogs(frame *trace.Frame, logs []trace.Log) (trace.Liquidation, bool) {
	for _, l := range logs {
		if l.Address != frame.To {
			continue
		}
		decoded, err := d.solo.DecodeLog(l)
		if err != nil || decoded.Event.Name != "LogLiquidate" {
			continue
		}

		solidOwner := decoded.Args["solidAccountOwner"].(common.Address)
		liquidOwner := decoded.Args["liquidAccountOwner"].(common.Address)
		heldMarket := decoded.Args["heldMarket"].(*big.Int)
		owedMarket := decoded.Args["owedMarket"].(*big.Int)

		return trace.Liquidation{
			SentToken:      addresses.DyDxMarketToken[owedMarket.Uint64()],
			SentAmount:     trace.ZeroU256(),
			ReceivedToken:  addresses.DyDxMarketToken[heldMarket.Uint64()],
			ReceivedAmount: trace.ZeroU256(),
			From:           solidOwner,
			LiquidatedUser: liquidOwner,
		}, true
	}
	return trace.Liquidation{}, false
}
