package inspectors

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Aave recognizes calls to the Aave V1 LendingPool's liquidationCall.
// The received side of the liquidation is left at zero; ReceivedAmount
// is filled in later by reducers.Liquidation once it locates the
// collateral transfer back to the liquidator.
type Aave struct {
	pool *abiregistry.Registry
}

func NewAave() *Aave {
	return &Aave{pool: abiregistry.NewAaveRegistry()}
}

func (a *Aave) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok || frame.To != addresses.AaveLendingPool {
			continue
		}
		insp.AddProtocol(trace.ProtocolAave)

		decoded, err := a.pool.DecodeCall(frame.Input)
		if err != nil || decoded.Method.Name != "liquidationCall" {
			continue
		}
		collateral := decoded.Args[0].(common.Address)
		reserve := decoded.Args[1].(common.Address)
		user := decoded.Args[2].(common.Address)
		purchaseAmount := decoded.Args[3].(*big.Int)

		insp.Actions[i] = trace.NewKnown(trace.NewLiquidation(trace.Liquidation{
			SentToken:      reserve,
			SentAmount:     trace.U256FromBig(purchaseAmount),
			ReceivedToken:  collateral,
			ReceivedAmount: trace.ZeroU256(),
			From:           frame.From,
			LiquidatedUser: user,
		}), addr)
	}
}
