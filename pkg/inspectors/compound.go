package inspectors

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Compound recognizes calls to a cToken: liquidateBorrow becomes a
// Liquidation, mint and repayBorrow become Deposits, and redeem becomes
// a Withdrawal. For liquidations, rather than walking subtraces for the
// matching `seize` call to fill in ReceivedAmount at classify time,
// this inspector leaves the received side at zero and defers to
// reducers.Liquidation - the same scan-forward-for-a-matching-transfer
// logic already needed for Aave, so there is no reason to duplicate it
// here.
type Compound struct {
	ctoken *abiregistry.Registry
}

func NewCompound() *Compound {
	return &Compound{ctoken: abiregistry.NewCompoundRegistry()}
}

func (c *Compound) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok || frame.CallType == trace.CallTypeDelegateCall {
			continue
		}

		decoded, err := c.ctoken.DecodeCall(frame.Input)
		if err != nil {
			continue
		}

		switch decoded.Method.Name {
		case "liquidateBorrow":
			borrower := decoded.Args[0].(common.Address)
			repayAmount := decoded.Args[1].(*big.Int)
			cTokenCollateral := decoded.Args[2].(common.Address)

			insp.Actions[i] = trace.NewKnown(trace.NewLiquidation(trace.Liquidation{
				SentToken:      frame.To,
				SentAmount:     trace.U256FromBig(repayAmount),
				ReceivedToken:  cTokenCollateral,
				ReceivedAmount: trace.ZeroU256(),
				From:           frame.From,
				LiquidatedUser: borrower,
			}), addr)
			insp.AddProtocol(trace.ProtocolCompound)

		case "mint", "repayBorrow":
			// Both move value from the caller into the cToken: a supply
			// of underlying, or a repayment of borrowed underlying.
			amount := decoded.Args[0].(*big.Int)
			insp.Actions[i] = trace.NewKnown(trace.NewDeposit(trace.Deposit{
				Token:  frame.To,
				Amount: trace.U256FromBig(amount),
				From:   frame.From,
			}), addr)
			insp.AddProtocol(trace.ProtocolCompound)

		case "redeem":
			redeemTokens := decoded.Args[0].(*big.Int)
			insp.Actions[i] = trace.NewKnown(trace.NewWithdrawal(trace.Withdrawal{
				Token:  frame.To,
				Amount: trace.U256FromBig(redeemTokens),
				To:     frame.From,
			}), addr)
			insp.AddProtocol(trace.ProtocolCompound)
		}
	}
}
