package inspectors

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// ERC20 recognizes plain token movements: transfer, transferFrom, mint,
// burnFrom, WETH's deposit/withdraw pair, and bare ETH value transfers
// made by internal calls (the root frame's value is the transaction's
// own and is not classified).
// It runs last among the default inspectors so protocol-specific
// inspectors get first refusal on a frame - a Uniswap pair's internal
// token transfer should be absorbed into a Trade, not left behind as a
// bare Transfer.
type ERC20 struct {
	registry *abiregistry.Registry
}

func NewERC20() *ERC20 {
	return &ERC20{registry: abiregistry.NewERC20Registry()}
}

func (e *ERC20) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}
		if action, ok := e.tryParse(frame); ok {
			insp.Actions[i] = trace.NewKnown(action, addr)
		}
	}
}

func (e *ERC20) tryParse(f *trace.Frame) (trace.SpecificAction, bool) {
	if f.GasUsed != nil && f.GasUsed.IsUint64() && f.GasUsed.Uint64() == 2300 {
		return trace.SpecificAction{}, false
	}
	if f.CallType != trace.CallTypeCall {
		return trace.SpecificAction{}, false
	}

	if decoded, err := e.registry.DecodeCall(f.Input); err == nil {
		switch decoded.Method.Name {
		case "transferFrom":
			from := decoded.Args[0].(common.Address)
			to := decoded.Args[1].(common.Address)
			amount := decoded.Args[2].(*big.Int)
			return trace.NewTransfer(trace.Transfer{From: from, To: to, Amount: trace.U256FromBig(amount), Token: f.To}), true
		case "burnFrom":
			from := decoded.Args[0].(common.Address)
			amount := decoded.Args[1].(*big.Int)
			return trace.NewTransfer(trace.Transfer{From: from, To: common.Address{}, Amount: trace.U256FromBig(amount), Token: f.To}), true
		case "mint":
			to := decoded.Args[0].(common.Address)
			amount := decoded.Args[1].(*big.Int)
			return trace.NewTransfer(trace.Transfer{From: common.Address{}, To: to, Amount: trace.U256FromBig(amount), Token: f.To}), true
		case "transfer":
			to := decoded.Args[0].(common.Address)
			amount := decoded.Args[1].(*big.Int)
			return trace.NewTransfer(trace.Transfer{From: f.From, To: to, Amount: trace.U256FromBig(amount), Token: f.To}), true
		case "withdraw":
			amount := decoded.Args[0].(*big.Int)
			return trace.NewWithdrawal(trace.Withdrawal{To: f.From, Amount: trace.U256FromBig(amount), Token: f.To}), true
		case "deposit":
			return trace.NewDeposit(trace.Deposit{From: f.From, Amount: f.Value, Token: f.To}), true
		}
	}

	if len(f.TraceAddress) > 0 && f.Value != nil && !f.Value.IsZero() && f.From != addresses.WETH {
		return trace.NewTransfer(trace.Transfer{From: f.From, To: f.To, Amount: f.Value, Token: addresses.ETH}), true
	}

	return trace.SpecificAction{}, false
}
