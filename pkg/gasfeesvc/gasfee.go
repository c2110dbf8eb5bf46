// Package gasfeesvc resolves the effective gas price a mined
// transaction actually paid. Legacy transactions carry a flat gasPrice;
// EIP-1559 transactions carry maxFeePerGas/maxPriorityFeePerGas and the
// paid price depends on the including block's base fee. Receipts from
// recent nodes report effectiveGasPrice directly; this package computes
// it for the nodes (and cached traces) that predate that field.
package gasfeesvc

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// TxFees is the fee-related subset of an eth_getTransactionByHash
// response.
type TxFees struct {
	GasPrice             *hexutil.Big `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas"`
}

// Effective returns the per-gas price the transaction paid in the block
// whose base fee is baseFee.
//
// For an EIP-1559 transaction the price is
// min(maxFeePerGas, baseFee + maxPriorityFeePerGas); for a legacy
// transaction (no maxFeePerGas) it is the flat gasPrice, which is also
// the pre-London fallback when no base fee exists.
func Effective(baseFee *uint256.Int, fees TxFees) *uint256.Int {
	if fees.MaxFeePerGas == nil || baseFee == nil {
		if fees.GasPrice == nil {
			return trace.ZeroU256()
		}
		return trace.U256FromBig(fees.GasPrice.ToInt())
	}

	maxFee := trace.U256FromBig(fees.MaxFeePerGas.ToInt())
	tip := trace.ZeroU256()
	if fees.MaxPriorityFeePerGas != nil {
		tip = trace.U256FromBig(fees.MaxPriorityFeePerGas.ToInt())
	}

	price := trace.SaturatingAdd(baseFee, tip)
	if price.Gt(maxFee) {
		return maxFee
	}
	return price
}
