package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/evaluator"
	"github.com/flashbots/mev-inspect-go/pkg/gasfeesvc"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
	"github.com/flashbots/mev-inspect-go/pkg/tracesource"
)

// txMeta is the subset of eth_getTransactionByHash the pipeline needs
// beyond the trace itself.
type txMeta struct {
	BlockNumber      *hexutil.Big  `json:"blockNumber"`
	TransactionIndex *hexutil.Uint `json:"transactionIndex"`
	gasfeesvc.TxFees
}

// blockMeta is the subset of eth_getBlockByNumber(num, false) the
// blocks command needs.
type blockMeta struct {
	BaseFeePerGas *hexutil.Big  `json:"baseFeePerGas"`
	Transactions  []common.Hash `json:"transactions"`
}

// inspectOne runs the full pipeline for one transaction: fetch, build,
// classify, reduce, evaluate, persist.
func (a *app) inspectOne(ctx context.Context, hash common.Hash) (*evaluator.Evaluation, error) {
	frames, logs, receipt, err := a.src.Trace(ctx, hash)
	if err != nil {
		return nil, err
	}

	var meta txMeta
	if err := a.client.CallContext(ctx, &meta, "eth_getTransactionByHash", hash); err != nil {
		return nil, fmt.Errorf("%w: eth_getTransactionByHash: %v", tracesource.ErrTraceFetch, err)
	}
	if meta.BlockNumber == nil || meta.TransactionIndex == nil {
		return nil, fmt.Errorf("%w: %s is not mined", tracesource.ErrTraceFetch, hash)
	}

	insp, err := trace.Build(hash, meta.BlockNumber.ToInt().Uint64(), uint(*meta.TransactionIndex), frames, logs)
	if err != nil {
		return nil, err
	}

	if err := a.proc.Process(ctx, insp); err != nil {
		return nil, err
	}

	gasPrice, err := a.effectiveGasPrice(ctx, receipt, meta)
	if err != nil {
		return nil, err
	}

	eval, err := a.eval.Evaluate(ctx, insp, uint64(receipt.GasUsed), gasPrice)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// effectiveGasPrice prefers the receipt's effectiveGasPrice and falls
// back to recomputing it from the transaction's fee fields and the
// block's base fee, for nodes and cached traces that predate the
// receipt field.
func (a *app) effectiveGasPrice(ctx context.Context, receipt trace.RawReceipt, meta txMeta) (*uint256.Int, error) {
	if receipt.GasPrice != nil {
		return trace.U256FromBig(receipt.GasPrice.ToInt()), nil
	}

	var block blockMeta
	if err := a.client.CallContext(ctx, &block, "eth_getBlockByNumber", meta.BlockNumber.String(), false); err != nil {
		return nil, fmt.Errorf("%w: eth_getBlockByNumber: %v", tracesource.ErrTraceFetch, err)
	}
	var baseFee *uint256.Int
	if block.BaseFeePerGas != nil {
		baseFee = trace.U256FromBig(block.BaseFeePerGas.ToInt())
	}
	return gasfeesvc.Effective(baseFee, meta.TxFees), nil
}

// printEvaluation writes the per-transaction result line the CLI
// reports for both single-tx and range runs.
func printEvaluation(eval *evaluator.Evaluation) {
	insp := eval.Inspection

	protocols := make([]string, 0, len(insp.Protocols))
	for p := range insp.Protocols {
		protocols = append(protocols, p.String())
	}
	actions := make([]string, 0, len(eval.Actions))
	for _, k := range eval.Actions {
		actions = append(actions, k.String())
	}

	fmt.Printf("%s status=%s block=%d protocols=%v actions=%v revenue=%s profit=%s\n",
		insp.Hash.Hex(), insp.Status, insp.Block, protocols, actions,
		eval.Revenue.Dec(), eval.Profit.Dec())
}
