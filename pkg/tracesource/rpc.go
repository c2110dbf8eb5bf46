package tracesource

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// parityAction is the wire shape of one `trace_transaction` entry from
// a Parity/OpenEthereum-compatible archival node: the real frame
// fields sit nested under "action"/"result" rather than flattened the
// way trace.RawFrame wants them, so RPCSource flattens on the way in.
type parityAction struct {
	Action struct {
		CallType string         `json:"callType"`
		From     common.Address `json:"from"`
		To       common.Address `json:"to"`
		Value    *hexutil.Big   `json:"value"`
		Gas      hexutil.Uint64 `json:"gas"`
		Input    hexutil.Bytes  `json:"input"`
	} `json:"action"`
	Result *struct {
		GasUsed hexutil.Uint64 `json:"gasUsed"`
		Output  hexutil.Bytes  `json:"output"`
	} `json:"result"`
	Error        string `json:"error,omitempty"`
	Subtraces    int    `json:"subtraces"`
	TraceAddress []int  `json:"traceAddress"`
	Type         string `json:"type"`
}

type rpcLog struct {
	Address  common.Address `json:"address"`
	Topics   []common.Hash  `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
	LogIndex hexutil.Uint   `json:"logIndex"`
}

type rpcReceipt struct {
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
	Status            hexutil.Uint64 `json:"status"`
	Logs              []rpcLog       `json:"logs"`
}

// RPCSource fetches traces from a live archival node's
// `trace_transaction` and `eth_getTransactionReceipt` JSON-RPC methods.
type RPCSource struct {
	client *rpc.Client
}

// NewRPCSource wraps an already-dialed client. Dialing is left to the
// caller (cmd/mevinspect) so tests and callers that already hold a
// client don't redial.
func NewRPCSource(client *rpc.Client) *RPCSource {
	return &RPCSource{client: client}
}

func (s *RPCSource) Trace(ctx context.Context, hash common.Hash) ([]trace.RawFrame, []trace.RawLog, trace.RawReceipt, error) {
	var actions []parityAction
	if err := s.client.CallContext(ctx, &actions, "trace_transaction", hash); err != nil {
		return nil, nil, trace.RawReceipt{}, fmt.Errorf("%w: trace_transaction: %v", ErrTraceFetch, err)
	}
	if len(actions) == 0 {
		return nil, nil, trace.RawReceipt{}, fmt.Errorf("%w: empty trace for %s", ErrTraceFetch, hash)
	}

	var receipt rpcReceipt
	if err := s.client.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		return nil, nil, trace.RawReceipt{}, fmt.Errorf("%w: eth_getTransactionReceipt: %v", ErrTraceFetch, err)
	}

	frames := make([]trace.RawFrame, len(actions))
	for i, a := range actions {
		frame := trace.RawFrame{
			TraceAddress: a.TraceAddress,
			Type:         a.Type,
			CallType:     a.Action.CallType,
			From:         a.Action.From,
			To:           a.Action.To,
			Input:        a.Action.Input,
			Value:        a.Action.Value,
			Gas:          a.Action.Gas,
			Error:        a.Error,
			Subtraces:    a.Subtraces,
		}
		if a.Result != nil {
			frame.GasUsed = a.Result.GasUsed
			frame.Output = a.Result.Output
		}
		frames[i] = frame
	}

	logs := make([]trace.RawLog, len(receipt.Logs))
	for i, l := range receipt.Logs {
		logs[i] = trace.RawLog{
			Address:  l.Address,
			Topics:   l.Topics,
			Data:     l.Data,
			LogIndex: l.LogIndex,
		}
	}

	return frames, logs, trace.RawReceipt{
		GasUsed:  receipt.GasUsed,
		GasPrice: receipt.EffectiveGasPrice,
		Status:   receipt.Status,
	}, nil
}
