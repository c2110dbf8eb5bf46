package trace

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RawFrame is one flattened trace frame in wire form, as Build
// consumes it: tracesource.RPCSource fills it from a Parity-style
// `trace_transaction` entry (whose fields arrive nested under
// "action"/"result"), and the disk cache stores it as JSON. Wire and
// internal representations are kept separate so the hexutil-tagged
// JSON shape never leaks past Build.
type RawFrame struct {
	TraceAddress        []int           `json:"traceAddress"`
	Type                string          `json:"type"`
	CallType            string          `json:"callType,omitempty"`
	From                common.Address  `json:"from"`
	To                  common.Address  `json:"to,omitempty"`
	Input               hexutil.Bytes   `json:"input,omitempty"`
	Output              hexutil.Bytes   `json:"output,omitempty"`
	Value               *hexutil.Big    `json:"value"`
	Gas                 hexutil.Uint64  `json:"gas"`
	GasUsed             hexutil.Uint64  `json:"gasUsed"`
	Error               string          `json:"error,omitempty"`
	Subtraces           int             `json:"subtraces"`
	TransactionHash     common.Hash     `json:"transactionHash"`
	BlockNumber         uint64          `json:"blockNumber"`
	TransactionPosition uint            `json:"transactionPosition"`
}

// RawLog is the wire shape of one entry in a transaction receipt's log
// array.
type RawLog struct {
	Address  common.Address `json:"address"`
	Topics   []common.Hash  `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
	LogIndex hexutil.Uint   `json:"logIndex"`
}

// RawReceipt carries the fields the Evaluator needs that don't live on
// individual frames.
type RawReceipt struct {
	GasUsed  hexutil.Uint64 `json:"gasUsed"`
	GasPrice *hexutil.Big   `json:"effectiveGasPrice"`
	Status   hexutil.Uint64 `json:"status"`
}

func parseCallType(s string) CallType {
	switch s {
	case "call", "":
		return CallTypeCall
	case "callcode":
		return CallTypeCallCode
	case "delegatecall":
		return CallTypeDelegateCall
	case "staticcall":
		return CallTypeStaticCall
	default:
		return CallTypeCall
	}
}
