package trace

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// IgnoredTargets is the set of addresses whose transactions Build
// rejects outright: aggregators/routers whose sub-calls are already
// attributed to the underlying protocol they route through, so
// inspecting the aggregator transaction itself would double-count the
// trade. pkg/addresses re-exports this set as FILTER alongside its
// other address tables.
var IgnoredTargets = map[common.Address]struct{}{
	common.HexToAddress("0x11111254369792b2ca5d084ab5eea397ca8fa48b"): {}, // 1inch
}

// Build lifts a raw trace (as returned by trace_transaction or
// debug_traceTransaction, already flattened into one entry per frame)
// plus the transaction's receipt logs into an Inspection.
//
// Frames are re-sorted by TraceAddress in lexicographic order before
// anything else happens, since depth-first pre-order on a tree of
// child-index paths is exactly that ordering; most RPC backends already
// return frames in this order, but callers (disk cache replay, test
// fixtures) aren't required to hand them in pre-sorted.
func Build(hash common.Hash, block uint64, txPos uint, raw []RawFrame, logs []RawLog) (*Inspection, error) {
	if len(raw) == 0 {
		return nil, ErrMalformedTrace
	}

	sorted := make([]RawFrame, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool {
		return TraceAddress(sorted[i].TraceAddress).Less(TraceAddress(sorted[j].TraceAddress))
	})

	root := sorted[0]
	if len(root.TraceAddress) != 0 {
		return nil, ErrMalformedTrace
	}
	if root.Type != "call" && root.Type != "" {
		return nil, ErrMalformedTrace
	}
	if _, ignored := IgnoredTargets[root.To]; ignored {
		return nil, ErrIgnoredTarget
	}

	present := make(map[string]struct{}, len(sorted))
	for _, f := range sorted {
		present[addrKey(f.TraceAddress)] = struct{}{}
	}
	for _, f := range sorted {
		addr := TraceAddress(f.TraceAddress)
		if parent, ok := addr.Parent(); ok {
			if _, found := present[addrKey(parent)]; !found {
				return nil, ErrMalformedTrace
			}
		}
	}

	insp := &Inspection{
		Hash:                hash,
		Block:               block,
		TransactionPosition: txPos,
		Sender:              root.From,
		Contract:            root.To,
		Status:              StatusSuccess,
	}

	for _, f := range sorted {
		addr := TraceAddress(f.TraceAddress)
		frame := Frame{
			TraceAddress: addr,
			CallType:     callTypeOf(f),
			From:         f.From,
			To:           f.To,
			Input:        f.Input,
			Output:       f.Output,
			Value:        U256FromBig(valueOf(f.Value)),
			GasUsed:      U256FromBig(new(big.Int).SetUint64(uint64(f.GasUsed))),
			Status:       statusOf(f),
			Subtraces:    f.Subtraces,
		}
		insp.Frames = append(insp.Frames, frame)
		insp.Actions = append(insp.Actions, NewUnknown(addr.Clone()))

		if len(addr) == 0 && frame.Status == StatusReverted {
			insp.Status = StatusReverted
		}

		if insp.ProxyImpl == nil && frame.CallType == CallTypeDelegateCall && frame.From == insp.Contract {
			impl := frame.To
			insp.ProxyImpl = &impl
		}
	}

	for _, l := range logs {
		var sig common.Hash
		if len(l.Topics) > 0 {
			sig = l.Topics[0]
		}
		insp.Logs = append(insp.Logs, Log{
			Address:   l.Address,
			Signature: sig,
			Topics:    l.Topics,
			Data:      l.Data,
			LogIndex:  uint(l.LogIndex),
		})
	}

	return insp, nil
}

func callTypeOf(f RawFrame) CallType {
	switch f.Type {
	case "create":
		return CallTypeCreate
	case "suicide":
		return CallTypeSuicide
	case "reward":
		return CallTypeReward
	case "call", "":
		return parseCallType(f.CallType)
	default:
		return parseCallType(f.CallType)
	}
}

func statusOf(f RawFrame) Status {
	if f.Error == "" {
		return StatusSuccess
	}
	if f.Error == "out of gas" || f.Error == "Out of gas" {
		return StatusOutOfGas
	}
	return StatusReverted
}

func valueOf(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
