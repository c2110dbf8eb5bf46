// Package trace defines the typed representation of an EVM execution
// trace and the Inspection it is lifted into: call frames addressed by
// their position in the trace tree, event logs, and the mutable
// classification slot each frame carries through the inspector and
// reducer phases.
package trace

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallType is the kind of call a frame represents. Reward and Suicide
// show up as pseudo-calls in OpenEthereum-style trace backends.
type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeCallCode
	CallTypeDelegateCall
	CallTypeStaticCall
	CallTypeCreate
	CallTypeReward
	CallTypeSuicide
)

func (c CallType) String() string {
	switch c {
	case CallTypeCall:
		return "call"
	case CallTypeCallCode:
		return "callcode"
	case CallTypeDelegateCall:
		return "delegatecall"
	case CallTypeStaticCall:
		return "staticcall"
	case CallTypeCreate:
		return "create"
	case CallTypeReward:
		return "reward"
	case CallTypeSuicide:
		return "suicide"
	default:
		return "unknown"
	}
}

// Status is a frame or transaction-level execution outcome.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusReverted
	StatusOutOfGas
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusReverted:
		return "reverted"
	case StatusOutOfGas:
		return "outofgas"
	default:
		return "unknown"
	}
}

// TraceAddress is the path from the trace root to a frame, expressed as
// child indices. The empty slice addresses the root.
type TraceAddress []int

// Equal reports whether two addresses name the same frame.
func (t TraceAddress) Equal(o TraceAddress) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Less orders addresses lexicographically on the integer sequence,
// which is depth-first pre-order over the trace tree.
func (t TraceAddress) Less(o TraceAddress) bool {
	for i := 0; i < len(t) && i < len(o); i++ {
		if t[i] != o[i] {
			return t[i] < o[i]
		}
	}
	return len(t) < len(o)
}

// IsSubtraceOf reports whether t is a strict descendant of parent.
func (t TraceAddress) IsSubtraceOf(parent TraceAddress) bool {
	if len(t) <= len(parent) {
		return false
	}
	for i := range parent {
		if t[i] != parent[i] {
			return false
		}
	}
	return true
}

// Parent returns the address one level up, or false if t is the root.
func (t TraceAddress) Parent() (TraceAddress, bool) {
	if len(t) == 0 {
		return nil, false
	}
	return t[:len(t)-1], true
}

// Clone returns an independent copy, since callers frequently append to
// a parent address to build a child's.
func (t TraceAddress) Clone() TraceAddress {
	out := make(TraceAddress, len(t))
	copy(out, t)
	return out
}

// Child returns a new address naming the i-th child of t.
func (t TraceAddress) Child(i int) TraceAddress {
	out := make(TraceAddress, len(t)+1)
	copy(out, t)
	out[len(t)] = i
	return out
}

// Frame is one node of the trace tree: a single contract-to-contract
// invocation. Its classification lives in the parallel Inspection.Actions
// slice, addressed by TraceAddress, rather than on the Frame itself - see
// Classification's doc comment for why.
type Frame struct {
	TraceAddress TraceAddress
	CallType     CallType
	From         common.Address
	To           common.Address
	Input        []byte
	Output       []byte
	Value        *uint256.Int
	GasUsed      *uint256.Int
	Status       Status
	Subtraces    int
}

// Selector returns the first 4 bytes of Input, or false if calldata is
// shorter than a selector (plain ETH transfer, or malformed call).
func (f *Frame) Selector() ([4]byte, bool) {
	var sel [4]byte
	if len(f.Input) < 4 {
		return sel, false
	}
	copy(sel[:], f.Input[:4])
	return sel, true
}

// Log is one event emitted during the transaction.
type Log struct {
	Address   common.Address
	Signature common.Hash // topic0
	Topics    []common.Hash
	Data      []byte
	LogIndex  uint
}
