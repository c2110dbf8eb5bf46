package trace

import (
	"github.com/ethereum/go-ethereum/common"
)

// Inspection is the structured result of lifting a raw trace + its logs
// into typed frames, prior to (and then, through, and after) the
// inspector/reducer pipeline runs over it.
type Inspection struct {
	Status Status

	// Frames is the flat, position-stable list of call frames in
	// depth-first pre-order of TraceAddress. Parent/child relations are
	// derived from TraceAddress, never stored as pointers.
	Frames []Frame

	// Actions is parallel to Frames while Kind == Unknown; after the
	// reducer phase some entries are Prune and a composite Known sits at
	// the index of the frame that absorbed its descendants.
	Actions []Classification

	Protocols map[Protocol]struct{}

	Hash                common.Hash
	Block               uint64
	TransactionPosition uint

	Sender    common.Address
	Contract  common.Address
	ProxyImpl *common.Address

	Logs []Log
}

// AddProtocol records that protocol p played a part in this
// transaction.
func (insp *Inspection) AddProtocol(p Protocol) {
	if insp.Protocols == nil {
		insp.Protocols = make(map[Protocol]struct{})
	}
	insp.Protocols[p] = struct{}{}
}

// HasProtocol reports whether p was recorded via AddProtocol.
func (insp *Inspection) HasProtocol(p Protocol) bool {
	_, ok := insp.Protocols[p]
	return ok
}

// Known returns the trace addresses and actions of every Known
// classification, in Actions order.
func (insp *Inspection) Known() []Classification {
	out := make([]Classification, 0, len(insp.Actions))
	for _, a := range insp.Actions {
		if a.Kind == Known {
			out = append(out, a)
		}
	}
	return out
}

// Unknown returns every still-Unknown classification.
func (insp *Inspection) Unknown() []Classification {
	out := make([]Classification, 0, len(insp.Actions))
	for _, a := range insp.Actions {
		if a.Kind == Unknown {
			out = append(out, a)
		}
	}
	return out
}

// FrameAt returns the frame whose TraceAddress matches addr, if any.
// Frames are sorted, so this could binary search; a linear scan is used
// since traces are small (a handful to a few hundred frames) and this
// keeps the pruning/reducer code simple.
func (insp *Inspection) FrameAt(addr TraceAddress) (*Frame, bool) {
	for i := range insp.Frames {
		if insp.Frames[i].TraceAddress.Equal(addr) {
			return &insp.Frames[i], true
		}
	}
	return nil, false
}

// PruneSubcalls marks every strict descendant of addr as Prune. Used by
// inspectors once a composite action has absorbed its subtree. Only
// strict descendants are touched, never the frame itself.
func (insp *Inspection) PruneSubcalls(addr TraceAddress) {
	for i := range insp.Actions {
		a := &insp.Actions[i]
		if a.TraceAddress.IsSubtraceOf(addr) {
			a.Kind = Prune
			a.Action = SpecificAction{}
		}
	}
}

// Compact drops every Prune entry and every Unknown entry whose frame
// used exactly the 2300-gas stipend (the call-depth noise left behind
// by low-level `.transfer()`/`.send()`, already accounted for by the
// transfer that spent it).
func (insp *Inspection) Compact() {
	frameByAddr := make(map[string]*Frame, len(insp.Frames))
	for i := range insp.Frames {
		frameByAddr[addrKey(insp.Frames[i].TraceAddress)] = &insp.Frames[i]
	}

	kept := insp.Actions[:0:0]
	for _, a := range insp.Actions {
		switch a.Kind {
		case Prune:
			continue
		case Unknown:
			if f, ok := frameByAddr[addrKey(a.TraceAddress)]; ok && f.GasUsed != nil && f.GasUsed.IsUint64() && f.GasUsed.Uint64() == 2300 {
				continue
			}
		}
		kept = append(kept, a)
	}
	insp.Actions = kept
}

func addrKey(addr TraceAddress) string {
	b := make([]byte, 0, len(addr)*4)
	for _, v := range addr {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(b)
}
