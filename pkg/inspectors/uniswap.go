package inspectors

import (
	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Uniswap recognizes Uniswap V2 (and, via Sushiswap, its forks) pair
// swaps and router calls. It does not itself produce a Trade: it marks
// the token movements inside a swap as plain Transfers and prunes the
// router/pair call frame that wrapped them, leaving reducers.Trade to
// pair the adjacent transfers up.
type Uniswap struct {
	protocol trace.Protocol
	erc20    *ERC20
	registry *abiregistry.Registry
}

func NewUniswap() *Uniswap {
	return newUniswapLike(trace.ProtocolUniswap)
}

// NewSushiswap returns a Uniswap inspector tagged with the Sushiswap
// protocol. Sushiswap forked Uniswap V2's contracts byte for byte, so
// the decode logic is identical; only the protocol tag attached to
// recognized swaps differs. A swap at an address listed in
// addresses.UNISWAP takes that entry's protocol; this tag applies only
// to pair swaps at addresses the table does not list.
func NewSushiswap() *Uniswap {
	return newUniswapLike(trace.ProtocolSushiswap)
}

func newUniswapLike(p trace.Protocol) *Uniswap {
	return &Uniswap{
		protocol: p,
		erc20:    NewERC20(),
		registry: abiregistry.NewUniswapRegistry(p),
	}
}

func (u *Uniswap) Classify(insp *trace.Inspection) {
	for i := range insp.Actions {
		if insp.Actions[i].Kind != trace.Unknown {
			continue
		}
		addr := insp.Actions[i].TraceAddress
		frame, ok := insp.FrameAt(addr)
		if !ok {
			continue
		}

		if action, ok := u.erc20.tryParse(frame); ok {
			insp.Actions[i] = trace.NewKnown(action, addr)
			continue
		}

		if protocol, ok := u.isUniCall(frame); ok {
			insp.Actions[i] = trace.NewPrune(addr)
			insp.AddProtocol(protocol)
		}
	}
}

// isUniCall reports whether frame is a Pair.swap call (at any address)
// or a Router swap* call to a known Uniswap-family address.
func (u *Uniswap) isUniCall(f *trace.Frame) (trace.Protocol, bool) {
	protocol, known := addresses.UNISWAP[f.To]
	if !known {
		protocol = u.protocol
	}

	decoded, err := u.registry.DecodeCall(f.Input)
	if err != nil {
		return trace.ProtocolUnknown, false
	}

	if decoded.Contract == "pair" && decoded.Method.Name == "swap" {
		data, _ := decoded.Args[3].([]byte)
		if len(data) > 0 {
			return trace.ProtocolFlashloan, true
		}
		return protocol, true
	}

	if !known {
		return trace.ProtocolUnknown, false
	}

	if decoded.Contract == "router" {
		name := decoded.Method.Name
		if hasPrefix(name, "swapETH") || hasPrefix(name, "swapExactETH") || hasPrefix(name, "swap") {
			return protocol, true
		}
	}

	return trace.ProtocolUnknown, false
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
