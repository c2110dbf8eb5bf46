// Package abiregistry holds the per-protocol contract ABIs inspectors
// decode calls and logs against. Each fragment is embedded from a JSON
// file written in canonical Solidity signatures, so go-ethereum's
// accounts/abi package derives the correct 4-byte selectors and topic0
// hashes at parse time instead of anything here hardcoding them.
package abiregistry

import (
	"bytes"
	_ "embed"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

//go:embed abi/erc20.json
var erc20JSON []byte

//go:embed abi/uniswap_pair.json
var uniswapPairJSON []byte

//go:embed abi/uniswap_router.json
var uniswapRouterJSON []byte

//go:embed abi/balancer_pool.json
var balancerPoolJSON []byte

//go:embed abi/curve_pool.json
var curvePoolJSON []byte

//go:embed abi/aave_lendingpool.json
var aaveLendingPoolJSON []byte

//go:embed abi/compound_ctoken.json
var compoundCTokenJSON []byte

//go:embed abi/zeroex_exchange.json
var zeroexExchangeJSON []byte

//go:embed abi/dydx_solo.json
var dydxSoloJSON []byte

// Contract is a named ABI within a protocol: most protocols expose more
// than one contract shape (Uniswap has both its Pair and its Router,
// each with a distinct ABI).
type Contract struct {
	Name string
	ABI  abi.ABI
}

// Registry is the set of contract ABIs known for a single protocol.
type Registry struct {
	Protocol  trace.Protocol
	Contracts []Contract
}

// Decoded is the result of successfully matching a frame's input data
// against one of a Registry's contracts.
type Decoded struct {
	Contract string
	Method   *abi.Method
	Args     []interface{}
}

// DecodedLog is the result of successfully matching a log against one
// of a Registry's contracts.
type DecodedLog struct {
	Contract string
	Event    *abi.Event
	Args     map[string]interface{}
}

func mustParseABI(raw []byte) abi.ABI {
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		panic("abiregistry: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

// All returns the built-in registries for every protocol this project
// classifies, in no particular order.
func All() []*Registry {
	return []*Registry{
		NewERC20Registry(),
		NewUniswapRegistry(trace.ProtocolUniswap),
		NewUniswapRegistry(trace.ProtocolSushiswap),
		NewBalancerRegistry(),
		NewCurveRegistry(),
		NewAaveRegistry(),
		NewCompoundRegistry(),
		NewZeroXRegistry(),
		NewDyDxRegistry(),
	}
}

func NewERC20Registry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolUnknown, // ERC20 has no single owning protocol; every protocol's tokens use it.
		Contracts: []Contract{{Name: "erc20", ABI: mustParseABI(erc20JSON)}},
	}
}

// NewUniswapRegistry builds a registry carrying both the Pair and
// Router ABIs. It's parameterized over the protocol tag since
// Sushiswap is a byte-for-byte fork of the Uniswap V2 contracts and
// reuses the same ABI under a different address set.
func NewUniswapRegistry(p trace.Protocol) *Registry {
	return &Registry{
		Protocol: p,
		Contracts: []Contract{
			{Name: "pair", ABI: mustParseABI(uniswapPairJSON)},
			{Name: "router", ABI: mustParseABI(uniswapRouterJSON)},
		},
	}
}

func NewBalancerRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolBalancer,
		Contracts: []Contract{{Name: "pool", ABI: mustParseABI(balancerPoolJSON)}},
	}
}

func NewCurveRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolCurve,
		Contracts: []Contract{{Name: "pool", ABI: mustParseABI(curvePoolJSON)}},
	}
}

func NewAaveRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolAave,
		Contracts: []Contract{{Name: "lendingpool", ABI: mustParseABI(aaveLendingPoolJSON)}},
	}
}

func NewCompoundRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolCompound,
		Contracts: []Contract{{Name: "ctoken", ABI: mustParseABI(compoundCTokenJSON)}},
	}
}

func NewZeroXRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolZeroX,
		Contracts: []Contract{{Name: "exchange", ABI: mustParseABI(zeroexExchangeJSON)}},
	}
}

func NewDyDxRegistry() *Registry {
	return &Registry{
		Protocol:  trace.ProtocolDyDx,
		Contracts: []Contract{{Name: "solo", ABI: mustParseABI(dydxSoloJSON)}},
	}
}

// DecodeCall tries every contract in the registry against input, in
// order, returning the first match. Contracts within a protocol rarely
// share a selector, so order only matters for pathological collisions.
func (r *Registry) DecodeCall(input []byte) (*Decoded, error) {
	if len(input) < 4 {
		return nil, ErrNoSelector
	}
	var selector [4]byte
	copy(selector[:], input[:4])

	for _, c := range r.Contracts {
		method, err := c.ABI.MethodById(selector[:])
		if err != nil {
			continue
		}
		args, err := method.Inputs.Unpack(input[4:])
		if err != nil {
			continue
		}
		return &Decoded{Contract: c.Name, Method: method, Args: args}, nil
	}
	return nil, ErrUnknownSelector
}

// DecodeLog tries every contract in the registry against a log's
// topic0 + data.
func (r *Registry) DecodeLog(l trace.Log) (*DecodedLog, error) {
	if len(l.Topics) == 0 {
		return nil, ErrUnknownSelector
	}
	for _, c := range r.Contracts {
		event, err := c.ABI.EventByID(l.Signature)
		if err != nil {
			continue
		}
		args := make(map[string]interface{})
		if err := c.ABI.UnpackIntoMap(args, event.Name, l.Data); err != nil {
			continue
		}
		if err := abi.ParseTopicsIntoMap(args, indexedArguments(event.Inputs), l.Topics[1:]); err != nil {
			continue
		}
		return &DecodedLog{Contract: c.Name, Event: event, Args: args}, nil
	}
	return nil, ErrUnknownSelector
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	var out abi.Arguments
	for _, a := range args {
		if a.Indexed {
			out = append(out, a)
		}
	}
	return out
}
