// Package prices implements the historical, on-chain price oracle
// (C6): quoting a token's ETH value at a past block by calling a
// Uniswap V2-shaped router's getAmountsOut at that block, rather than
// an off-chain price feed.
package prices

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"golang.org/x/sync/singleflight"

	"github.com/flashbots/mev-inspect-go/pkg/abiregistry"
	"github.com/flashbots/mev-inspect-go/pkg/addresses"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

const defaultCacheSize = 4096

// retryBackoff is the bounded exponential backoff schedule for
// transient RPC failures. A revert ends in ErrNoPool and is never
// retried; only transport-level errors walk this list.
var retryBackoff = []time.Duration{50 * time.Millisecond, 200 * time.Millisecond, 800 * time.Millisecond}

type priceKey struct {
	token common.Address
	block uint64
}

// Oracle quotes a token's ETH value at a past block via a cached,
// single-flighted call to a router contract. It holds no per-request
// state and is safe for concurrent use: the cache and singleflight
// group serialize their own access internally.
type Oracle struct {
	caller bind.ContractCaller
	router common.Address
	abi    *abiregistry.Registry

	cache *lru.Cache[priceKey, *uint256.Int]
	group singleflight.Group
}

// New builds an Oracle that quotes through router (a Uniswap V2-shaped
// contract exposing getAmountsOut) via caller. cacheSize <= 0 falls
// back to a sensible default rather than an unbounded cache, since an
// unbounded cache keyed by (token, block) grows without limit as new
// blocks are processed.
func New(caller bind.ContractCaller, router common.Address, cacheSize int) (*Oracle, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[priceKey, *uint256.Int](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("prices: building cache: %w", err)
	}
	return &Oracle{
		caller: caller,
		router: router,
		abi:    abiregistry.NewUniswapRegistry(trace.ProtocolUniswap),
		cache:  cache,
	}, nil
}

// NewDefault builds an Oracle against the canonical Uniswap V2 router.
func NewDefault(caller bind.ContractCaller, cacheSize int) (*Oracle, error) {
	return New(caller, addresses.UniswapV2Router, cacheSize)
}

// Quote returns the ETH value of 1e18 raw units of token at the end of
// block - a fixed-point base chosen independently of the token's real
// decimals, matching trace.OneEther/trace.ConvertToETH's convention so
// every caller converts amounts the same way. found is false, with a
// nil error, when the router has no WETH route for token at that
// block; a non-nil error means every retry against the underlying
// caller failed for a reason other than a revert.
func (o *Oracle) Quote(ctx context.Context, token common.Address, block uint64) (*uint256.Int, bool, error) {
	if token == addresses.WETH || token == addresses.ETH {
		return trace.OneEther, true, nil
	}

	key := priceKey{token: token, block: block}
	if price, ok := o.cache.Get(key); ok {
		return price, price != nil, nil
	}

	groupKey := fmt.Sprintf("%s:%d", token.Hex(), block)
	result, err, _ := o.group.Do(groupKey, func() (interface{}, error) {
		return o.fetch(ctx, token, block)
	})
	if err != nil {
		if errors.Is(err, ErrNoPool) {
			o.cache.Add(key, nil)
			return nil, false, nil
		}
		return nil, false, err
	}

	price := result.(*uint256.Int)
	o.cache.Add(key, price)
	return price, true, nil
}

func (o *Oracle) fetch(ctx context.Context, token common.Address, block uint64) (*uint256.Int, error) {
	router := o.abi.Contracts[1].ABI // "router", see NewUniswapRegistry

	input, err := router.Pack("getAmountsOut", trace.OneEther.ToBig(), []common.Address{token, addresses.WETH})
	if err != nil {
		return nil, fmt.Errorf("prices: packing getAmountsOut: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(retryBackoff); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff[attempt-1]):
			}
		}

		out, err := o.caller.CallContract(ctx, ethereum.CallMsg{To: &o.router, Data: input}, new(big.Int).SetUint64(block))
		if err != nil {
			// A node reports a reverted eth_call as an "execution
			// reverted" error: the router has no route, so don't retry.
			if strings.Contains(err.Error(), "execution reverted") {
				return nil, ErrNoPool
			}
			lastErr = err
			continue
		}
		if len(out) == 0 {
			return nil, ErrNoPool
		}

		values, err := router.Unpack("getAmountsOut", out)
		if err != nil {
			return nil, ErrNoPool
		}
		amounts, ok := values[0].([]*big.Int)
		if !ok || len(amounts) < 2 {
			return nil, ErrNoPool
		}
		return trace.U256FromBig(amounts[len(amounts)-1]), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, lastErr)
}
