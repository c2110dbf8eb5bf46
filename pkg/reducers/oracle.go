package reducers

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PriceOracle is the historical price lookup the liquidation reducer
// needs to decide whether a Liquidation's collateral payout was worth
// more, in ETH, than what was repaid. It is satisfied by
// *prices.Oracle; the interface lives here, not in package prices, so
// reducers doesn't import a concrete RPC-backed implementation it only
// ever calls through.
//
// Quote returns found=false (no error) when the token has no WETH pool
// at the given block; absence of a pool is not a failure. A
// non-nil error means the oracle exhausted its retries against a live
// RPC failure; the liquidation reducer treats that the same as "not
// profitable" rather than failing the whole reduction pass.
type PriceOracle interface {
	Quote(ctx context.Context, token common.Address, block uint64) (price *uint256.Int, found bool, err error)
}
