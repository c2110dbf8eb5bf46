package prices

import "errors"

// ErrNoPool is returned (never wrapped with an RPC error) when the
// router call reverts or decodes to an empty amounts array - the
// caller has no WETH-paired route for the token at that block. This is
// not an error condition for the oracle itself; Quote reports it via
// found=false rather than a non-nil error.
var ErrNoPool = errors.New("prices: no route to WETH for token")

// ErrPriceUnavailable is returned when every retry against the
// underlying ContractCaller failed for reasons other than a revert
// (transport errors, context deadlines).
var ErrPriceUnavailable = errors.New("prices: price unavailable after retries")
