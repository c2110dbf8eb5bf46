package trace

import (
	"math/big"

	"github.com/holiman/uint256"
)

// ZeroU256 returns a fresh zero-valued uint256. uint256.Int's zero
// value is already usable directly; this constructor exists purely for
// symmetry with the checked helpers below.
func ZeroU256() *uint256.Int {
	return new(uint256.Int)
}

// U256FromBig converts a big.Int coming off the wire (RPC/ABI decode)
// into a uint256.Int, saturating at the U256 bound instead of silently
// truncating. A nil or negative input yields zero.
func U256FromBig(v *big.Int) *uint256.Int {
	if v == nil || v.Sign() < 0 {
		return ZeroU256()
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return out
}

// SaturatingSub returns a-b, or zero if b > a, so profit computations
// never go negative via wraparound.
func SaturatingSub(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return ZeroU256()
	}
	return new(uint256.Int).Sub(a, b)
}

// SaturatingAdd returns a+b, saturating at the U256 max on overflow.
func SaturatingAdd(a, b *uint256.Int) *uint256.Int {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return sum
}

// SaturatingMul returns a*b, saturating at the U256 max on overflow -
// used for gas_used*gas_price, where both operands are controlled by
// the network but still worth guarding against pathological inputs.
func SaturatingMul(a, b *uint256.Int) *uint256.Int {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return product
}

// OneEther is 10^18, the fixed-point base the price oracle quotes
// against regardless of a token's real decimals (pkg/prices rescales
// every quote to "ETH value of 1e18 raw token units" before caching it,
// so every caller converts amounts the same way).
var OneEther = uint256.NewInt(1_000_000_000_000_000_000)

// ConvertToETH returns the ETH value (in wei) of amount raw token units,
// given priceOneEther - the ETH value of 1e18 raw units of that token,
// as returned by prices.Oracle.Quote. Saturates on overflow rather than
// wrapping, consistent with the rest of this package's arithmetic.
func ConvertToETH(priceOneEther, amount *uint256.Int) *uint256.Int {
	product, overflow := new(uint256.Int).MulDivOverflow(amount, priceOneEther, OneEther)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return product
}
