// Package sandwich groups the transactions of one block into sandwich
// patterns: an attacker's frontrun trade, one or more victim trades on
// the same pool in the same direction, and the attacker's closing
// backrun in the opposite direction. It operates over already-processed
// Inspections, so it is a block-level post-pass rather than part of the
// per-transaction pipeline.
package sandwich

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Sandwich is one detected frontrun/victims/backrun triple.
type Sandwich struct {
	Attacker common.Address
	Pool     common.Address

	Frontrun common.Hash
	Victims  []common.Hash
	Backrun  common.Hash

	// Profit is the attacker's gross gain in the frontrun's input
	// token: what the backrun paid out minus what the frontrun put in.
	// Zero when the two legs don't line up token-wise (multi-hop
	// sandwiches settle in a different token).
	Profit *uint256.Int
}

// poolTrade is one Trade flattened to what the matcher cares about.
type poolTrade struct {
	hash      common.Hash
	position  uint
	sender    common.Address
	pool      common.Address
	tokenIn   common.Address
	tokenOut  common.Address
	amountIn  *uint256.Int
	amountOut *uint256.Int
}

// Detect scans one block's Inspections for sandwich patterns. Every
// returned Sandwich has its frontrun strictly before every victim and
// every victim strictly before the backrun, in transaction-position
// order.
func Detect(insps []*trace.Inspection) []Sandwich {
	trades := collectTrades(insps)

	var out []Sandwich
	used := make(map[int]bool)

	for i, front := range trades {
		if used[i] {
			continue
		}
		// The closing leg: same sender, same pool, opposite direction,
		// strictly later in the block.
		back := -1
		for j := i + 1; j < len(trades); j++ {
			t := trades[j]
			if used[j] || t.hash == front.hash {
				continue
			}
			if t.sender == front.sender && t.pool == front.pool &&
				t.tokenIn == front.tokenOut && t.tokenOut == front.tokenIn {
				back = j
				break
			}
		}
		if back < 0 {
			continue
		}

		// Victims: other senders trading the same pool in the same
		// direction as the frontrun, squeezed between the two legs.
		var victims []common.Hash
		for j := i + 1; j < back; j++ {
			t := trades[j]
			if t.sender == front.sender || t.pool != front.pool {
				continue
			}
			if t.tokenIn == front.tokenIn && t.tokenOut == front.tokenOut {
				victims = append(victims, t.hash)
			}
		}
		if len(victims) == 0 {
			continue
		}

		used[i], used[back] = true, true
		out = append(out, Sandwich{
			Attacker: front.sender,
			Pool:     front.pool,
			Frontrun: front.hash,
			Victims:  victims,
			Backrun:  trades[back].hash,
			Profit:   profitOf(front, trades[back]),
		})
	}
	return out
}

// profitOf nets the backrun's payout against the frontrun's outlay when
// both settle in the same token, clamping to zero if the sandwich lost
// money.
func profitOf(front, back poolTrade) *uint256.Int {
	if front.tokenIn != back.tokenOut || front.amountIn == nil || back.amountOut == nil {
		return trace.ZeroU256()
	}
	if !back.amountOut.Gt(front.amountIn) {
		return trace.ZeroU256()
	}
	return trace.SaturatingSub(back.amountOut, front.amountIn)
}

func collectTrades(insps []*trace.Inspection) []poolTrade {
	var trades []poolTrade
	for _, insp := range insps {
		for _, c := range insp.Known() {
			action, ok := c.AsAction()
			if !ok || action.Kind != trace.ActionTrade {
				continue
			}
			t := action.Trade
			trades = append(trades, poolTrade{
				hash:      insp.Hash,
				position:  insp.TransactionPosition,
				sender:    insp.Sender,
				pool:      t.T1.To,
				tokenIn:   t.T1.Token,
				tokenOut:  t.T2.Token,
				amountIn:  t.T1.Amount,
				amountOut: t.T2.Amount,
			})
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].position < trades[j].position
	})
	return trades
}
