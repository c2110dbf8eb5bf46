package sandwich

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func hash(b byte) common.Hash {
	var h common.Hash
	h[31] = b
	return h
}

// tradeInspection builds a processed-looking Inspection holding exactly
// one Trade by sender through pool, swapping amountIn of tokenIn for
// amountOut of tokenOut.
func tradeInspection(h common.Hash, pos uint, sender, pool, tokenIn, tokenOut common.Address, amountIn, amountOut uint64) *trace.Inspection {
	t1 := trace.Transfer{From: sender, To: pool, Token: tokenIn, Amount: uint256.NewInt(amountIn)}
	t2 := trace.Transfer{From: pool, To: sender, Token: tokenOut, Amount: uint256.NewInt(amountOut)}
	return &trace.Inspection{
		Hash:                h,
		TransactionPosition: pos,
		Sender:              sender,
		Actions: []trace.Classification{
			trace.NewKnown(trace.NewTrade(t1, t2), trace.TraceAddress{}),
		},
	}
}

func TestDetectSimpleSandwich(t *testing.T) {
	attacker, victim := addr(1), addr(2)
	pool, weth, dai := addr(10), addr(20), addr(21)

	insps := []*trace.Inspection{
		tradeInspection(hash(1), 0, attacker, pool, weth, dai, 100, 3000),
		tradeInspection(hash(2), 1, victim, pool, weth, dai, 50, 1400),
		tradeInspection(hash(3), 2, attacker, pool, dai, weth, 3000, 110),
	}

	got := Detect(insps)
	if len(got) != 1 {
		t.Fatalf("Detect = %d sandwiches, want 1", len(got))
	}
	s := got[0]
	if s.Attacker != attacker {
		t.Errorf("attacker = %s, want %s", s.Attacker.Hex(), attacker.Hex())
	}
	if s.Frontrun != hash(1) || s.Backrun != hash(3) {
		t.Errorf("legs = %s/%s, want %s/%s", s.Frontrun.Hex(), s.Backrun.Hex(), hash(1).Hex(), hash(3).Hex())
	}
	if len(s.Victims) != 1 || s.Victims[0] != hash(2) {
		t.Errorf("victims = %v, want [%s]", s.Victims, hash(2).Hex())
	}
	if !s.Profit.Eq(uint256.NewInt(10)) {
		t.Errorf("profit = %s, want 10", s.Profit.Dec())
	}
}

func TestDetectRequiresVictim(t *testing.T) {
	attacker := addr(1)
	pool, weth, dai := addr(10), addr(20), addr(21)

	insps := []*trace.Inspection{
		tradeInspection(hash(1), 0, attacker, pool, weth, dai, 100, 3000),
		tradeInspection(hash(3), 2, attacker, pool, dai, weth, 3000, 110),
	}

	if got := Detect(insps); len(got) != 0 {
		t.Fatalf("Detect = %d sandwiches on a victimless round trip, want 0", len(got))
	}
}

func TestDetectIgnoresOppositeDirectionVictim(t *testing.T) {
	attacker, other := addr(1), addr(2)
	pool, weth, dai := addr(10), addr(20), addr(21)

	insps := []*trace.Inspection{
		tradeInspection(hash(1), 0, attacker, pool, weth, dai, 100, 3000),
		// Trades against the frontrun's direction: not squeezed.
		tradeInspection(hash(2), 1, other, pool, dai, weth, 1400, 50),
		tradeInspection(hash(3), 2, attacker, pool, dai, weth, 3000, 110),
	}

	if got := Detect(insps); len(got) != 0 {
		t.Fatalf("Detect = %d sandwiches, want 0", len(got))
	}
}

func TestDetectSeparatePools(t *testing.T) {
	attacker, victim := addr(1), addr(2)
	poolA, poolB := addr(10), addr(11)
	weth, dai := addr(20), addr(21)

	insps := []*trace.Inspection{
		tradeInspection(hash(1), 0, attacker, poolA, weth, dai, 100, 3000),
		// Victim trades a different pool entirely.
		tradeInspection(hash(2), 1, victim, poolB, weth, dai, 50, 1400),
		tradeInspection(hash(3), 2, attacker, poolA, dai, weth, 3000, 110),
	}

	if got := Detect(insps); len(got) != 0 {
		t.Fatalf("Detect = %d sandwiches, want 0", len(got))
	}
}

func TestDetectUnprofitableSandwichClampsToZero(t *testing.T) {
	attacker, victim := addr(1), addr(2)
	pool, weth, dai := addr(10), addr(20), addr(21)

	insps := []*trace.Inspection{
		tradeInspection(hash(1), 0, attacker, pool, weth, dai, 100, 3000),
		tradeInspection(hash(2), 1, victim, pool, weth, dai, 50, 1400),
		tradeInspection(hash(3), 2, attacker, pool, dai, weth, 3000, 90),
	}

	got := Detect(insps)
	if len(got) != 1 {
		t.Fatalf("Detect = %d sandwiches, want 1", len(got))
	}
	if !got[0].Profit.IsZero() {
		t.Errorf("profit = %s, want 0", got[0].Profit.Dec())
	}
}
