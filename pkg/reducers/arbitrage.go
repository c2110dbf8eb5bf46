package reducers

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Arbitrage promotes a chain of Trades that closes a token cycle - the
// output token of the last trade equals the input token of the first -
// into a single Arbitrage action, pruning every Trade/Transfer in
// between. The cycle must also return to the sender who started it;
// that is checked explicitly rather than assumed, even though in
// practice a trader's own trades always come back to them.
type Arbitrage struct{}

func NewArbitrage() *Arbitrage { return &Arbitrage{} }

func (a *Arbitrage) Reduce(ctx context.Context, insp *trace.Inspection) error {
	snapshot := make([]trace.Classification, len(insp.Actions))
	copy(snapshot, insp.Actions)

	type pruneRange struct{ lo, hi int }
	var ranges []pruneRange

	for i := range insp.Actions {
		trade, ok := asTrade(insp.Actions[i])
		if !ok {
			continue
		}

		j, closing := findTrade(snapshot, i+1, func(t trace.Trade) bool {
			return t.T2.Token == trade.T1.Token
		})
		if j < 0 {
			continue
		}
		// A length-1 cycle (a trade trading with itself) never matches
		// since the search starts at i+1.
		if !chainLinks(snapshot, i, j) {
			// A trade between the opening and closing legs doesn't hand
			// its output to the next hop's input - the span isn't one
			// contiguous token chain, just trades that happen to share
			// endpoints.
			continue
		}
		if !closing.T2.Amount.Gt(trade.T1.Amount) {
			continue
		}
		if closing.T2.To != trade.T1.From {
			// The cycle doesn't actually return to whoever funded it;
			// not an arbitrage this reducer can attribute.
			continue
		}

		insp.Actions[i] = trace.NewKnown(trace.NewArbitrage(trace.Arbitrage{
			Profit: trace.SaturatingSub(closing.T2.Amount, trade.T1.Amount),
			Token:  closing.T2.Token,
			To:     closing.T2.To,
		}), insp.Actions[i].TraceAddress)
		ranges = append(ranges, pruneRange{i + 1, j + 1})
	}

	for _, r := range ranges {
		for k := r.lo; k < r.hi && k < len(insp.Actions); k++ {
			switch insp.Actions[k].Kind {
			case trace.Known:
				switch insp.Actions[k].Action.Kind {
				case trace.ActionArbitrage, trace.ActionTrade, trace.ActionTransfer:
					insp.Actions[k] = trace.NewPrune(insp.Actions[k].TraceAddress)
				}
			case trace.Unknown:
				insp.Actions[k] = trace.NewPrune(insp.Actions[k].TraceAddress)
			}
		}
	}
	return nil
}

// chainLinks reports whether the Trades at positions lo through hi
// (inclusive) form one contiguous chain: every trade's output token is
// the next trade's input token. Non-trade entries in the span are
// skipped.
func chainLinks(actions []trace.Classification, lo, hi int) bool {
	prev, ok := asTrade(actions[lo])
	if !ok {
		return false
	}
	for k := lo + 1; k <= hi && k < len(actions); k++ {
		next, ok := asTrade(actions[k])
		if !ok {
			continue
		}
		if prev.T2.Token != next.T1.Token {
			return false
		}
		prev = next
	}
	return true
}

func findTrade(actions []trace.Classification, start int, pred func(trace.Trade) bool) (int, *trace.Trade) {
	for i := start; i < len(actions); i++ {
		trade, ok := asTrade(actions[i])
		if !ok {
			continue
		}
		if pred(*trade) {
			return i, trade
		}
	}
	return -1, nil
}
