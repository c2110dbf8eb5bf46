// Package inspectors classifies individual trace frames into
// protocol-specific SpecificActions. Each Inspector only ever looks at
// one frame (plus its own logs) at a time; coalescing multiple frames
// into a composite action (a Trade out of two Transfers, an Arbitrage
// out of two Trades) is a reducer's job, in package reducers.
package inspectors

import "github.com/flashbots/mev-inspect-go/pkg/trace"

// Inspector claims still-Unknown frames of an Inspection it recognizes,
// classifying them as Known or leaving them Unknown for the next
// inspector in the pipeline.
type Inspector interface {
	// Classify walks insp.Actions, turning entries this inspector
	// recognizes from Unknown into Known, and recording any protocol
	// it observed via insp.AddProtocol. It must never touch an entry
	// another inspector already classified.
	Classify(insp *trace.Inspection)
}

// Default returns the inspectors this project ships with, in the order
// Process runs them. ERC20 goes last: every other inspector decodes
// pool/lending-specific calls first, so a plain-Transfer fallback isn't
// given the chance to misclassify a swap's inner token movements before
// the protocol-specific inspector sees them.
func Default() []Inspector {
	return []Inspector{
		NewUniswap(),
		NewSushiswap(),
		NewBalancer(),
		NewCurve(),
		NewAave(),
		NewCompound(),
		NewZeroX(),
		NewDyDx(),
		NewERC20(),
	}
}
