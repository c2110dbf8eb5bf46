// Package processor orchestrates the inspector and reducer phases over
// a single Inspection: every inspector runs to completion before the
// first reducer starts, and every reducer then runs in turn over the
// classified result. This is the whole of C5 - it owns no state beyond
// the pipelines it was built with, and performs no I/O itself (the
// reducer it hands an oracle to does the only I/O in the pipeline).
package processor

import (
	"context"

	"github.com/flashbots/mev-inspect-go/pkg/inspectors"
	"github.com/flashbots/mev-inspect-go/pkg/reducers"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Processor runs a fixed, ordered pipeline of inspectors then reducers
// over one Inspection at a time. It is stateless beyond that pipeline
// and is safe to share across concurrently-processed Inspections, since
// neither phase touches anything but the Inspection passed to Process.
type Processor struct {
	inspectors []inspectors.Inspector
	reducers   []reducers.Reducer
}

// New builds a Processor from the default inspector and reducer
// pipelines. oracle is threaded through to the liquidation reducer,
// which is the only stage in the pipeline that performs I/O.
func New(oracle reducers.PriceOracle) *Processor {
	return &Processor{
		inspectors: inspectors.Default(),
		reducers:   reducers.Default(oracle),
	}
}

// NewWithPipelines builds a Processor from explicit inspector/reducer
// slices, primarily for tests that want to exercise a subset of the
// pipeline or assert permutation invariance.
func NewWithPipelines(insp []inspectors.Inspector, red []reducers.Reducer) *Processor {
	return &Processor{inspectors: insp, reducers: red}
}

// Process runs every inspector in order, then every reducer in order,
// over insp. It only ever returns an error surfaced by a reducer's I/O
// (a pricing RPC's context being canceled, for example); an inspector
// encountering calldata it doesn't recognize is not an error - unknown
// selectors just leave the frame Unknown.
func (p *Processor) Process(ctx context.Context, insp *trace.Inspection) error {
	for _, inspector := range p.inspectors {
		inspector.Classify(insp)
	}
	for _, reducer := range p.reducers {
		if err := reducer.Reduce(ctx, insp); err != nil {
			return err
		}
	}
	return nil
}
