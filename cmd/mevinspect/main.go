// mevinspect classifies mined Ethereum transactions into MEV activity:
// it fetches execution traces from an archival node, runs them through
// the inspector/reducer pipeline, prices the resulting profits, and
// persists one evaluation row per transaction.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/flashbots/mev-inspect-go/pkg/store"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
	"github.com/flashbots/mev-inspect-go/pkg/tracesource"
)

// Exit codes, one per failure class.
const (
	exitOK             = 0
	exitConfig         = 1
	exitTraceSource    = 2
	exitStore          = 3
	exitMalformedTrace = 4
)

var errConfig = errors.New("configuration error")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mevinspect:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errConfig):
		return exitConfig
	case errors.Is(err, tracesource.ErrTraceFetch):
		return exitTraceSource
	case errors.Is(err, store.ErrStorage):
		return exitStore
	case errors.Is(err, trace.ErrMalformedTrace):
		return exitMalformedTrace
	default:
		return exitConfig
	}
}
