// Package tracesource implements C8's trace source: fetching a raw
// trace plus its receipt and logs for a transaction, either live from
// an archival node over JSON-RPC or from a local, content-addressed
// disk cache.
package tracesource

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// Source fetches everything pkg/trace.Build needs for one transaction.
type Source interface {
	Trace(ctx context.Context, hash common.Hash) ([]trace.RawFrame, []trace.RawLog, trace.RawReceipt, error)
}
