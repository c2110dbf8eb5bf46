package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flashbots/mev-inspect-go/pkg/sandwich"
	"github.com/flashbots/mev-inspect-go/pkg/store"
	"github.com/flashbots/mev-inspect-go/pkg/trace"
	"github.com/flashbots/mev-inspect-go/pkg/tracesource"
)

// blockWorkers bounds the per-block fan-out. Transactions within a
// block are independent once traced; the oracle and registry they share
// are safe for concurrent use.
const blockWorkers = 8

func newBlocksCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks <from> <to>",
		Short: "Inspect every transaction in an inclusive block range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad block number %q", errConfig, args[0])
			}
			to, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad block number %q", errConfig, args[1])
			}
			if to < from {
				return fmt.Errorf("%w: empty range %d..%d", errConfig, from, to)
			}

			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var failed []failure
			for b := from; b <= to; b++ {
				blockFailures, err := a.inspectBlock(cmd.Context(), b)
				if err != nil {
					return err
				}
				failed = append(failed, blockFailures...)
			}

			if len(failed) > 0 {
				fmt.Printf("%d transaction(s) failed:\n", len(failed))
				for _, f := range failed {
					fmt.Printf("  %s: %v\n", f.hash.Hex(), f.err)
				}
			}
			return nil
		},
	}
}

type failure struct {
	hash common.Hash
	err  error
}

// inspectBlock runs the pipeline over every transaction in one block,
// then the sandwich post-pass over the block's processed inspections.
// Per-transaction failures are recorded and skipped; only storage
// failures and an unreachable block abort the run.
func (a *app) inspectBlock(ctx context.Context, number uint64) ([]failure, error) {
	var block blockMeta
	if err := a.client.CallContext(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false); err != nil {
		return nil, fmt.Errorf("%w: eth_getBlockByNumber %d: %v", tracesource.ErrTraceFetch, number, err)
	}

	var (
		mu     sync.Mutex
		insps  []*trace.Inspection
		failed []failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blockWorkers)
	for _, hash := range block.Transactions {
		hash := hash
		g.Go(func() error {
			eval, err := a.inspectOne(gctx, hash)
			if err != nil {
				// Storage failures poison every later write; stop the
				// run. Everything else is recorded per transaction.
				if errors.Is(err, store.ErrStorage) {
					return err
				}
				if errors.Is(err, trace.ErrIgnoredTarget) {
					log.Debug("Ignored target, skipping", "txHash", hash.Hex(), "block", number)
					return nil
				}
				if errors.Is(err, trace.ErrMalformedTrace) {
					log.Warn("Malformed trace, skipping", "txHash", hash.Hex(), "block", number)
				}
				mu.Lock()
				failed = append(failed, failure{hash: hash, err: err})
				mu.Unlock()
				return nil
			}
			printEvaluation(eval)
			mu.Lock()
			insps = append(insps, eval.Inspection)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(insps, func(i, j int) bool {
		return insps[i].TransactionPosition < insps[j].TransactionPosition
	})
	for _, s := range sandwich.Detect(insps) {
		fmt.Printf("sandwich block=%d attacker=%s pool=%s frontrun=%s victims=%d backrun=%s profit=%s\n",
			number, s.Attacker.Hex(), s.Pool.Hex(), s.Frontrun.Hex(), len(s.Victims), s.Backrun.Hex(), s.Profit.Dec())
	}

	return failed, nil
}
