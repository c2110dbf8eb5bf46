package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/cobra"

	"github.com/flashbots/mev-inspect-go/pkg/evaluator"
	"github.com/flashbots/mev-inspect-go/pkg/prices"
	"github.com/flashbots/mev-inspect-go/pkg/processor"
	"github.com/flashbots/mev-inspect-go/pkg/store"
	"github.com/flashbots/mev-inspect-go/pkg/tracesource"
)

type options struct {
	url       string
	cache     string
	db        string
	table     string
	reset     bool
	overwrite bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "mevinspect",
		Short:         "Classify mined Ethereum transactions into MEV activity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.url, "url", "u", "", "archival node JSON-RPC URL")
	root.PersistentFlags().StringVarP(&opts.cache, "cache", "c", "", "trace disk cache directory (empty disables caching)")
	root.PersistentFlags().StringVarP(&opts.db, "db", "d", "mevinspect.db", "database path")
	root.PersistentFlags().StringVarP(&opts.table, "table", "D", "", "override the inspections table name")
	root.PersistentFlags().BoolVarP(&opts.reset, "reset", "r", false, "drop and recreate the schema")
	root.PersistentFlags().BoolVarP(&opts.overwrite, "overwrite", "o", false, "overwrite existing rows")

	root.AddCommand(newTxCmd(opts), newBlocksCmd(opts))
	return root
}

// app holds the wired pipeline shared by the tx and blocks commands.
type app struct {
	client *rpc.Client
	src    tracesource.Source
	proc   *processor.Processor
	eval   *evaluator.Evaluator
	store  *store.Store
}

func newApp(ctx context.Context, opts *options) (*app, error) {
	if opts.url == "" {
		return nil, fmt.Errorf("%w: trace source URL is required (-u)", errConfig)
	}

	client, err := rpc.DialContext(ctx, opts.url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", tracesource.ErrTraceFetch, opts.url, err)
	}

	var src tracesource.Source = tracesource.NewRPCSource(client)
	if opts.cache != "" {
		src = tracesource.NewDiskCache(opts.cache, src)
	}

	oracle, err := prices.NewDefault(ethclient.NewClient(client), 0)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: price oracle: %v", errConfig, err)
	}

	st, err := store.Open(ctx, opts.db, store.Config{
		Table:     opts.table,
		Reset:     opts.reset,
		Overwrite: opts.overwrite,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &app{
		client: client,
		src:    src,
		proc:   processor.New(oracle),
		eval:   evaluator.New(oracle),
		store:  st,
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.client.Close()
}
