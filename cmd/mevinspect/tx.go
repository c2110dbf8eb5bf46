package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

func newTxCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Inspect a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(common.FromHex(args[0])) != common.HashLength {
				return fmt.Errorf("%w: %q is not a transaction hash", errConfig, args[0])
			}
			hash := common.HexToHash(args[0])

			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			eval, err := a.inspectOne(cmd.Context(), hash)
			if errors.Is(err, trace.ErrIgnoredTarget) {
				fmt.Printf("%s targets an ignored aggregator, nothing to inspect\n", hash.Hex())
				return nil
			}
			if err != nil {
				return err
			}
			printEvaluation(eval)
			return nil
		},
	}
}
