package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/router/app"
	routerkeeper "github.com/paw-chain/router/x/router/keeper"
	routertypes "github.com/paw-chain/router/x/router/types"
)

// QuoteCmd groups the read-only pricing commands.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price swaps without executing them",
	}
	cmd.AddCommand(
		singleQuoteCmd("amount-out [amount-in] [reserve-in] [reserve-out]",
			"Output of one swap, after the 0.3% fee, rounded down", routerkeeper.GetAmountOut),
		singleQuoteCmd("amount-in [amount-out] [reserve-in] [reserve-out]",
			"Input one swap needs to yield amount-out, rounded up", routerkeeper.GetAmountIn),
		singleQuoteCmd("ratio [amount-a] [reserve-a] [reserve-b]",
			"Amount of B proportional to amount-a at the reserve ratio", routerkeeper.Quote),
		pathQuoteCmd("amounts-out [amount-in] [path]",
			"Amounts along a comma separated path for an exact input", true),
		pathQuoteCmd("amounts-in [amount-out] [path]",
			"Amounts along a comma separated path for an exact output", false),
	)
	return cmd
}

func singleQuoteCmd(use, short string, fn func(a, b, c math.Int) (math.Int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]math.Int, len(args))
			for i, arg := range args {
				v, err := app.ParseAmount(arg)
				if err != nil {
					return err
				}
				values[i] = v
			}
			out, err := fn(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// pathQuoteCmd prices a path against the pools seeded by the config genesis.
func pathQuoteCmd(use, short string, exactInput bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := app.ParseAmount(args[0])
			if err != nil {
				return err
			}
			path, err := routertypes.ParsePath(args[1])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := app.New(cfg, log.NewNopLogger())
			if err != nil {
				return err
			}

			var amounts []math.Int
			err = a.Query(func(ctx sdk.Context) error {
				if exactInput {
					amounts, err = a.RouterKeeper.GetAmountsOut(ctx, amount, path)
				} else {
					amounts, err = a.RouterKeeper.GetAmountsIn(ctx, amount, path)
				}
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(formatAmounts(amounts), ","))
			return nil
		},
	}
}

func formatAmounts(amounts []math.Int) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.String()
	}
	return out
}
