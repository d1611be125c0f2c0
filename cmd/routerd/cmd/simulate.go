package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/router/app"
	routertypes "github.com/paw-chain/router/x/router/types"
)

const (
	flagScenario = "scenario"
	flagStart    = "start"
)

// SimulateCmd replays a scenario against a fresh in-memory router.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a YAML scenario of swaps and liquidity calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString(flagScenario)
			scenario, err := LoadScenario(path)
			if err != nil {
				return err
			}

			start := time.Now().UTC().Truncate(time.Second)
			if s, _ := cmd.Flags().GetString(flagStart); s != "" {
				if start, err = cast.ToTimeE(s); err != nil {
					return fmt.Errorf("invalid --%s: %w", flagStart, err)
				}
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if scenario.Params != nil {
				cfg.Params = *scenario.Params
			}
			if scenario.Genesis != nil {
				cfg.Genesis = *scenario.Genesis
			}
			logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			sim := &simulation{now: start, out: cmd.OutOrStdout()}
			sim.app, err = app.New(cfg, logger, app.WithClock(func() time.Time { return sim.now }))
			if err != nil {
				return err
			}
			return sim.run(scenario.Steps)
		},
	}
	cmd.Flags().String(flagScenario, "", "path to the scenario YAML file")
	cmd.Flags().String(flagStart, "", "block time of the first step (RFC3339), defaults to now")
	_ = cmd.MarkFlagRequired(flagScenario)
	return cmd
}

type simulation struct {
	app *app.App
	now time.Time
	out io.Writer
}

func (s *simulation) run(steps []Step) error {
	failed := 0
	for i, step := range steps {
		advance, err := durationOf("advance", step.Advance, 0)
		if err != nil {
			return fmt.Errorf("step %s: %w", step.label(i), err)
		}
		s.now = s.now.Add(advance)

		var summary string
		err = s.app.Execute(func(ctx sdk.Context) error {
			var err error
			summary, err = s.exec(ctx, step)
			return err
		})

		switch {
		case step.ExpectError != "" && err == nil:
			failed++
			fmt.Fprintf(s.out, "FAIL %s: expected error %q, got %s\n", step.label(i), step.ExpectError, summary)
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			failed++
			fmt.Fprintf(s.out, "FAIL %s: expected error %q, got %v\n", step.label(i), step.ExpectError, err)
		case step.ExpectError != "":
			fmt.Fprintf(s.out, "ok   %s: rejected: %v\n", step.label(i), err)
		case err != nil:
			failed++
			fmt.Fprintf(s.out, "FAIL %s: %v\n", step.label(i), err)
		default:
			fmt.Fprintf(s.out, "ok   %s: %s\n", step.label(i), summary)
		}
	}

	if err := s.printPools(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("scenario: %d of %d steps failed", failed, len(steps))
	}
	return nil
}

func (s *simulation) printPools() error {
	return s.app.Query(func(ctx sdk.Context) error {
		pools, err := s.app.PairKeeper.Pools(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nPOOL\tTOKEN0\tRESERVE0\tTOKEN1\tRESERVE1")
		for _, p := range pools {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Address.Hex(), p.Token0.Hex(), p.Reserve0, p.Token1.Hex(), p.Reserve1)
		}
		return w.Flush()
	})
}

// stepArgs is a Step with its fields parsed.
type stepArgs struct {
	caller, to       common.Address
	tokenA, tokenB   common.Address
	path             routertypes.Path
	amount, limit    math.Int
	value            math.Int
	amountA, amountB math.Int
	minA, minB       math.Int
	liquidity        math.Int
	deadline         time.Time
}

func (s *simulation) parse(step Step) (stepArgs, error) {
	var (
		a   stepArgs
		err error
	)
	for _, f := range []struct {
		name string
		src  string
		dst  *common.Address
	}{
		{"caller", step.Caller, &a.caller},
		{"to", step.To, &a.to},
		{"token_a", step.TokenA, &a.tokenA},
		{"token_b", step.TokenB, &a.tokenB},
	} {
		if f.src == "" {
			continue
		}
		if *f.dst, err = addressOf(f.name, f.src); err != nil {
			return a, err
		}
	}
	if a.to == (common.Address{}) {
		a.to = a.caller
	}
	if len(step.Path) > 0 {
		if a.path, err = routertypes.ParsePath(strings.Join(step.Path, ",")); err != nil {
			return a, err
		}
	}

	for _, f := range []struct {
		name string
		src  interface{}
		dst  *math.Int
	}{
		{"amount", step.Amount, &a.amount},
		{"limit", step.Limit, &a.limit},
		{"value", step.Value, &a.value},
		{"amount_a", step.AmountA, &a.amountA},
		{"amount_b", step.AmountB, &a.amountB},
		{"min_a", step.MinA, &a.minA},
		{"min_b", step.MinB, &a.minB},
		{"liquidity", step.Liquidity, &a.liquidity},
	} {
		if *f.dst, err = amountOf(f.name, f.src); err != nil {
			return a, err
		}
	}

	ttl, err := durationOf("deadline", step.Deadline, time.Minute)
	if err != nil {
		return a, err
	}
	a.deadline = s.now.Add(ttl)
	return a, nil
}

func (s *simulation) exec(ctx sdk.Context, step Step) (string, error) {
	a, err := s.parse(step)
	if err != nil {
		return "", err
	}
	k := s.app.RouterKeeper

	var amounts []math.Int
	switch step.Action {
	case "exact_input":
		amounts, err = k.SwapExactInputForOutput(ctx, a.caller, a.amount, a.limit, a.path, a.to, a.deadline)
	case "exact_output":
		amounts, err = k.SwapInputForExactOutput(ctx, a.caller, a.amount, a.limit, a.path, a.to, a.deadline)
	case "exact_native_input":
		amounts, err = k.SwapExactNativeForOutput(ctx, a.caller, a.value, a.limit, a.path, a.to, a.deadline)
	case "native_exact_output":
		amounts, err = k.SwapNativeForExactOutput(ctx, a.caller, a.value, a.amount, a.path, a.to, a.deadline)
	case "exact_input_native":
		amounts, err = k.SwapExactInputForNative(ctx, a.caller, a.amount, a.limit, a.path, a.to, a.deadline)
	case "exact_output_native":
		amounts, err = k.SwapInputForExactNative(ctx, a.caller, a.amount, a.limit, a.path, a.to, a.deadline)

	case "add_liquidity":
		amountA, amountB, liquidity, err := k.AddLiquidity(ctx, a.caller, a.tokenA, a.tokenB,
			a.amountA, a.amountB, a.minA, a.minB, a.to, a.deadline)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s/%s for %s shares", amountA, amountB, liquidity), nil
	case "add_liquidity_native":
		amountToken, amountNative, liquidity, err := k.AddLiquidityNative(ctx, a.caller, a.tokenA,
			a.value, a.amountA, a.minA, a.minB, a.to, a.deadline)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s/%s native for %s shares", amountToken, amountNative, liquidity), nil
	case "remove_liquidity":
		amountA, amountB, err := k.RemoveLiquidity(ctx, a.caller, a.tokenA, a.tokenB,
			a.liquidity, a.minA, a.minB, a.to, a.deadline)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed %s/%s", amountA, amountB), nil
	case "remove_liquidity_native":
		amountToken, amountNative, err := k.RemoveLiquidityNative(ctx, a.caller, a.tokenA,
			a.liquidity, a.minA, a.minB, a.to, a.deadline)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed %s/%s native", amountToken, amountNative), nil

	case "emergency_stop":
		if err := k.SetEmergencyStop(ctx, k.Authority(), step.Stopped); err != nil {
			return "", err
		}
		return fmt.Sprintf("emergency stop = %t", step.Stopped), nil
	case "authorize_pair":
		if err := k.AuthorizePair(ctx, k.Authority(), a.tokenA, a.tokenB); err != nil {
			return "", err
		}
		return "pair authorized", nil
	case "quote":
		amounts, err = k.GetAmountsOut(ctx, a.amount, a.path)
	default:
		return "", fmt.Errorf("unknown action %q", step.Action)
	}
	if err != nil {
		return "", err
	}
	return "amounts " + strings.Join(formatAmounts(amounts), ","), nil
}
