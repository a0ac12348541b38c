package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/money"
)

type rateCmd struct {
	env *Env
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show or set the PHP to AUD rate" }
func (*rateCmd) Usage() string {
	return `budget rate [new-rate]

  Without an argument prints the current rate. Setting it re-prices
  Philippines rows according to RECOMPUTE_ALL_ON_RATE_CHANGE.
`
}

func (*rateCmd) SetFlags(*flag.FlagSet) {}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return c.env.usage("rate takes at most one argument")
	}

	var rate float64

	if f.NArg() == 1 {
		v, err := strconv.ParseFloat(f.Arg(0), 64)
		if err != nil {
			return c.env.usage("not a number: %q", f.Arg(0))
		}

		rate = v
	}

	return c.env.run(ctx, func(a *app.App) error {
		if f.NArg() == 0 {
			_, err := fmt.Fprintln(c.env.Out, money.Rate(a.Tracker.Document().PhpAudRate))
			return err
		}

		n, err := a.Tracker.SetRate(ctx, rate)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.env.Out, "%s, %d Philippines rows re-priced\n", money.Rate(rate), n)

		return nil
	})
}
