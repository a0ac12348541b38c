package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/report"
)

type summaryCmd struct {
	env    *Env
	format string
	width  int
	style  string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the monthly dashboard" }
func (*summaryCmd) Usage() string {
	return `budget summary [-format terminal|markdown|html|json] [-width N] [-style dark|light|notty]

  Prints income, spend, budgets and the Philippines and Sam figures.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "terminal", "Output format: terminal, markdown, html or json.")
	f.IntVar(&c.width, "width", 100, "Word wrap width for terminal output.")
	f.StringVar(&c.style, "style", "", "Glamour style for terminal output. Defaults to auto.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	switch c.format {
	case "terminal", "markdown", "html", "json":
	default:
		return c.env.usage("unknown format %q", c.format)
	}

	return c.env.run(ctx, func(a *app.App) error {
		doc := a.Tracker.Document()

		if c.format == "json" {
			enc := json.NewEncoder(c.env.Out)
			enc.SetIndent("", "  ")

			return enc.Encode(aggregate.Summarize(doc))
		}

		md := report.Build(doc).Markdown()

		var (
			out string
			err error
		)

		switch c.format {
		case "markdown":
			out = md
		case "html":
			out, err = report.HTML(md)
		default:
			out, err = report.Terminal(md, c.width, c.style)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprint(c.env.Out, out)

		return err
	})
}
