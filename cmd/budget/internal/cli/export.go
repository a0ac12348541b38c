package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/export"
)

type exportCmd struct {
	env    *Env
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledgers to CSV files or a workbook" }
func (*exportCmd) Usage() string {
	return `budget export [-format csv|xlsx] [-out dir]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(export.FormatCSV), "csv writes one file per ledger, xlsx one workbook.")
	f.StringVar(&c.out, "out", "./exports", "Output directory.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	format, err := export.ParseFormat(c.format)
	if err != nil {
		return c.env.usage("%v", err)
	}

	return c.env.run(ctx, func(a *app.App) error {
		items, err := a.Exporter.Export(ctx, format, c.out)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.env.Out, a.Exporter.GenerateSummary(items))

		return err
	})
}
