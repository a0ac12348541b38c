package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/importer"
)

type importCmd struct {
	env     *Env
	format  string
	preview bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append rows from a bank or ledger CSV" }
func (*importCmd) Usage() string {
	return `budget import -format philippines|au|sam [-preview] <file.csv>

  Parses the file and appends its rows to the matching ledger. Philippines
  rows are priced at the current rate. With -preview nothing is saved.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(importer.FormatPhilippines), "CSV layout: philippines, au or sam.")
	f.BoolVar(&c.preview, "preview", false, "Print the parsed rows without saving them.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.env.usage("import needs exactly one file")
	}

	format, err := importer.ParseFormat(c.format)
	if err != nil {
		return c.env.usage("%v", err)
	}

	return c.env.run(ctx, func(a *app.App) error {
		file, err := os.Open(f.Arg(0))
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer file.Close()

		batch, err := a.Importer.Import(format, file, a.Tracker.Document().PhpAudRate)
		if err != nil {
			return err
		}

		if c.preview {
			for _, line := range batchLines(batch) {
				fmt.Fprintln(c.env.Out, line)
			}

			fmt.Fprintf(c.env.Out, "%d rows parsed, nothing saved\n", batch.Len())

			return nil
		}

		n, err := a.Tracker.ImportBatch(ctx, batch)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.env.Out, "imported %d %s rows\n", n, format)

		return nil
	})
}

func batchLines(b importer.Batch) []string {
	lines := make([]string, 0, b.Len())

	for _, e := range b.Ledger {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%.2f", e.Date, e.Description, e.Category, float64(e.Amount)))
	}

	for _, e := range b.Philippines {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%.2f PHP\t%.2f AUD", e.Date, e.Reason, e.Category, float64(e.AmountPhp), e.AUD()))
	}

	for _, e := range b.Sam {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%.2f", e.Date, e.Reason, e.Category, float64(e.AmountAud)))
	}

	return lines
}
