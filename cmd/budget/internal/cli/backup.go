package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/backup"
)

// target resolves where a backup goes: "-" is stdout, a .json path is used as
// is and anything else is a directory for the default file name.
func target(out, name string) string {
	if out == "-" || strings.HasSuffix(strings.ToLower(out), ".json") {
		return out
	}

	return filepath.Join(out, name)
}

// writeTo runs write against stdout or a freshly created file.
func (e *Env) writeTo(path string, write func(w io.Writer) error) error {
	if path == "-" {
		return write(e.Out)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}

	fmt.Fprintln(e.Err, "wrote", path)

	return f.Close()
}

type backupCmd struct {
	env     *Env
	out     string
	name    string
	section string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "save the document, or one section of it, as JSON" }
func (*backupCmd) Usage() string {
	return `budget backup [-out dir|file.json|-] [-name name] [-section field]

  Without -section the whole document is written to BudgetBackup_YYYY-MM-DD.json.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", ".", "Directory, .json file, or - for stdout.")
	f.StringVar(&c.name, "name", "", "File name for a full backup.")
	f.StringVar(&c.section, "section", "", "Back up a single list field, e.g. phBudgetCategories.")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		doc := a.Tracker.Document()

		if c.section != "" {
			return c.env.writeTo(target(c.out, backup.SectionFilename(c.section)), func(w io.Writer) error {
				return backup.WriteSection(w, doc, c.section)
			})
		}

		return c.env.writeTo(target(c.out, backup.Filename(c.name, time.Now())), func(w io.Writer) error {
			return backup.Write(w, doc)
		})
	})
}

type restoreCmd struct {
	env     *Env
	mode    string
	section string
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "restore a backup file" }
func (*restoreCmd) Usage() string {
	return `budget restore [-mode full|section] [-section field] <backup.json>

  full replaces the whole document. section replaces one list field and keeps
  the rest. An invalid file changes nothing.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "full", "full or section.")
	f.StringVar(&c.section, "section", "", "List field to restore in section mode.")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.env.usage("restore needs exactly one file")
	}

	mode, err := backup.ParseMode(c.mode)
	if err != nil {
		return c.env.usage("%v", err)
	}

	if mode == backup.ModeSectionMerge && c.section == "" {
		return c.env.usage("-section is required with -mode section")
	}

	return c.env.run(ctx, func(a *app.App) error {
		data, err := os.ReadFile(f.Arg(0))
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}

		if err := a.Tracker.Restore(ctx, data, backup.Request{Mode: mode, Section: c.section}); err != nil {
			return err
		}

		fmt.Fprintf(c.env.Out, "restored %s (%s)\n", f.Arg(0), mode)

		return nil
	})
}

type closeMonthCmd struct {
	env   *Env
	out   string
	clear string
}

func (*closeMonthCmd) Name() string     { return "close-month" }
func (*closeMonthCmd) Synopsis() string { return "back up the document and clear the monthly ledgers" }
func (*closeMonthCmd) Usage() string {
	return `budget close-month [-out dir|file.json] [-clear true|false]

  Writes a full backup first. The AU and Philippines ledgers are only cleared
  once the backup is on disk. -clear defaults to CLOSE_MONTH_CLEAR.
`
}

func (c *closeMonthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", ".", "Directory or .json file for the backup.")
	f.StringVar(&c.clear, "clear", "", "Clear the monthly ledgers after the backup.")
}

func (c *closeMonthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.out == "-" {
		return c.env.usage("close-month writes to a file")
	}

	return c.env.run(ctx, func(a *app.App) error {
		clearLedgers := a.Config.Budget.CloseMonthClear
		if c.clear != "" {
			v, err := parseBool(c.clear)
			if err != nil {
				return err
			}

			clearLedgers = v
		}

		err := c.env.writeTo(target(c.out, backup.Filename("", time.Now())), func(w io.Writer) error {
			return a.Tracker.CloseMonth(ctx, w, clearLedgers)
		})
		if err != nil {
			return err
		}

		if clearLedgers {
			fmt.Fprintln(c.env.Out, "month closed, ledgers cleared")
		} else {
			fmt.Fprintln(c.env.Out, "month closed, ledgers kept")
		}

		return nil
	})
}

func parseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", s)
	}

	return v, nil
}
