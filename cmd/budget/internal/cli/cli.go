// Package cli holds the budget subcommands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"github.com/toby-sam/budget/internal/app"
)

// Env is what every command needs from main.
type Env struct {
	Out  io.Writer
	Err  io.Writer
	Open func(ctx context.Context) (*app.App, error)
}

// Commands returns every subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&summaryCmd{env: env},
		&importCmd{env: env},
		&exportCmd{env: env},
		&backupCmd{env: env},
		&restoreCmd{env: env},
		&closeMonthCmd{env: env},
		&rateCmd{env: env},
		&queryCmd{env: env},
	}
}

// run opens the app, calls fn and maps the result to an exit status.
func (e *Env) run(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintln(e.Err, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(a); err != nil {
		fmt.Fprintln(e.Err, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func (e *Env) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}
