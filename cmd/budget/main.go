package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/toby-sam/budget/cmd/budget/internal/cli"
	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stderr, cfg)

	env := &cli.Env{
		Out: os.Stdout,
		Err: os.Stderr,
		Open: func(ctx context.Context) (*app.App, error) {
			return app.Open(ctx, cfg, logger)
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cli.Commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()

	os.Exit(int(status))
}
