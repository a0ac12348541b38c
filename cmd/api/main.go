package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/config"
	budgetHttp "github.com/toby-sam/budget/internal/http"
	backupHandler "github.com/toby-sam/budget/internal/http/backup"
	categoryHandler "github.com/toby-sam/budget/internal/http/category"
	documentHandler "github.com/toby-sam/budget/internal/http/document"
	exportHandler "github.com/toby-sam/budget/internal/http/export"
	financeHandler "github.com/toby-sam/budget/internal/http/finance"
	importHandler "github.com/toby-sam/budget/internal/http/importcsv"
	ledgerHandler "github.com/toby-sam/budget/internal/http/ledger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open storage", "storage", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		documentH = documentHandler.NewHandler(a.Tracker)
		ledgerH   = ledgerHandler.NewHandler(a.Tracker)
		categoryH = categoryHandler.NewHandler(a.Tracker)
		financeH  = financeHandler.NewHandler(a.Tracker)
		importH   = importHandler.NewHandler(a.Importer, a.Tracker)
		exportH   = exportHandler.NewHandler(a.Exporter)
		backupH   = backupHandler.NewHandler(a.Tracker, cfg.Budget.CloseMonthClear)
	)

	router := budgetHttp.New(cfg.Server.CORSOrigins, documentH, ledgerH, categoryH, financeH, importH, exportH, backupH)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
