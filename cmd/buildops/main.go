package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/buildops/internal/cli"
	"github.com/alexanderramin/buildops/internal/config"
	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/query"
	"github.com/alexanderramin/buildops/internal/selection"
	"github.com/alexanderramin/buildops/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open and seed the store. Seeding is a no-op on a database that was
	// seeded before.
	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	if err := db.Seed(ctx, database); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Wire the simulated remote API
	apiOpts := []service.Option{
		service.WithNetwork(service.NewNetwork(
			service.WithLatency(cfg.Latency),
			service.WithFailureRate(cfg.FailureRate),
		)),
	}
	if cfg.LogCalls {
		apiOpts = append(apiOpts, service.WithObserver(service.NewLogCallObserver(logger)))
	}
	api := service.NewAPI(db.NewSQLiteUnitOfWork(database), apiOpts...)

	// Wire the cache and the selection context
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	queries := query.NewQueries(query.New(
		query.WithStaleTime(cfg.StaleTime),
		query.WithRegisterer(registry),
		query.WithLogger(logger),
	), api)

	history := selection.NewHistory(selection.DashboardPath)
	sel := selection.New(history, selection.QueryLoader(queries), selection.WithLogger(logger))
	stop := selection.Follow(ctx, sel, history, func(err error) {
		logger.Warn("path sync failed", "path", history.Path(), "error", err)
	})
	defer stop()

	app := &cli.App{
		Queries:   queries,
		Selection: sel,
		History:   history,
		Config:    cfg,
		Logger:    logger,
		Gatherer:  registry,
		// The bare command opens the dashboard only on a terminal.
		IsInteractive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
