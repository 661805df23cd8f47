package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jamesfeng2009/forecastdesk/internal/backend/sandbox"
	"github.com/jamesfeng2009/forecastdesk/internal/cli"
	"github.com/jamesfeng2009/forecastdesk/internal/config"
	"github.com/jamesfeng2009/forecastdesk/internal/db"
	"github.com/jamesfeng2009/forecastdesk/internal/logger"
	"github.com/jamesfeng2009/forecastdesk/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		var ee *cli.EnvelopeError
		if !errors.As(err, &ee) {
			// Envelope errors were already written with the result.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Open the sandbox order store
	database, err := db.OpenDB(cfg.Backend.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	sb, err := sandbox.New(database, db.NewSQLiteUnitOfWork(database), sandbox.Config{
		CustomerCode: cfg.Backend.CustomerCode,
		Token:        cfg.Backend.Token,
		DeferWaybill: cfg.Backend.DeferWaybill,
	}, log)
	if err != nil {
		return fmt.Errorf("starting sandbox backend: %w", err)
	}

	desk := service.NewDesk(sb, sb.Authorization(),
		service.WithDefaults(cfg.Defaults),
		service.WithCacheLimit(cfg.Idempotency.MaxEntries),
		service.WithLogger(log),
	)

	app := &cli.App{
		Session:     desk.NewSession(),
		Sessions:    desk.SessionFactory(),
		Logger:      log,
		HTTPAddr:    cfg.HTTP.Addr,
		MaxSessions: cfg.HTTP.MaxSessions,
		SessionIdle: cfg.HTTP.SessionIdleTimeout,
		// Styled output only when a person is reading.
		Pretty: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	log.Debug("configuration loaded",
		zap.String("db_path", cfg.Backend.DBPath),
		zap.Bool("defer_waybill", cfg.Backend.DeferWaybill),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
