package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/sheets"
	gsheet "ledger/internal/sheets/google"
	sheetsmem "ledger/internal/sheets/memory"
	"ledger/internal/store/memory"
	"ledger/internal/worker"
)

const reportFlushTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger(nil, log.ComponentWorker), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if err := run(context.Background(), cfg, logger); err != nil {
		cli.Fatal(logger, "Worker failed", err)
	}
	logger.Info("Worker shutdown complete")
}

func run(parent context.Context, cfg *config.Config, logger *log.Logger) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the report worker")
	}

	ctx, cancel := cli.GracefulShutdown(parent, logger)
	defer cancel()

	logger.Info("Starting ledger-worker", "interval", cfg.ReportInterval.String())

	// The server announces its seeded session on startup, so the
	// projection starts empty.
	projection := memory.New()
	defer projection.Close()

	writer, err := newReportWriter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	w := worker.NewReportWorker(projection, writer, cfg.ReportInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.Consume(gctx, w.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return w.Run(gctx)
	})

	err = g.Wait()

	// One last export so the sheet reflects everything consumed.
	if w.Dirty() {
		flushCtx, flushCancel := cli.ShutdownContext(reportFlushTimeout)
		defer flushCancel()
		if ferr := w.Export(flushCtx); ferr != nil {
			logger.Warn("Final report export failed", log.FieldError, ferr)
		}
	}
	return err
}

func newReportWriter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.ReportWriter, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled, reports are kept in memory")
		return sheetsmem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetBase:       cfg.GoogleReportSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
