package main

import (
	"context"
	"os"
	"time"

	"cucina/internal/amqp"
	"cucina/internal/cli"
	gsheet "cucina/internal/sheets/google"
	"cucina/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting cucina-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	exportWorker := worker.NewExportWorker(repo, sheetsClient, cfg.ExportBatchSize)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) {
		logger.Info("Shutting down worker...")
	})

	// On startup, export any published weeks whose messages were missed.
	if err := exportWorker.ProcessPendingWeeks(ctx); err != nil {
		logger.Error("Startup export sweep failed", "error", err)
		// Keep running; the periodic sweep retries.
	}

	// AMQP is optional for the worker too: without it, exports ride on the
	// periodic sweep alone.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeWeekPublished(ctx, func(msg *amqp.WeekPublishedMessage) error {
				return exportWorker.HandleWeekPublished(ctx, msg)
			})
			if err != nil && err != context.Canceled {
				// The periodic sweep keeps exports flowing without messages.
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	} else {
		logger.Info("AMQP disabled - relying on periodic export sweep")
	}

	ticker := time.NewTicker(cfg.ExportInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := exportWorker.ProcessPendingWeeks(ctx); err != nil {
					logger.Error("Periodic export sweep failed", "error", err)
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
