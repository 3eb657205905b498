package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"beer-vote/config"
	"beer-vote/services"
	"beer-vote/storage"
	"beer-vote/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Beer preference / voting pipeline starting ===")
	logger.Info("Config: years: %d-%d | elections: %v | states filter: %d | reviews: %s (%s)",
		cfg.Pipeline.Years[0], cfg.Pipeline.Years[len(cfg.Pipeline.Years)-1],
		cfg.Pipeline.ElectionYears, len(cfg.Pipeline.States), cfg.ReviewsPath, cfg.ReviewsFormat)

	if cfg.WideInputPath != "" {
		logger.Info("Preferences read from %s; reviews are not loaded", cfg.WideInputPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := services.NewPipeline(cfg, logger)
	inputs, results, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	writers := []storage.ResultWriter{csvWriter}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN(), cfg.MaxRetries, logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		writers = append(writers, pgWriter)
	}
	defer func() {
		for _, w := range writers {
			_ = w.Close()
		}
	}()

	for _, w := range writers {
		if err := w.Write(results); err != nil {
			logger.Error("Write failed: %v", err)
			os.Exit(1)
		}
	}
	logger.Info("Results saved to %s", cfg.OutputDir)

	aggregates := results.Aggregates
	if pgWriter != nil {
		logger.Info("Results stored in PostgreSQL (tables: state_preferences, election_outcomes, state_classifications)")
		stored, err := pgWriter.FetchPreferences()
		if err != nil {
			logger.Warn("Failed to fetch preferences from DB for the report: %v", err)
		} else {
			aggregates = stored
		}
	}

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.Generate(len(inputs.Reviews), results, aggregates))

	fmt.Printf("  Done. Wide preferences → %s\n\n", csvWriter.Path(storage.WideFile))
}
