package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/client"
	"github.com/MKhiriev/go-mind-keeper/internal/config"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/internal/vendors"
	"github.com/MKhiriev/go-mind-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFileLogger("mind-keeper-app", cfg.Logs.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewAppStorages(ctx, cfg.Storage.CacheDSN, cfg.Storage.GroupDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	remote := adapter.NewRemoteStore(adapter.RemoteConfig{
		BaseURL: cfg.Remote.BaseURL,
		AnonKey: cfg.Remote.AnonKey,
		Timeout: cfg.Remote.RequestTimeout,
	})

	services := service.NewAppServices(storages, remote, buildVendors(cfg.Vendors), log)

	ws := workers.NewWorkers(
		workers.NewRefreshJob(services.Sync, cfg.Workers.RefreshInterval, log),
		workers.NewDrainJob(services.Drain, storages.Queue.Path(), cfg.Workers.DrainInterval, log),
		workers.NewCleanupJob(services.Tracker, cfg.Workers.CleanupInterval, log),
	)

	app, err := client.NewApp(services, ws, remote, storages.Auth, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	err = app.Run(ctx)
	if errors.Is(err, client.ErrNoSession) {
		email, password := os.Getenv("MINDKEEPER_EMAIL"), os.Getenv("MINDKEEPER_PASSWORD")
		if email == "" || password == "" {
			log.Fatal().Msg("no stored session; set MINDKEEPER_EMAIL and MINDKEEPER_PASSWORD to sign in")
		}
		if err = app.SignIn(ctx, email, password); err != nil {
			log.Fatal().Err(err).Msg("sign in error")
		}
		err = app.Run(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("app run error")
	}
}

// buildVendors constructs the enrichment vendor clients from config. When no
// separate fallback extractor is configured the primary serves both slots.
func buildVendors(cfg config.Vendors) service.PipelineVendors {
	primary := vendors.NewExtractor(cfg.ExtractorURL, cfg.ExtractorKey)
	fallback := primary
	if cfg.FallbackExtractorURL != "" {
		fallback = vendors.NewExtractor(cfg.FallbackExtractorURL, cfg.FallbackExtractorKey)
	}

	return service.PipelineVendors{
		Primary:     primary,
		Fallback:    fallback,
		Transcriber: vendors.NewTranscriber(cfg.TranscriberURL, cfg.TranscriberKey),
		Summarizer:  vendors.NewSummarizer(cfg.LLMURL, cfg.LLMKey, cfg.LLMModel),
		Social:      vendors.NewSocialClient(),
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
