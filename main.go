package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"bronzeingest/internal/alphavantage"
	"bronzeingest/internal/bronze"
	"bronzeingest/internal/config"
	"bronzeingest/internal/fred"
	"bronzeingest/internal/logging"
	"bronzeingest/internal/ratelimit"
	"bronzeingest/internal/secedgar"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure logging before anything else emits a line
	logging.Setup(cfg.LoggingConfigPath)
	bronzeLog := logging.Bronze()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// SEC asks automated clients to stay under 10 requests per second
	limiter := ratelimit.New(map[ratelimit.API]rate.Limit{
		ratelimit.APISecEdgar: rate.Limit(10),
	})

	// Create fetchers from configuration
	markets := alphavantage.NewOptionsFetcher(cfg.AlphaVantageAPIKey, cfg.AlphaVantageBaseURL, bronzeLog)

	macro := fred.NewSeriesFetcher(cfg.FredAPIKey, fred.SeriesOptions{
		ObservationStart: cfg.FredObservationStart,
		ObservationEnd:   cfg.FredObservationEnd,
		Frequency:        cfg.FredFrequency,
	}, cfg.FredBaseURL, bronzeLog)

	filings, err := secedgar.NewService(secedgar.Config{
		CompanyName:        cfg.SecEdgarCompanyName,
		Email:              cfg.SecEdgarEmail,
		Dir:                cfg.FilingsDir,
		SubmissionsBaseURL: cfg.SecEdgarSubmissionsBaseURL,
		ArchivesBaseURL:    cfg.SecEdgarArchivesBaseURL,
		Limiter:            limiter,
		Logger:             bronzeLog,
	})
	if err != nil {
		log.Fatalf("Failed to create filings downloader: %v", err)
	}

	runner := bronze.New(markets, macro, filings, logging.Pipeline())

	fmt.Println("Ingesting bronze-layer data from all sources...")
	fmt.Println("================================================")
	if err := runner.Run(ctx, bronze.Params{
		Symbols:          cfg.StockSymbols,
		SeriesIDs:        cfg.FredSeries,
		FilingTickers:    cfg.FilingTickers,
		FilingTypes:      cfg.FilingTypes,
		FilingsPerTicker: cfg.FilingsPerTicker,
	}); err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	fmt.Println("================================================")
	fmt.Println("Bronze ingestion completed!")
}
