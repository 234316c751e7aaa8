// Package bronze runs the raw-ingestion stage: sequential batch fetches from
// each market-data source followed by the filings download. Nothing here is
// concurrent; a batch of N identifiers is N blocking calls in input order.
package bronze

import (
	"context"
	"fmt"
	"log/slog"

	"bronzeingest/internal/fetcher"
)

// MarketFetcher fetches market-data payloads for a batch of symbols.
type MarketFetcher interface {
	FetchBatch(ctx context.Context, symbols []string) (map[string]fetcher.Payload, error)
}

// MacroFetcher fetches economic-series observations for a batch of series ids.
type MacroFetcher interface {
	FetchBatch(ctx context.Context, seriesIDs []string) (map[string][]any, error)
}

// FilingDownloader downloads regulatory filings for a set of tickers.
type FilingDownloader interface {
	DownloadFilings(ctx context.Context, tickers []string, filingTypes map[string]string, perType int)
}

// Params describes one ingestion run.
type Params struct {
	Symbols          []string
	SeriesIDs        []string
	FilingTickers    []string
	FilingTypes      map[string]string
	FilingsPerTicker int
}

// Runner drives one bronze ingestion run and prints per-item outcomes.
type Runner struct {
	market  MarketFetcher
	macro   MacroFetcher
	filings FilingDownloader
	log     *slog.Logger
}

// New creates a Runner. Any of the three stages may be nil and is skipped.
func New(market MarketFetcher, macro MacroFetcher, filings FilingDownloader, log *slog.Logger) *Runner {
	return &Runner{
		market:  market,
		macro:   macro,
		filings: filings,
		log:     log,
	}
}

// Run executes the stages in order: market data, macro series, filings.
// Per-item failures show up as "no data" lines; the only error that aborts
// a run is a missing credential surfacing from a batch.
func (r *Runner) Run(ctx context.Context, p Params) error {
	if r.market == nil && r.macro == nil && r.filings == nil {
		return fmt.Errorf("no ingestion stages configured")
	}

	if r.market != nil && len(p.Symbols) > 0 {
		r.log.Info("starting market-data batch", "symbols", len(p.Symbols))
		results, err := r.market.FetchBatch(ctx, p.Symbols)
		if err != nil {
			return fmt.Errorf("market-data batch failed: %w", err)
		}
		for _, symbol := range p.Symbols {
			printOutcome("alphavantage", symbol, results[symbol] != nil, len(results[symbol]))
		}
	}

	if r.macro != nil && len(p.SeriesIDs) > 0 {
		r.log.Info("starting macro-series batch", "series", len(p.SeriesIDs))
		results, err := r.macro.FetchBatch(ctx, p.SeriesIDs)
		if err != nil {
			return fmt.Errorf("macro-series batch failed: %w", err)
		}
		for _, id := range p.SeriesIDs {
			printOutcome("fred", id, results[id] != nil, len(results[id]))
		}
	}

	if r.filings != nil && len(p.FilingTickers) > 0 {
		r.log.Info("starting filings download", "tickers", len(p.FilingTickers))
		r.filings.DownloadFilings(ctx, p.FilingTickers, p.FilingTypes, p.FilingsPerTicker)
	}

	return nil
}

// printOutcome writes one result line to stdout in the format
// "bronze:SOURCE:ID: ok (N items)" or "bronze:SOURCE:ID: no data".
func printOutcome(source, id string, ok bool, items int) {
	if ok {
		fmt.Printf("bronze:%s:%s: ok (%d items)\n", source, id, items)
	} else {
		fmt.Printf("bronze:%s:%s: no data\n", source, id)
	}
}
