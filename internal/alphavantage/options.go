package alphavantage

import (
	"context"
	"log/slog"

	"bronzeingest/internal/fetcher"
)

// EnvAPIKey is the environment variable the API key is read from.
const EnvAPIKey = "ALPHAVANTAGE_API_KEY"

const (
	functionHistoricalOptions = "HISTORICAL_OPTIONS"
	outputSizeFull            = "full"
)

// OptionsSource builds request parameters for AlphaVantage historical
// options data.
type OptionsSource struct {
	apiKey string
}

// NewOptionsSource creates a source with the given API key.
func NewOptionsSource(apiKey string) *OptionsSource {
	return &OptionsSource{apiKey: apiKey}
}

// Name identifies the source in logs and result keys.
func (s *OptionsSource) Name() string {
	return "alphavantage"
}

// BuildParams returns the query parameters for one symbol's historical
// options request. A missing API key fails here, before any network call.
func (s *OptionsSource) BuildParams(symbol string) (map[string]string, error) {
	if s.apiKey == "" {
		return nil, &fetcher.MissingCredentialError{Var: EnvAPIKey}
	}
	return map[string]string{
		"function":   functionHistoricalOptions,
		"symbol":     symbol,
		"apikey":     s.apiKey,
		"outputsize": outputSizeFull,
	}, nil
}

// OptionsFetcher fetches historical options payloads from AlphaVantage.
type OptionsFetcher struct {
	client *fetcher.Client
	source *OptionsSource
}

// NewOptionsFetcher creates an options fetcher against the given base URL.
func NewOptionsFetcher(apiKey, baseURL string, log *slog.Logger) *OptionsFetcher {
	return &OptionsFetcher{
		client: fetcher.NewClient(baseURL, log),
		source: NewOptionsSource(apiKey),
	}
}

// Client exposes the underlying fetch client, e.g. to install a rate limiter.
func (f *OptionsFetcher) Client() *fetcher.Client {
	return f.client
}

// FetchOne retrieves the historical options payload for one symbol. It
// returns nil when the call failed or the response classified as an API
// error or throttling notice; the only error is a missing credential.
func (f *OptionsFetcher) FetchOne(ctx context.Context, symbol string) (fetcher.Payload, error) {
	return f.client.FetchOne(ctx, f.source, symbol)
}

// FetchBatch fetches every symbol in order. The result holds one entry per
// symbol, nil for symbols that produced no usable data.
func (f *OptionsFetcher) FetchBatch(ctx context.Context, symbols []string) (map[string]fetcher.Payload, error) {
	return f.client.FetchBatch(ctx, f.source, symbols)
}
