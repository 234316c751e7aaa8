package fred

import (
	"context"
	"log/slog"

	"bronzeingest/internal/fetcher"
)

// EnvAPIKey is the environment variable the API key is read from.
const EnvAPIKey = "FRED_API_KEY"

// observationsKey is the payload field holding the series data points.
const observationsKey = "observations"

// SeriesOptions narrows a series/observations request. Zero-valued fields
// are omitted from the request parameters entirely, never sent empty.
type SeriesOptions struct {
	// ObservationStart and ObservationEnd bound the range (YYYY-MM-DD).
	ObservationStart string
	ObservationEnd   string
	// Frequency aggregates observations, e.g. "m" for monthly.
	Frequency string
}

// SeriesSource builds request parameters for FRED series observations.
type SeriesSource struct {
	apiKey string
	opts   SeriesOptions
}

// NewSeriesSource creates a source with the given API key and request options.
func NewSeriesSource(apiKey string, opts SeriesOptions) *SeriesSource {
	return &SeriesSource{apiKey: apiKey, opts: opts}
}

// Name identifies the source in logs and result keys.
func (s *SeriesSource) Name() string {
	return "fred"
}

// BuildParams returns the query parameters for one series request. Optional
// modifiers appear only when set. A missing API key fails here, before any
// network call.
func (s *SeriesSource) BuildParams(seriesID string) (map[string]string, error) {
	if s.apiKey == "" {
		return nil, &fetcher.MissingCredentialError{Var: EnvAPIKey}
	}

	params := map[string]string{
		"series_id": seriesID,
		"api_key":   s.apiKey,
		"file_type": "json",
	}
	if s.opts.ObservationStart != "" {
		params["observation_start"] = s.opts.ObservationStart
	}
	if s.opts.ObservationEnd != "" {
		params["observation_end"] = s.opts.ObservationEnd
	}
	if s.opts.Frequency != "" {
		params["frequency"] = s.opts.Frequency
	}
	return params, nil
}

// SeriesFetcher fetches economic data series observations from FRED.
type SeriesFetcher struct {
	client *fetcher.Client
	source *SeriesSource
}

// NewSeriesFetcher creates a series fetcher against the given base URL.
func NewSeriesFetcher(apiKey string, opts SeriesOptions, baseURL string, log *slog.Logger) *SeriesFetcher {
	return &SeriesFetcher{
		client: fetcher.NewClient(baseURL, log),
		source: NewSeriesSource(apiKey, opts),
	}
}

// Client exposes the underlying fetch client, e.g. to install a rate limiter.
func (f *SeriesFetcher) Client() *fetcher.Client {
	return f.client
}

// FetchOne retrieves the observations for one series id. The validated
// payload is projected down to its observations list; a payload without the
// field yields an empty list. nil means the fetch failed or classified as an
// error/throttling response.
func (f *SeriesFetcher) FetchOne(ctx context.Context, seriesID string) ([]any, error) {
	payload, err := f.client.FetchOne(ctx, f.source, seriesID)
	if err != nil {
		return nil, err
	}
	return projectObservations(payload), nil
}

// FetchBatch fetches every series in order. The result holds one entry per
// series id, nil for series that produced no usable data.
func (f *SeriesFetcher) FetchBatch(ctx context.Context, seriesIDs []string) (map[string][]any, error) {
	raw, err := f.client.FetchBatch(ctx, f.source, seriesIDs)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]any, len(raw))
	for id, payload := range raw {
		results[id] = projectObservations(payload)
	}
	return results, nil
}

// projectObservations unwraps the observations list from a validated payload.
// A nil payload stays nil (the absence marker); a payload without the field,
// or with it holding something other than a list, becomes an empty list.
func projectObservations(payload fetcher.Payload) []any {
	if payload == nil {
		return nil
	}
	obs, ok := payload[observationsKey].([]any)
	if !ok {
		return []any{}
	}
	return obs
}
