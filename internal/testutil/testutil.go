package testutil

import (
	"context"
	"log/slog"
	"sync"

	"bronzeingest/internal/fetcher"
)

// StubSource is a canned implementation of the fetcher.Source interface.
type StubSource struct {
	SourceName string
	Params     map[string]string
	Err        error
}

// Name implements the Source interface
func (s *StubSource) Name() string {
	if s.SourceName != "" {
		return s.SourceName
	}
	return "stub"
}

// BuildParams implements the Source interface
func (s *StubSource) BuildParams(id string) (map[string]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	params := map[string]string{"id": id}
	for k, v := range s.Params {
		params[k] = v
	}
	return params, nil
}

// DownloadCall records one Get call made against a StubDownloader.
type DownloadCall struct {
	FormType string
	Ticker   string
	Limit    int
}

// StubDownloader records filings-download calls and fails the ones GetErr
// chooses to.
type StubDownloader struct {
	Calls  []DownloadCall
	GetErr func(formType, ticker string) error
}

// Get implements the secedgar.Downloader interface
func (d *StubDownloader) Get(_ context.Context, formType, ticker string, limit int) error {
	d.Calls = append(d.Calls, DownloadCall{FormType: formType, Ticker: ticker, Limit: limit})
	if d.GetErr != nil {
		return d.GetErr(formType, ticker)
	}
	return nil
}

// CaptureHandler is a slog.Handler that records every record it receives,
// so tests can assert on the level and message of emitted log lines.
type CaptureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewCaptureLogger returns a logger wired to a fresh CaptureHandler.
func NewCaptureLogger() (*slog.Logger, *CaptureHandler) {
	h := &CaptureHandler{}
	return slog.New(h), h
}

// Enabled implements the slog.Handler interface
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements the slog.Handler interface
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

// WithAttrs implements the slog.Handler interface
func (h *CaptureHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup implements the slog.Handler interface
func (h *CaptureHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of the captured records.
func (h *CaptureHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slog.Record, len(h.records))
	copy(out, h.records)
	return out
}

// CountLevel reports how many captured records carry the given level.
func (h *CaptureHandler) CountLevel(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

var _ fetcher.Source = (*StubSource)(nil)
