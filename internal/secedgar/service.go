package secedgar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"bronzeingest/internal/ratelimit"
)

// DefaultDownloadDir is where filings land when no directory is configured.
const DefaultDownloadDir = "sec-filings"

// Config configures the filings service. CompanyName and Email are the
// credentials SEC requires from automated clients; both are validated
// before any downloader is constructed.
type Config struct {
	CompanyName        string
	Email              string
	Dir                string
	SubmissionsBaseURL string
	ArchivesBaseURL    string
	Limiter            *ratelimit.Limiter
	Logger             *slog.Logger
}

// Service downloads SEC filings through a Downloader collaborator.
type Service struct {
	dl  Downloader
	log *slog.Logger
}

// NewService validates the credentials, ensures the download directory
// exists and wires up an EDGAR-backed downloader. Credential errors
// propagate: there is no fallback identity to use with SEC.
func NewService(cfg Config) (*Service, error) {
	name, err := ValidateCompanyName(cfg.CompanyName)
	if err != nil {
		cfg.Logger.Error("invalid company name", "error", err)
		return nil, err
	}
	email, err := ValidateEmail(cfg.Email)
	if err != nil {
		cfg.Logger.Error("invalid contact email", "error", err)
		return nil, err
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDownloadDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory %s: %w", dir, err)
	}

	cfg.Logger.Info("creating SEC downloader", "company", name, "dir", dir)
	dl := NewClient(ClientConfig{
		UserAgent:          fmt.Sprintf("%s (%s)", name, email),
		Dir:                dir,
		SubmissionsBaseURL: cfg.SubmissionsBaseURL,
		ArchivesBaseURL:    cfg.ArchivesBaseURL,
		Limiter:            cfg.Limiter,
		Logger:             cfg.Logger,
	})

	return &Service{dl: dl, log: cfg.Logger}, nil
}

// NewServiceWithDownloader wires a service around an existing downloader.
func NewServiceWithDownloader(dl Downloader, log *slog.Logger) *Service {
	return &Service{dl: dl, log: log}
}

// DownloadFilings downloads perType filings of each configured form type for
// each ticker. filingTypes maps a descriptive name to its SEC form code,
// e.g. {"Proxy Statements": "DEF 14A"}. Per-call failures are logged and
// absorbed; the loop always continues to the next form type and ticker.
func (s *Service) DownloadFilings(ctx context.Context, tickers []string, filingTypes map[string]string, perType int) {
	descriptions := make([]string, 0, len(filingTypes))
	for description := range filingTypes {
		descriptions = append(descriptions, description)
	}
	sort.Strings(descriptions)

	for _, ticker := range tickers {
		s.log.Info("processing ticker", "ticker", ticker)
		for _, description := range descriptions {
			formCode := filingTypes[description]
			s.log.Info("downloading filings", "ticker", ticker, "form", description, "limit", perType)
			if err := s.dl.Get(ctx, formCode, ticker, perType); err != nil {
				s.log.Error("failed to download filings", "ticker", ticker, "form", description, "error", err)
				continue
			}
			s.log.Info("downloaded filings", "ticker", ticker, "form", description, "count", perType)
		}
	}
}
