package secedgar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resty.dev/v3"

	"bronzeingest/internal/ratelimit"
)

// Production EDGAR hosts. The submissions index lives on data.sec.gov, the
// ticker index and filing documents on www.sec.gov.
const (
	DefaultSubmissionsBaseURL = "https://data.sec.gov"
	DefaultArchivesBaseURL    = "https://www.sec.gov"
)

const downloadTimeout = 30 * time.Second

// Downloader retrieves filings of one form type for one ticker. It is the
// collaborator DownloadFilings delegates to; tests substitute their own.
type Downloader interface {
	Get(ctx context.Context, formType, ticker string, limit int) error
}

// companyTicker is one entry of the SEC ticker index.
type companyTicker struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// submissions is the company submission index, trimmed to the fields we use.
// The recent-filings block is a set of parallel arrays.
type submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Client downloads filings from SEC EDGAR: ticker index to CIK, submissions
// index to recent filings, archive fetch of each primary document into the
// download directory.
type Client struct {
	http               *resty.Client
	submissionsBaseURL string
	archivesBaseURL    string
	dir                string
	limiter            *ratelimit.Limiter
	log                *slog.Logger

	tickers map[string]companyTicker
}

// ClientConfig configures an EDGAR client. UserAgent identifies the caller
// per SEC automated-access guidelines ("Company Name (email)").
type ClientConfig struct {
	UserAgent          string
	Dir                string
	SubmissionsBaseURL string
	ArchivesBaseURL    string
	Limiter            *ratelimit.Limiter
	Logger             *slog.Logger
}

// NewClient creates an EDGAR downloader writing into cfg.Dir.
func NewClient(cfg ClientConfig) *Client {
	if cfg.SubmissionsBaseURL == "" {
		cfg.SubmissionsBaseURL = DefaultSubmissionsBaseURL
	}
	if cfg.ArchivesBaseURL == "" {
		cfg.ArchivesBaseURL = DefaultArchivesBaseURL
	}

	http := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(downloadTimeout)

	return &Client{
		http:               http,
		submissionsBaseURL: cfg.SubmissionsBaseURL,
		archivesBaseURL:    cfg.ArchivesBaseURL,
		dir:                cfg.Dir,
		limiter:            cfg.Limiter,
		log:                cfg.Logger,
	}
}

// Get downloads up to limit filings of the given form type for one ticker.
func (c *Client) Get(ctx context.Context, formType, ticker string, limit int) error {
	cik, err := c.lookupCIK(ctx, ticker)
	if err != nil {
		return err
	}

	subs, err := c.fetchSubmissions(ctx, cik)
	if err != nil {
		return err
	}

	// The recent block is parallel arrays; a truncated response can leave
	// them ragged, so never index past the shortest one.
	recent := subs.Filings.Recent
	n := len(recent.Form)
	if len(recent.AccessionNumber) < n {
		n = len(recent.AccessionNumber)
	}
	if len(recent.PrimaryDocument) < n {
		n = len(recent.PrimaryDocument)
	}

	downloaded := 0
	for i := 0; i < n; i++ {
		if downloaded >= limit {
			break
		}
		if recent.Form[i] != formType {
			continue
		}
		if err := c.downloadDocument(ctx, cik, ticker, formType, recent.AccessionNumber[i], recent.PrimaryDocument[i]); err != nil {
			return err
		}
		downloaded++
	}

	if downloaded == 0 {
		return fmt.Errorf("no %s filings found for %s", formType, ticker)
	}
	return nil
}

// lookupCIK resolves a ticker through the SEC company-ticker index. The
// index is fetched once and kept for the life of the client.
func (c *Client) lookupCIK(ctx context.Context, ticker string) (int64, error) {
	if c.tickers == nil {
		if err := c.wait(ctx); err != nil {
			return 0, err
		}
		index := map[string]companyTicker{}
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&index).
			Get(c.archivesBaseURL + "/files/company_tickers.json")
		if err != nil {
			return 0, fmt.Errorf("failed to fetch ticker index: %w", err)
		}
		if !resp.IsSuccess() {
			return 0, fmt.Errorf("ticker index returned status %d", resp.StatusCode())
		}

		c.tickers = make(map[string]companyTicker, len(index))
		for _, entry := range index {
			c.tickers[strings.ToUpper(entry.Ticker)] = entry
		}
	}

	entry, ok := c.tickers[strings.ToUpper(ticker)]
	if !ok {
		return 0, fmt.Errorf("ticker %s not found in SEC index", ticker)
	}
	return entry.CIK, nil
}

// fetchSubmissions retrieves the company submission index. CIKs are
// zero-padded to 10 digits in the submissions URL.
func (c *Client) fetchSubmissions(ctx context.Context, cik int64) (*submissions, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var subs submissions
	url := fmt.Sprintf("%s/submissions/CIK%010d.json", c.submissionsBaseURL, cik)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&subs).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for CIK %d: %w", cik, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("submissions index returned status %d", resp.StatusCode())
	}
	return &subs, nil
}

// downloadDocument fetches one primary document from the EDGAR archive and
// writes it under dir/<ticker>/<formType>/<accession>/.
func (c *Client) downloadDocument(ctx context.Context, cik int64, ticker, formType, accession, document string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/Archives/edgar/data/%d/%s/%s",
		c.archivesBaseURL, cik, strings.ReplaceAll(accession, "-", ""), document)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", document, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("document download returned status %d", resp.StatusCode())
	}

	target := filepath.Join(c.dir, ticker, formType, accession)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	path := filepath.Join(target, document)
	if err := os.WriteFile(path, resp.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.log.Info("downloaded filing", "ticker", ticker, "form", formType, "accession", accession, "path", path)
	return nil
}

// wait applies the SEC politeness limit before a request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, ratelimit.APISecEdgar)
}
