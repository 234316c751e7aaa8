package secedgar

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"bronzeingest/internal/testutil"
)

func TestNewService_Success(t *testing.T) {
	log, _ := testutil.NewCaptureLogger()
	dir := filepath.Join(t.TempDir(), "filings")

	svc, err := NewService(Config{
		CompanyName: "Acme Analytics",
		Email:       "data@example.com",
		Dir:         dir,
		Logger:      log,
	})
	if err != nil {
		t.Fatalf("NewService() returned unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("NewService() returned nil")
	}
}

func TestNewService_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name    string
		company string
		email   string
	}{
		{"missing name", "", "data@example.com"},
		{"blank name", "   ", "data@example.com"},
		{"missing email", "Acme Analytics", ""},
		{"invalid email", "Acme Analytics", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, captured := testutil.NewCaptureLogger()

			_, err := NewService(Config{
				CompanyName: tt.company,
				Email:       tt.email,
				Dir:         t.TempDir(),
				Logger:      log,
			})
			if err == nil {
				t.Fatal("NewService() expected error, got nil")
			}
			if n := captured.CountLevel(slog.LevelError); n != 1 {
				t.Errorf("NewService() emitted %d error records, want 1", n)
			}
		})
	}
}

func TestDownloadFilings_DelegatesPerTickerPerType(t *testing.T) {
	log, _ := testutil.NewCaptureLogger()
	dl := &testutil.StubDownloader{}
	svc := NewServiceWithDownloader(dl, log)

	tickers := []string{"AAPL", "MSFT"}
	filingTypes := map[string]string{
		"10-K": "10-K",
		"10-Q": "10-Q",
	}

	svc.DownloadFilings(context.Background(), tickers, filingTypes, 3)

	if len(dl.Calls) != len(tickers)*len(filingTypes) {
		t.Fatalf("DownloadFilings() made %d calls, want %d", len(dl.Calls), len(tickers)*len(filingTypes))
	}
	for _, call := range dl.Calls {
		if call.Limit != 3 {
			t.Errorf("call limit = %d, want 3", call.Limit)
		}
	}
}

func TestDownloadFilings_AbsorbsPerItemFailures(t *testing.T) {
	log, captured := testutil.NewCaptureLogger()
	dl := &testutil.StubDownloader{
		GetErr: func(formType, ticker string) error {
			if ticker == "BAD" {
				return fmt.Errorf("no %s filings found for %s", formType, ticker)
			}
			return nil
		},
	}
	svc := NewServiceWithDownloader(dl, log)

	tickers := []string{"AAPL", "BAD", "MSFT"}
	filingTypes := map[string]string{"10-K": "10-K", "8-K": "8-K"}

	svc.DownloadFilings(context.Background(), tickers, filingTypes, 1)

	// Every ticker/type pair is attempted despite BAD failing both of its calls.
	if len(dl.Calls) != len(tickers)*len(filingTypes) {
		t.Fatalf("DownloadFilings() made %d calls, want %d", len(dl.Calls), len(tickers)*len(filingTypes))
	}
	if n := captured.CountLevel(slog.LevelError); n != len(filingTypes) {
		t.Errorf("DownloadFilings() emitted %d error records, want %d", n, len(filingTypes))
	}
}

func TestDownloadFilings_FormCodesPassedThrough(t *testing.T) {
	log, _ := testutil.NewCaptureLogger()
	dl := &testutil.StubDownloader{}
	svc := NewServiceWithDownloader(dl, log)

	filingTypes := map[string]string{"Form 4 (Insider Trading)": "4"}
	svc.DownloadFilings(context.Background(), []string{"AAPL"}, filingTypes, 2)

	if len(dl.Calls) != 1 {
		t.Fatalf("DownloadFilings() made %d calls, want 1", len(dl.Calls))
	}
	if dl.Calls[0].FormType != "4" {
		t.Errorf("form type = %q, want %q (the SEC form code, not the description)", dl.Calls[0].FormType, "4")
	}
}
