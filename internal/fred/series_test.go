package fred

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"bronzeingest/internal/fetcher"
	"bronzeingest/internal/testutil"
)

func TestNewSeriesFetcher(t *testing.T) {
	log, _ := testutil.NewCaptureLogger()

	f := NewSeriesFetcher("fredkey", SeriesOptions{Frequency: "m"}, "https://api.stlouisfed.org/fred/series/observations", log)
	if f == nil {
		t.Fatal("NewSeriesFetcher() returned nil")
	}
	if f.Client() == nil {
		t.Error("client is nil")
	}
	if f.source.apiKey != "fredkey" {
		t.Errorf("apiKey = %q, want %q", f.source.apiKey, "fredkey")
	}
	if f.source.opts.Frequency != "m" {
		t.Errorf("frequency = %q, want m", f.source.opts.Frequency)
	}
}

func TestSeriesSource_BuildParams_RequiredOnly(t *testing.T) {
	source := NewSeriesSource("fredkey", SeriesOptions{})

	params, err := source.BuildParams("GDP")
	if err != nil {
		t.Fatalf("BuildParams() returned unexpected error: %v", err)
	}

	want := map[string]string{
		"series_id": "GDP",
		"api_key":   "fredkey",
		"file_type": "json",
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("BuildParams() = %v, want %v", params, want)
	}
}

func TestSeriesSource_BuildParams_OptionalModifiers(t *testing.T) {
	tests := []struct {
		name      string
		opts      SeriesOptions
		wantExtra map[string]string
	}{
		{
			"start only",
			SeriesOptions{ObservationStart: "2020-01-01"},
			map[string]string{"observation_start": "2020-01-01"},
		},
		{
			"end only",
			SeriesOptions{ObservationEnd: "2020-12-31"},
			map[string]string{"observation_end": "2020-12-31"},
		},
		{
			"frequency only",
			SeriesOptions{Frequency: "m"},
			map[string]string{"frequency": "m"},
		},
		{
			"all modifiers",
			SeriesOptions{ObservationStart: "2020-01-01", ObservationEnd: "2020-12-31", Frequency: "d"},
			map[string]string{
				"observation_start": "2020-01-01",
				"observation_end":   "2020-12-31",
				"frequency":         "d",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewSeriesSource("fredkey", tt.opts)

			params, err := source.BuildParams("GDP")
			if err != nil {
				t.Fatalf("BuildParams() returned unexpected error: %v", err)
			}

			want := map[string]string{
				"series_id": "GDP",
				"api_key":   "fredkey",
				"file_type": "json",
			}
			for k, v := range tt.wantExtra {
				want[k] = v
			}
			if !reflect.DeepEqual(params, want) {
				t.Errorf("BuildParams() = %v, want %v", params, want)
			}
		})
	}
}

func TestSeriesSource_BuildParams_OmitsEmptyModifiers(t *testing.T) {
	source := NewSeriesSource("fredkey", SeriesOptions{})

	params, err := source.BuildParams("UNRATE")
	if err != nil {
		t.Fatalf("BuildParams() returned unexpected error: %v", err)
	}

	for _, key := range []string{"observation_start", "observation_end", "frequency"} {
		if _, ok := params[key]; ok {
			t.Errorf("BuildParams() emitted empty modifier %q", key)
		}
	}
}

func TestSeriesSource_BuildParams_MissingCredential(t *testing.T) {
	source := NewSeriesSource("", SeriesOptions{})

	_, err := source.BuildParams("GDP")
	if err == nil {
		t.Fatal("BuildParams() expected error, got nil")
	}

	var mce *fetcher.MissingCredentialError
	if !errors.As(err, &mce) {
		t.Fatalf("BuildParams() error = %T, want *MissingCredentialError", err)
	}
	if mce.Var != EnvAPIKey {
		t.Errorf("Var = %q, want %q", mce.Var, EnvAPIKey)
	}
}

func TestSeriesFetcher_FetchOne_ProjectsObservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("series_id"); got != "GDP" {
			t.Errorf("series_id = %q, want GDP", got)
		}
		if got := r.URL.Query().Get("file_type"); got != "json" {
			t.Errorf("file_type = %q, want json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"observations": [{"date": "2020-01-01", "value": "100"}]}`))
	}))
	defer server.Close()

	log, _ := testutil.NewCaptureLogger()
	f := NewSeriesFetcher("fredkey", SeriesOptions{}, server.URL, log)

	obs, err := f.FetchOne(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}

	if len(obs) != 1 {
		t.Fatalf("FetchOne() returned %d observations, want 1", len(obs))
	}
	first, ok := obs[0].(map[string]any)
	if !ok {
		t.Fatalf("observation = %T, want map", obs[0])
	}
	if first["date"] != "2020-01-01" || first["value"] != "100" {
		t.Errorf("observation = %v, want {date: 2020-01-01, value: 100}", first)
	}
}

func TestSeriesFetcher_FetchOne_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	log, _ := testutil.NewCaptureLogger()
	f := NewSeriesFetcher("fredkey", SeriesOptions{}, server.URL, log)

	obs, err := f.FetchOne(context.Background(), "GDP")
	if err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}
	if obs == nil {
		t.Fatal("FetchOne() = nil, want empty list for payload without observations")
	}
	if len(obs) != 0 {
		t.Errorf("FetchOne() returned %d observations, want 0", len(obs))
	}
}

func TestSeriesFetcher_FetchOne_ErrorSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Error Message": "Bad Request. The series does not exist."}`))
	}))
	defer server.Close()

	log, captured := testutil.NewCaptureLogger()
	f := NewSeriesFetcher("fredkey", SeriesOptions{}, server.URL, log)

	obs, err := f.FetchOne(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("FetchOne() returned unexpected error: %v", err)
	}
	if obs != nil {
		t.Errorf("FetchOne() = %v, want nil", obs)
	}
	if n := captured.CountLevel(slog.LevelError); n != 1 {
		t.Errorf("FetchOne() emitted %d error records, want 1", n)
	}
}

func TestSeriesFetcher_FetchBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		switch r.URL.Query().Get("series_id") {
		case "GDP":
			w.Write([]byte(`{"observations": [{"date": "2020-01-01", "value": "100"}]}`))
		case "NOPE":
			w.Write([]byte(`{"Error Message": "Bad Request. The series does not exist."}`))
		default:
			w.Write([]byte(`{"observations": []}`))
		}
	}))
	defer server.Close()

	log, _ := testutil.NewCaptureLogger()
	f := NewSeriesFetcher("fredkey", SeriesOptions{}, server.URL, log)

	ids := []string{"GDP", "NOPE", "UNRATE"}
	results, err := f.FetchBatch(context.Background(), ids)
	if err != nil {
		t.Fatalf("FetchBatch() returned unexpected error: %v", err)
	}

	if len(results) != len(ids) {
		t.Fatalf("FetchBatch() returned %d entries, want %d", len(results), len(ids))
	}
	if len(results["GDP"]) != 1 {
		t.Errorf("results[GDP] has %d observations, want 1", len(results["GDP"]))
	}
	if results["NOPE"] != nil {
		t.Errorf("results[NOPE] = %v, want nil", results["NOPE"])
	}
	if results["UNRATE"] == nil || len(results["UNRATE"]) != 0 {
		t.Errorf("results[UNRATE] = %v, want empty list", results["UNRATE"])
	}
}

func TestProjectObservations(t *testing.T) {
	tests := []struct {
		name    string
		payload fetcher.Payload
		want    []any
	}{
		{"nil payload", nil, nil},
		{"no observations key", fetcher.Payload{}, []any{}},
		{"observations not a list", fetcher.Payload{"observations": "x"}, []any{}},
		{"observations present", fetcher.Payload{"observations": []any{"a"}}, []any{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projectObservations(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("projectObservations() = %v, want %v", got, tt.want)
			}
		})
	}
}
