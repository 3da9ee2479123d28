package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
)

const dailyPayload = `{
	"Time Series (Daily)": {
		"2024-10-08": {"1. open": "100.0", "4. close": "101.5"},
		"2024-10-09": {"1. open": "101.5", "4. close": "102.0"},
		"2024-10-07": {"1. open": "99.0", "4. close": "100.0"}
	}
}`

func TestFetchDailyParsesAndSorts(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Query().Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("symbol") != "MSFT" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyPayload))
	}))
	defer srv.Close()

	c := New(srv.URL, "demo", time.Second, time.Minute)
	s, err := c.FetchDaily(context.Background(), "MSFT", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(s.Points))
	}
	if !s.Points[0].Date.Before(s.Points[1].Date) || !s.Points[1].Date.Before(s.Points[2].Date) {
		t.Fatalf("points not ascending by date: %+v", s.Points)
	}
	if s.Points[2].Close != 102.0 {
		t.Fatalf("unexpected latest close %v", s.Points[2].Close)
	}

	// Second call within the TTL is served from cache.
	if _, err := c.FetchDaily(context.Background(), "MSFT", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits)
	}
}

func TestFetchDailyMissingSeriesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API call"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "demo", time.Second, 0)
	_, err := c.FetchDaily(context.Background(), "NOPE", "")
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestFetchDailyRequiresSymbolAndKey(t *testing.T) {
	c := New("http://example.invalid", "", time.Second, 0)
	if _, err := c.FetchDaily(context.Background(), "", "demo"); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
	if _, err := c.FetchDaily(context.Background(), "MSFT", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestFetchDailyPerRequestKeyOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "override" {
			t.Errorf("expected override key, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyPayload))
	}))
	defer srv.Close()

	c := New(srv.URL, "default", time.Second, 0)
	if _, err := c.FetchDaily(context.Background(), "MSFT", "override"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
