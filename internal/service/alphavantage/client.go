package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	icache "PriceCast/internal/service/cache"
	xhttp "PriceCast/pkg/http"
	"PriceCast/pkg/util"
)

// Client implements MarketData against an Alpha Vantage style daily endpoint.
type Client struct {
	baseURL  string
	apiKey   string
	client   *xhttp.Client
	cache    *icache.TTLCache
	cacheTTL time.Duration
}

// New creates a new daily time-series client. apiKey is the configured
// default; a per-request key overrides it.
func New(baseURL, apiKey string, timeout, cacheTTL time.Duration) drepo.MarketData {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:    icache.NewTTLCache(),
		cacheTTL: cacheTTL,
	}
}

type dailyBar struct {
	Close string `json:"4. close"`
}

type dailyResponse struct {
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
}

// FetchDaily fetches the daily close series for symbol, ascending by date.
// Responses are cached per symbol for the configured TTL so repeated UI
// actions do not burn API quota.
func (c *Client) FetchDaily(ctx context.Context, symbol, apiKey string) (*models.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	key := apiKey
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cached, ok := c.cache.Get(symbol); ok {
		if s, ok2 := cached.(*models.Series); ok2 {
			return s, nil
		}
	}

	var resp dailyResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"function": {"TIME_SERIES_DAILY"},
			"symbol":   {symbol},
			"apikey":   {key},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch daily %s: %w", symbol, err)
	}

	if len(resp.Series) == 0 {
		detail := resp.ErrorMessage
		if detail == "" {
			detail = resp.Note
		}
		if detail == "" {
			detail = "missing daily series key"
		}
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidResponse, detail)
	}

	series := &models.Series{Symbol: symbol, Points: make([]models.PricePoint, 0, len(resp.Series))}
	for ds, bar := range resp.Series {
		d, ok := util.ParseDay(ds)
		if !ok {
			continue
		}
		close, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, models.PricePoint{Date: d, Close: close})
	}
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("%w: no parseable daily bars", models.ErrInvalidResponse)
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	if c.cacheTTL > 0 {
		c.cache.Set(symbol, series, c.cacheTTL)
	}
	return series, nil
}
