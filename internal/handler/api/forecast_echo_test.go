package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PriceCast/internal/forecast"
	internalrepo "PriceCast/internal/repository"
	"PriceCast/internal/service/alphavantage"
	"PriceCast/internal/usecase"
	applogger "PriceCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, int)       {}
func (nopMetrics) RecordTrainingRun(bool)        {}
func (nopMetrics) RecordEpochLoss(float64)       {}
func (nopMetrics) RecordForecast(bool, int)      {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func marketPayload(days int) string {
	var b strings.Builder
	b.WriteString(`{"Time Series (Daily)": {`)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"%s": {"4. close": "%0.2f"}`,
			start.AddDate(0, 0, i).Format("2006-01-02"), 100+float64(i%9))
	}
	b.WriteString("}}")
	return b.String()
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketPayload(40)))
	}))
	t.Cleanup(upstream.Close)

	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	mock := forecast.NewMockEngine(0, 1)
	selector := usecase.NewModeSelector(forecast.SelfTest, mock, mock, forecast.NewLiveTrainer(), forecast.NewLivePredictor())
	pipeline := usecase.NewPipeline(
		alphavantage.New(upstream.URL, "demo", time.Second, 0),
		internalrepo.NewNopModelStore(),
		internalrepo.NewNopPrefStore(),
		internalrepo.NewNopHistory(),
		internalrepo.NewNopForecastPublisher(),
		nopMetrics{},
		selector,
		usecase.NewProgressHub(8),
		log,
		usecase.Defaults{Symbol: "MSFT", Lookback: 20, Horizon: 7},
	)

	e := echo.New()
	NewForecastHandler(log, pipeline).RegisterRoutes(e)
	return e
}

type apiBody struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) apiBody {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out apiBody
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: bad body %q: %v", method, path, rec.Body.String(), err)
	}
	return out
}

func TestTrainBeforeFetchIsUnprocessable(t *testing.T) {
	e := newTestServer(t)
	res := doJSON(t, e, http.MethodPost, "/api/train", `{"epochs": 3}`)
	if res.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 status in body, got %d", res.Status)
	}
}

func TestFetchTrainPredictFlow(t *testing.T) {
	e := newTestServer(t)

	res := doJSON(t, e, http.MethodPost, "/api/fetch", `{"symbol": "MSFT"}`)
	if res.Status != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", res.Status)
	}

	res = doJSON(t, e, http.MethodPost, "/api/train", `{"epochs": 5}`)
	if res.Status != http.StatusOK {
		t.Fatalf("train: expected 200, got %d", res.Status)
	}
	var train struct {
		LossTrace []float64 `json:"loss_trace"`
		Mock      bool      `json:"mock"`
	}
	if err := json.Unmarshal(res.Data, &train); err != nil {
		t.Fatalf("train body: %v", err)
	}
	if !train.Mock || len(train.LossTrace) != 5 {
		t.Fatalf("expected 5-epoch mock run, got %+v", train)
	}

	res = doJSON(t, e, http.MethodPost, "/api/predict", `{}`)
	if res.Status != http.StatusOK {
		t.Fatalf("predict: expected 200, got %d", res.Status)
	}
	var fc struct {
		Points []struct {
			Close float64 `json:"close"`
		} `json:"points"`
		Mock bool `json:"mock"`
	}
	if err := json.Unmarshal(res.Data, &fc); err != nil {
		t.Fatalf("predict body: %v", err)
	}
	if !fc.Mock || len(fc.Points) != 7 {
		t.Fatalf("expected mock 7-point forecast, got %+v", fc)
	}
}

func TestFetchWithoutSymbolServesDefault(t *testing.T) {
	e := newTestServer(t)
	res := doJSON(t, e, http.MethodPost, "/api/fetch", `{}`)
	if res.Status != http.StatusOK {
		t.Fatalf("expected 200 status in body, got %d", res.Status)
	}
	var series struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(res.Data, &series); err != nil {
		t.Fatalf("fetch body: %v", err)
	}
	if series.Symbol != "MSFT" {
		t.Fatalf("expected the default symbol, got %q", series.Symbol)
	}
}

func TestDeleteWithoutStorage(t *testing.T) {
	e := newTestServer(t)
	res := doJSON(t, e, http.MethodDelete, "/api/model", "")
	if res.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status in body, got %d", res.Status)
	}
}

func TestExportInMockModeIsBadRequest(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/model/export", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out apiBody
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if out.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 status in body, got %d", out.Status)
	}
}

func TestStateSnapshot(t *testing.T) {
	e := newTestServer(t)
	res := doJSON(t, e, http.MethodGet, "/api/state", "")
	if res.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Status)
	}
	var state struct {
		Mode             string `json:"mode"`
		StorageAvailable bool   `json:"storage_available"`
		Busy             bool   `json:"busy"`
	}
	if err := json.Unmarshal(res.Data, &state); err != nil {
		t.Fatalf("state body: %v", err)
	}
	if state.Mode != "mock" || state.StorageAvailable || state.Busy {
		t.Fatalf("unexpected initial state %+v", state)
	}
}
