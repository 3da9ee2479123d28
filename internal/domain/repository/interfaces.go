package repository

import (
	"context"

	"PriceCast/internal/domain/models"
)

// MarketData fetches a daily close series from the third-party endpoint.
type MarketData interface {
	FetchDaily(ctx context.Context, symbol, apiKey string) (*models.Series, error)
}

// ModelStore persists the current model under a fixed logical key.
// Availability is environment-dependent and must be probed before use.
type ModelStore interface {
	Available(ctx context.Context) bool
	Save(ctx context.Context, h *models.ModelHandle) error
	Load(ctx context.Context) (*models.ModelHandle, error)
	Delete(ctx context.Context) error
}

// PrefStore persists user preferences across sessions.
type PrefStore interface {
	Load(ctx context.Context) (models.Preferences, error)
	Save(ctx context.Context, p models.Preferences) error
	Clear(ctx context.Context) error
}

// HistoryStore archives fetched bars and produced forecasts. Best-effort:
// callers log failures and continue.
type HistoryStore interface {
	AppendBars(ctx context.Context, s *models.Series) error
	AppendForecast(ctx context.Context, f *models.Forecast) error
	Close() error
}

// ForecastPublisher emits completed forecasts for downstream consumers.
type ForecastPublisher interface {
	Publish(ctx context.Context, f *models.Forecast) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordFetch(symbol string, points int)
	RecordTrainingRun(mock bool)
	RecordEpochLoss(loss float64)
	RecordForecast(mock bool, steps int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
