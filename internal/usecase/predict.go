package usecase

import (
	"context"
	"time"

	"PriceCast/internal/domain/models"
	applogger "PriceCast/pkg/logger"
)

// Predict produces a forecast with whichever engine the selector picks. In
// live mode with no model in memory it attempts to load the persisted one;
// if storage is unavailable or the load fails the operation is a no-op
// returning an empty forecast, not an error.
func (p *Pipeline) Predict(ctx context.Context, req models.PredictRequest) (*models.Forecast, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.end()

	series, err := p.currentSeries()
	if err != nil {
		return nil, err
	}
	if req.Horizon <= 0 {
		req.Horizon = p.defaults.Horizon
	}
	if req.Lookback <= 0 {
		req.Lookback = p.defaults.Lookback
	}

	_, predictor, live := p.selector.Engines()
	mock := !live

	p.mu.Lock()
	handle := p.model
	p.mu.Unlock()

	if !mock && !handle.IsTrained() {
		loaded, err := p.store.Load(ctx)
		if err != nil || !loaded.IsTrained() {
			if err != nil {
				p.log.Warn("no usable persisted model", applogger.Error(err))
			}
			return &models.Forecast{Symbol: series.Symbol}, nil
		}
		p.mu.Lock()
		p.model = loaded
		p.persisted = true
		p.mu.Unlock()
		handle = loaded
	}

	start := time.Now()
	forecast, err := predictor.Predict(ctx, series, handle, req)
	if err != nil {
		p.metrics.RecordError("predict")
		p.log.Error("prediction failed", applogger.Error(err), applogger.Bool("mock", mock))
		return nil, err
	}

	p.mu.Lock()
	p.lastForecast = forecast
	p.mu.Unlock()

	p.metrics.RecordForecast(forecast.Mock, len(forecast.Points))
	p.metrics.RecordLatency("predict", time.Since(start).Seconds())
	p.log.Info("forecast produced",
		applogger.String("symbol", forecast.Symbol),
		applogger.Int("steps", len(forecast.Points)),
		applogger.Bool("mock", forecast.Mock))

	if err := p.history.AppendForecast(ctx, forecast); err != nil {
		p.log.Warn("forecast archive failed", applogger.Error(err))
	}
	if err := p.publisher.Publish(ctx, forecast); err != nil {
		p.log.Warn("forecast publish failed", applogger.Error(err))
	}

	return forecast, nil
}
