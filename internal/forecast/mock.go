package forecast

import (
	"context"
	"math"
	"math/rand"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/domain/service"
	"PriceCast/pkg/util"
)

// MockEngine fabricates plausible training and prediction output without any
// real model. It runs whenever the pipeline is in mock mode or the live
// engine is unavailable, purely so observers can render progress.
type MockEngine struct {
	delay time.Duration
	rng   *rand.Rand
}

// NewMockEngine creates the mock implementation. delay paces epoch steps so
// progress consumers see incremental updates.
func NewMockEngine(delay time.Duration, seed int64) *MockEngine {
	return &MockEngine{delay: delay, rng: rand.New(rand.NewSource(seed))}
}

// Train synthesizes an exponential-decay-plus-noise loss curve of exactly
// req.Epochs entries, publishing one progress event per epoch. Each epoch is
// a suspension point honoring ctx cancellation.
func (m *MockEngine) Train(ctx context.Context, _ *models.Series, req models.TrainRequest, sink service.ProgressSink) (*models.ModelHandle, []float64, error) {
	epochs := req.Epochs
	trace := make([]float64, 0, epochs)
	decay := float64(epochs) / 5.0
	if decay <= 0 {
		decay = 1
	}

	for e := 0; e < epochs; e++ {
		loss := math.Exp(-float64(e)/decay) + m.rng.Float64()*0.05
		trace = append(trace, loss)
		if sink != nil {
			sink(models.TrainingProgress{
				Epoch: e, Epochs: epochs, Loss: loss, Mock: true,
				Done: e == epochs-1, At: time.Now(),
			})
		}

		if m.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, trace, ctx.Err()
			case <-time.After(m.delay):
			}
		} else if err := ctx.Err(); err != nil {
			return nil, trace, err
		}
	}

	h := &models.ModelHandle{Kind: models.ModelMock, CreatedAt: time.Now()}
	return h, trace, nil
}

// Predict fabricates a horizon-length forecast around the last known close.
// With no known price it is a no-op returning an empty forecast.
func (m *MockEngine) Predict(_ context.Context, series *models.Series, _ *models.ModelHandle, req models.PredictRequest) (*models.Forecast, error) {
	f := &models.Forecast{Mock: true}
	last, ok := series.Last()
	if !ok {
		return f, nil
	}
	f.Symbol = series.Symbol

	dates := util.ForwardDays(last.Date, req.Horizon)
	f.Points = make([]models.ForecastPoint, 0, req.Horizon)
	for i := 1; i <= req.Horizon; i++ {
		price := last.Close + (math.Sin(float64(i))+m.rng.Float64()*0.5)*last.Close*0.01
		f.Points = append(f.Points, models.ForecastPoint{Date: dates[i-1], Close: price})
	}
	return f, nil
}

var (
	_ service.Trainer   = (*MockEngine)(nil)
	_ service.Predictor = (*MockEngine)(nil)
)
