package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/domain/service"
	"PriceCast/pkg/util"
)

// LiveTrainer fits a real LSTM against the prepared windows. It is pure
// computation; persistence of the result is the caller's concern.
type LiveTrainer struct{}

func NewLiveTrainer() *LiveTrainer { return &LiveTrainer{} }

// Train normalizes the closes, builds lookback windows, and fits the network
// for req.Epochs, publishing the running loss after every epoch. A series no
// longer than the lookback is a fatal insufficient-data condition.
func (t *LiveTrainer) Train(ctx context.Context, series *models.Series, req models.TrainRequest, sink service.ProgressSink) (*models.ModelHandle, []float64, error) {
	if series == nil || len(series.Points) == 0 {
		return nil, nil, models.ErrNoData
	}

	norm, _ := Normalize(series.Closes())
	windows := BuildWindows(norm, req.Lookback)
	if len(windows) == 0 {
		return nil, nil, fmt.Errorf("%w: %d points, lookback %d", models.ErrInsufficientData, len(series.Points), req.Lookback)
	}

	net := NewLSTM(req.Units, req.LearnRate, time.Now().UnixNano())
	trace := make([]float64, 0, req.Epochs)

	for e := 0; e < req.Epochs; e++ {
		loss := net.TrainEpoch(windows, req.BatchSize)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, trace, fmt.Errorf("training diverged at epoch %d", e)
		}
		trace = append(trace, loss)
		if sink != nil {
			sink(models.TrainingProgress{
				Epoch: e, Epochs: req.Epochs, Loss: loss,
				Done: e == req.Epochs-1, At: time.Now(),
			})
		}

		// Epoch boundary is the suspension point for cancellation.
		if err := ctx.Err(); err != nil {
			return nil, trace, err
		}
	}

	h := &models.ModelHandle{
		Kind:      models.ModelTrained,
		CreatedAt: time.Now(),
		Network:   net.Network(),
		Stats: &models.TrainStats{
			Symbol:    series.Symbol,
			Lookback:  req.Lookback,
			Epochs:    req.Epochs,
			Windows:   len(windows),
			FinalLoss: trace[len(trace)-1],
		},
	}
	return h, trace, nil
}

// LivePredictor produces a forecast by autoregressive rollout: each predicted
// value is appended to the working window and drives the next step.
type LivePredictor struct{}

func NewLivePredictor() *LivePredictor { return &LivePredictor{} }

func (p *LivePredictor) Predict(ctx context.Context, series *models.Series, h *models.ModelHandle, req models.PredictRequest) (*models.Forecast, error) {
	if series == nil || len(series.Points) == 0 {
		return nil, models.ErrNoData
	}
	if !h.IsTrained() {
		return nil, models.ErrMockMode
	}
	net, err := FromNetwork(h.Network)
	if err != nil {
		return nil, fmt.Errorf("restore network: %w", err)
	}

	lookback := req.Lookback
	if h.Stats != nil && h.Stats.Lookback > 0 {
		lookback = h.Stats.Lookback
	}
	closes := series.Closes()
	if len(closes) < lookback {
		return nil, fmt.Errorf("%w: %d points, lookback %d", models.ErrInsufficientData, len(closes), lookback)
	}

	// Stats come from the input series and are reused to denormalize the
	// rollout output; they are never recomputed from predictions.
	norm, stats := Normalize(closes)
	window := make([]float64, lookback)
	copy(window, norm[len(norm)-lookback:])

	preds := make([]float64, 0, req.Horizon)
	for i := 0; i < req.Horizon; i++ {
		y := net.Predict(window)
		preds = append(preds, y)
		window = append(window[1:], y)

		// Each rollout step is a suspension point.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	denorm := Denormalize(preds, stats)
	last, _ := series.Last()
	dates := util.ForwardDays(last.Date, req.Horizon)

	f := &models.Forecast{Symbol: series.Symbol, Points: make([]models.ForecastPoint, req.Horizon)}
	for i := range denorm {
		f.Points[i] = models.ForecastPoint{Date: dates[i], Close: denorm[i]}
	}
	return f, nil
}

var (
	_ service.Trainer   = (*LiveTrainer)(nil)
	_ service.Predictor = (*LivePredictor)(nil)
)
