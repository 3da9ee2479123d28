package usecase

import (
	"context"
	"time"

	"PriceCast/internal/domain/models"
	applogger "PriceCast/pkg/logger"
)

// TrainResult is what a completed training run reports back.
type TrainResult struct {
	Model     *models.ModelHandle `json:"model"`
	LossTrace []float64           `json:"loss_trace"`
	Persisted bool                `json:"persisted"`
	Mock      bool                `json:"mock"`
}

// Train runs one training pass with whichever engine the selector picks.
// Overlapping runs are rejected; a failed run leaves the previous model
// handle untouched. Persistence of the result is best-effort: training
// success is independent of persistence success.
func (p *Pipeline) Train(ctx context.Context, req models.TrainRequest) (*TrainResult, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.end()

	series, err := p.currentSeries()
	if err != nil {
		return nil, err
	}
	if req.Lookback <= 0 {
		req.Lookback = p.defaults.Lookback
	}
	if req.Epochs <= 0 {
		req.Epochs = p.defaults.Epochs
	}
	if req.BatchSize <= 0 {
		req.BatchSize = p.defaults.BatchSize
	}
	if req.Units <= 0 {
		req.Units = p.defaults.Units
	}
	if req.LearnRate <= 0 {
		req.LearnRate = p.defaults.LearnRate
	}

	// Trace resets at the start of each run and only grows during it.
	p.mu.Lock()
	p.lossTrace = p.lossTrace[:0]
	p.mu.Unlock()

	trainer, _, live := p.selector.Engines()
	mock := !live
	start := time.Now()

	sink := func(ev models.TrainingProgress) {
		p.mu.Lock()
		p.lossTrace = append(p.lossTrace, ev.Loss)
		p.mu.Unlock()
		p.metrics.RecordEpochLoss(ev.Loss)
		p.hub.Publish(ev)
	}

	handle, trace, err := trainer.Train(ctx, series, req, sink)
	if err != nil {
		p.metrics.RecordError("train")
		p.log.Error("training failed", applogger.Error(err), applogger.Bool("mock", mock))
		return nil, err
	}

	p.mu.Lock()
	p.model = handle
	p.mu.Unlock()

	finalLoss := 0.0
	if len(trace) > 0 {
		finalLoss = trace[len(trace)-1]
	}
	p.metrics.RecordTrainingRun(mock)
	p.metrics.RecordLatency("train", time.Since(start).Seconds())
	p.log.Info("training completed",
		applogger.Bool("mock", mock),
		applogger.Int("epochs", len(trace)),
		applogger.Float64("final_loss", finalLoss))

	persisted := false
	if !mock && p.store.Available(ctx) {
		if err := p.store.Save(ctx, handle); err != nil {
			p.log.Warn("model persistence failed", applogger.Error(err))
		} else {
			persisted = true
		}
	}
	if persisted {
		p.mu.Lock()
		p.persisted = true
		p.mu.Unlock()
	}

	return &TrainResult{Model: handle, LossTrace: trace, Persisted: persisted, Mock: mock}, nil
}
