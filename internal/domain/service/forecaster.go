package service

import (
	"context"

	"PriceCast/internal/domain/models"
)

// ProgressSink receives one event per completed epoch. Implementations must
// not block; the trainer will not wait on slow observers.
type ProgressSink func(models.TrainingProgress)

// Trainer fits a model against a price series and returns the new handle plus
// the full loss trace. A failed run must leave the caller's current handle
// untouched.
type Trainer interface {
	Train(ctx context.Context, series *models.Series, req models.TrainRequest, sink ProgressSink) (*models.ModelHandle, []float64, error)
}

// Predictor produces a multi-step forecast from a series and a model handle.
type Predictor interface {
	Predict(ctx context.Context, series *models.Series, h *models.ModelHandle, req models.PredictRequest) (*models.Forecast, error)
}
