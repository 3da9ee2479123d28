package forecast

import (
	"context"
	"errors"
	"testing"

	"PriceCast/internal/domain/models"
)

func TestLiveTrainNoData(t *testing.T) {
	tr := NewLiveTrainer()
	_, _, err := tr.Train(context.Background(), &models.Series{}, models.TrainRequest{Lookback: 20, Epochs: 5}, nil)
	if !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestLiveTrainInsufficientData(t *testing.T) {
	tr := NewLiveTrainer()
	req := models.TrainRequest{Lookback: 20, Epochs: 5, BatchSize: 8, Units: 4, LearnRate: 0.05}
	_, _, err := tr.Train(context.Background(), testSeries(15), req, nil)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	// A series exactly lookback long yields zero windows and fails the same way.
	_, _, err = tr.Train(context.Background(), testSeries(20), req, nil)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData at boundary, got %v", err)
	}
}

func TestLiveTrainProducesTrainedHandle(t *testing.T) {
	tr := NewLiveTrainer()
	req := models.TrainRequest{Lookback: 5, Epochs: 3, BatchSize: 8, Units: 4, LearnRate: 0.05}

	var events []models.TrainingProgress
	h, trace, err := tr.Train(context.Background(), testSeries(40), req, func(p models.TrainingProgress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace) != 3 || len(events) != 3 {
		t.Fatalf("expected 3 epochs, got trace %d events %d", len(trace), len(events))
	}
	if !h.IsTrained() {
		t.Fatalf("expected trained handle")
	}
	if h.Stats == nil || h.Stats.Windows != 35 || h.Stats.Lookback != 5 {
		t.Fatalf("unexpected stats: %+v", h.Stats)
	}
	if h.Stats.FinalLoss != trace[2] {
		t.Fatalf("final loss mismatch: %v vs %v", h.Stats.FinalLoss, trace[2])
	}
	for _, ev := range events {
		if ev.Mock {
			t.Fatalf("live training must not tag events as mock")
		}
	}
}

func TestLivePredictRollout(t *testing.T) {
	tr := NewLiveTrainer()
	series := testSeries(40)
	req := models.TrainRequest{Lookback: 5, Epochs: 3, BatchSize: 8, Units: 4, LearnRate: 0.05}
	h, _, err := tr.Train(context.Background(), series, req, nil)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}

	pr := NewLivePredictor()
	f, err := pr.Predict(context.Background(), series, h, models.PredictRequest{Horizon: 5, Lookback: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Mock {
		t.Fatalf("live forecast must not be mock")
	}
	if len(f.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(f.Points))
	}
	last, _ := series.Last()
	for i, p := range f.Points {
		want := last.Date.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Fatalf("point %d: got date %v want %v", i, p.Date, want)
		}
	}
}

func TestLivePredictUsesHandleLookback(t *testing.T) {
	tr := NewLiveTrainer()
	series := testSeries(40)
	h, _, err := tr.Train(context.Background(), series, models.TrainRequest{Lookback: 5, Epochs: 2, BatchSize: 8, Units: 4, LearnRate: 0.05}, nil)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}

	// Request lookback disagrees with what the model was trained on; the
	// handle's value wins.
	pr := NewLivePredictor()
	f, err := pr.Predict(context.Background(), series, h, models.PredictRequest{Horizon: 3, Lookback: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(f.Points))
	}
}

func TestLivePredictUntrainedHandle(t *testing.T) {
	pr := NewLivePredictor()
	mockHandle := &models.ModelHandle{Kind: models.ModelMock}
	if _, err := pr.Predict(context.Background(), testSeries(40), mockHandle, models.PredictRequest{Horizon: 3, Lookback: 5}); !errors.Is(err, models.ErrMockMode) {
		t.Fatalf("expected ErrMockMode, got %v", err)
	}
	if _, err := pr.Predict(context.Background(), &models.Series{}, mockHandle, models.PredictRequest{Horizon: 3}); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
