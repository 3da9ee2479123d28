package forecast

import (
	"context"
	"testing"
	"time"

	"PriceCast/internal/domain/models"
)

func testSeries(n int) *models.Series {
	s := &models.Series{Symbol: "MSFT"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Points = append(s.Points, models.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	return s
}

func TestMockTrainTraceLength(t *testing.T) {
	m := NewMockEngine(0, 1)
	var events []models.TrainingProgress
	sink := func(p models.TrainingProgress) { events = append(events, p) }

	h, trace, err := m.Train(context.Background(), testSeries(30), models.TrainRequest{Epochs: 10}, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace) != 10 {
		t.Fatalf("expected 10 loss entries, got %d", len(trace))
	}
	if len(events) != 10 {
		t.Fatalf("expected 10 progress events, got %d", len(events))
	}
	if !events[9].Done || events[9].Epoch != 9 {
		t.Fatalf("last event not terminal: %+v", events[9])
	}
	for _, ev := range events {
		if !ev.Mock {
			t.Fatalf("mock training must tag events as mock")
		}
	}
	if h.Kind != models.ModelMock {
		t.Fatalf("expected mock handle, got %q", h.Kind)
	}
	if h.IsTrained() {
		t.Fatalf("mock handle must not report trained")
	}
}

func TestMockTrainLossDecays(t *testing.T) {
	m := NewMockEngine(0, 7)
	_, trace, err := m.Train(context.Background(), testSeries(30), models.TrainRequest{Epochs: 50}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Noise is bounded by 0.05, so the decay dominates across the run.
	if trace[49] >= trace[0] {
		t.Fatalf("expected loss to decay: first %v last %v", trace[0], trace[49])
	}
	if trace[49] > 0.06 {
		t.Fatalf("final loss too high: %v", trace[49])
	}
}

func TestMockTrainCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMockEngine(time.Millisecond, 1)
	_, _, err := m.Train(ctx, testSeries(30), models.TrainRequest{Epochs: 100}, nil)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestMockPredictHorizon(t *testing.T) {
	m := NewMockEngine(0, 1)
	series := testSeries(30)
	f, err := m.Predict(context.Background(), series, nil, models.PredictRequest{Horizon: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Mock {
		t.Fatalf("expected mock forecast")
	}
	if len(f.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(f.Points))
	}
	last, _ := series.Last()
	for i, p := range f.Points {
		want := last.Date.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Fatalf("point %d: got date %v want %v", i, p.Date, want)
		}
	}
}

func TestMockPredictEmptySeries(t *testing.T) {
	m := NewMockEngine(0, 1)
	f, err := m.Predict(context.Background(), &models.Series{}, nil, models.PredictRequest{Horizon: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Points) != 0 {
		t.Fatalf("expected empty forecast for empty series")
	}
}
