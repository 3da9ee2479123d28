package usecase

import (
	"errors"
	"testing"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/forecast"
)

func newSelector(probeErr error, probeCalls *int) *ModeSelector {
	mock := forecast.NewMockEngine(0, 1)
	probe := func() error {
		if probeCalls != nil {
			*probeCalls++
		}
		return probeErr
	}
	return NewModeSelector(probe, mock, mock, forecast.NewLiveTrainer(), forecast.NewLivePredictor())
}

func TestSelectorStartsMock(t *testing.T) {
	s := newSelector(nil, nil)
	if s.Mode() != models.ModeMock {
		t.Fatalf("expected mock mode at start")
	}
	if s.EngineReady() {
		t.Fatalf("engine must start unprobed")
	}
	if s.Live() {
		t.Fatalf("must not select live before EnableLive")
	}
	if _, ok := s.Trainer().(*forecast.MockEngine); !ok {
		t.Fatalf("expected mock trainer")
	}
}

func TestEnableLiveProbeFailure(t *testing.T) {
	s := newSelector(errors.New("no engine"), nil)
	if err := s.EnableLive(); err == nil {
		t.Fatalf("expected probe error")
	}
	if s.Mode() != models.ModeMock || s.EngineReady() || s.Live() {
		t.Fatalf("failed probe must leave mock state")
	}
	if _, ok := s.Predictor().(*forecast.MockEngine); !ok {
		t.Fatalf("expected mock predictor after failed probe")
	}
}

func TestEnableLiveSuccess(t *testing.T) {
	s := newSelector(nil, nil)
	if err := s.EnableLive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Live() || s.Mode() != models.ModeLive || !s.EngineReady() {
		t.Fatalf("expected live state")
	}
	if _, ok := s.Trainer().(*forecast.LiveTrainer); !ok {
		t.Fatalf("expected live trainer")
	}
	if _, ok := s.Predictor().(*forecast.LivePredictor); !ok {
		t.Fatalf("expected live predictor")
	}
}

func TestEnginesSnapshotIsConsistent(t *testing.T) {
	s := newSelector(nil, nil)

	trainer, predictor, live := s.Engines()
	if live {
		t.Fatalf("must not report live before EnableLive")
	}
	if _, ok := trainer.(*forecast.MockEngine); !ok {
		t.Fatalf("expected mock trainer in snapshot")
	}
	if _, ok := predictor.(*forecast.MockEngine); !ok {
		t.Fatalf("expected mock predictor in snapshot")
	}

	if err := s.EnableLive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trainer, predictor, live = s.Engines()
	if !live {
		t.Fatalf("expected live snapshot after EnableLive")
	}
	if _, ok := trainer.(*forecast.LiveTrainer); !ok {
		t.Fatalf("expected live trainer in snapshot")
	}
	if _, ok := predictor.(*forecast.LivePredictor); !ok {
		t.Fatalf("expected live predictor in snapshot")
	}
}

func TestSetMockKeepsEngineReady(t *testing.T) {
	calls := 0
	s := newSelector(nil, &calls)
	if err := s.EnableLive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.SetMock()
	if s.Live() {
		t.Fatalf("expected mock selection after SetMock")
	}
	if !s.EngineReady() {
		t.Fatalf("engine readiness must survive a mode switch")
	}

	// Flipping back does not probe again.
	if err := s.EnableLive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single probe, got %d", calls)
	}
}
