package usecase

import (
	"fmt"
	"sync"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/domain/service"
)

// EngineProbe checks whether the live engine can run in this environment.
type EngineProbe func() error

// ModeSelector gates which train/predict implementation runs. The mock pair
// is returned whenever mode is mock or the engine never came ready; runtime
// failures inside live operations never flip the mode back.
type ModeSelector struct {
	mu          sync.RWMutex
	mode        models.Mode
	engineReady bool

	probe      EngineProbe
	mockEngine *forecastPair
	liveEngine *forecastPair
}

type forecastPair struct {
	trainer   service.Trainer
	predictor service.Predictor
}

// NewModeSelector starts in mock mode with the engine unprobed.
func NewModeSelector(probe EngineProbe, mockT service.Trainer, mockP service.Predictor, liveT service.Trainer, liveP service.Predictor) *ModeSelector {
	return &ModeSelector{
		mode:       models.ModeMock,
		probe:      probe,
		mockEngine: &forecastPair{trainer: mockT, predictor: mockP},
		liveEngine: &forecastPair{trainer: liveT, predictor: liveP},
	}
}

// Mode returns the current mode.
func (s *ModeSelector) Mode() models.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// EngineReady reports whether the live engine initialized successfully.
func (s *ModeSelector) EngineReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engineReady
}

// Live reports whether live implementations would currently be selected.
func (s *ModeSelector) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode == models.ModeLive && s.engineReady
}

// EnableLive probes the engine and, only on success, flips to live mode.
// Failure leaves mock mode and a not-ready engine; the error is returned as
// a recoverable condition for the caller to report.
func (s *ModeSelector) EnableLive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engineReady {
		s.mode = models.ModeLive
		return nil
	}
	if err := s.probe(); err != nil {
		s.mode = models.ModeMock
		s.engineReady = false
		return fmt.Errorf("enable live engine: %w", err)
	}
	s.engineReady = true
	s.mode = models.ModeLive
	return nil
}

// SetMock switches back to the mock implementations without touching the
// engine-ready flag.
func (s *ModeSelector) SetMock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = models.ModeMock
}

// Engines returns both implementations and the live flag as one consistent
// snapshot, so a mode toggle landing mid-operation cannot mislabel the run.
func (s *ModeSelector) Engines() (service.Trainer, service.Predictor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == models.ModeLive && s.engineReady {
		return s.liveEngine.trainer, s.liveEngine.predictor, true
	}
	return s.mockEngine.trainer, s.mockEngine.predictor, false
}

// Trainer returns the implementation for the current state.
func (s *ModeSelector) Trainer() service.Trainer {
	t, _, _ := s.Engines()
	return t
}

// Predictor returns the implementation for the current state.
func (s *ModeSelector) Predictor() service.Predictor {
	_, p, _ := s.Engines()
	return p
}
