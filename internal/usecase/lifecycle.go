package usecase

import (
	"context"
	"fmt"
	"time"

	"PriceCast/internal/domain/models"
	"PriceCast/internal/forecast"
	applogger "PriceCast/pkg/logger"
)

// Export returns the current model handle for download. Only a trained live
// model is exportable.
func (p *Pipeline) Export(ctx context.Context) (*models.ModelHandle, error) {
	if !p.selector.Live() {
		return nil, models.ErrMockMode
	}
	p.mu.Lock()
	handle := p.model
	p.mu.Unlock()

	if !handle.IsTrained() {
		loaded, err := p.store.Load(ctx)
		if err != nil || !loaded.IsTrained() {
			return nil, models.ErrModelNotFound
		}
		p.mu.Lock()
		p.model = loaded
		p.persisted = true
		p.mu.Unlock()
		handle = loaded
	}
	return handle, nil
}

// Import validates an uploaded handle and installs it as the current model.
// The previous handle is replaced only after the upload passes validation.
func (p *Pipeline) Import(ctx context.Context, handle *models.ModelHandle) error {
	if !p.selector.Live() {
		return models.ErrMockMode
	}
	if handle == nil || handle.Network == nil {
		return models.ErrInvalidModel
	}
	if err := forecast.ValidateNetwork(handle.Network); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidModel, err)
	}
	if err := p.begin(); err != nil {
		return err
	}
	defer p.end()

	handle.Kind = models.ModelTrained
	if handle.CreatedAt.IsZero() {
		handle.CreatedAt = time.Now().UTC()
	}

	p.mu.Lock()
	p.model = handle
	p.mu.Unlock()

	p.log.Info("model imported", applogger.Int("hidden", handle.Network.HiddenSize))

	if p.store.Available(ctx) {
		if err := p.store.Save(ctx, handle); err != nil {
			p.log.Warn("imported model persistence failed", applogger.Error(err))
		} else {
			p.mu.Lock()
			p.persisted = true
			p.mu.Unlock()
		}
	}
	return nil
}

// DeletePersisted removes the stored model and clears the in-memory handle.
func (p *Pipeline) DeletePersisted(ctx context.Context) error {
	if !p.store.Available(ctx) {
		return models.ErrStorageUnavailable
	}
	if p.selector.Mode() != models.ModeLive {
		return models.ErrNothingToDelete
	}
	if err := p.begin(); err != nil {
		return err
	}
	defer p.end()

	if err := p.store.Delete(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	p.model = nil
	p.persisted = false
	p.mu.Unlock()

	p.log.Info("persisted model deleted")
	return nil
}

// ResetAll clears preferences and, best-effort, the stored model. Mode goes
// back to mock; a previously successful engine probe stays remembered.
func (p *Pipeline) ResetAll(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	defer p.end()

	if err := p.prefs.Clear(ctx); err != nil {
		p.log.Warn("preference clear failed", applogger.Error(err))
	}
	if p.store.Available(ctx) {
		if err := p.store.Delete(ctx); err != nil {
			p.log.Warn("stored model delete failed", applogger.Error(err))
		}
	}

	p.selector.SetMock()

	p.mu.Lock()
	p.series = nil
	p.model = nil
	p.lossTrace = nil
	p.lastForecast = nil
	p.persisted = false
	p.prefsCache = models.DefaultPreferences()
	p.mu.Unlock()

	p.log.Info("session reset")
	return nil
}

// SetMode switches between mock and live. Enabling live runs the engine
// probe; a probe failure leaves mock mode in place and is returned to the
// caller as a recoverable condition.
func (p *Pipeline) SetMode(mode models.Mode) error {
	switch mode {
	case models.ModeLive:
		return p.selector.EnableLive()
	default:
		p.selector.SetMock()
		return nil
	}
}

// GetPrefs returns the current preference snapshot.
func (p *Pipeline) GetPrefs() models.Preferences {
	return p.prefsSnapshot()
}

// SetPrefs updates the in-memory preferences. They are written through only
// when Remember is set; turning Remember off clears the stored record.
func (p *Pipeline) SetPrefs(ctx context.Context, req models.PrefsRequest) (models.Preferences, error) {
	p.mu.Lock()
	if req.Symbol != "" {
		p.prefsCache.Symbol = req.Symbol
	}
	if req.APIKey != "" {
		p.prefsCache.APIKey = req.APIKey
	}
	if req.Theme != "" {
		p.prefsCache.Theme = req.Theme
	}
	p.prefsCache.Remember = req.Remember
	snap := p.prefsCache
	p.mu.Unlock()

	if snap.Remember {
		if err := p.prefs.Save(ctx, snap); err != nil {
			return snap, err
		}
	} else {
		if err := p.prefs.Clear(ctx); err != nil {
			p.log.Warn("preference clear failed", applogger.Error(err))
		}
	}
	return snap, nil
}
