package usecase

import (
	"context"
	"sync"
	"time"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
	applogger "PriceCast/pkg/logger"
)

// Defaults carries the configured fallbacks for user-tunable knobs. Zero
// values in a request resolve to these.
type Defaults struct {
	Symbol    string
	Lookback  int
	Horizon   int
	Epochs    int
	BatchSize int
	Units     int
	LearnRate float64
}

// Pipeline owns the mutable session state: the fetched series, the single
// current model handle, the latest loss trace, and the busy flag that
// serializes conflicting operations. A new training or import replaces the
// current handle only on its own successful completion.
type Pipeline struct {
	market    drepo.MarketData
	store     drepo.ModelStore
	prefs     drepo.PrefStore
	history   drepo.HistoryStore
	publisher drepo.ForecastPublisher
	metrics   drepo.Metrics
	selector  *ModeSelector
	hub       *ProgressHub
	log       *applogger.Logger
	defaults  Defaults

	mu           sync.Mutex
	busy         bool
	series       *models.Series
	model        *models.ModelHandle
	lossTrace    []float64
	lastForecast *models.Forecast
	persisted    bool
	prefsCache   models.Preferences
}

// NewPipeline creates the pipeline and reads the persisted preferences once.
func NewPipeline(
	market drepo.MarketData,
	store drepo.ModelStore,
	prefs drepo.PrefStore,
	history drepo.HistoryStore,
	publisher drepo.ForecastPublisher,
	metrics drepo.Metrics,
	selector *ModeSelector,
	hub *ProgressHub,
	log *applogger.Logger,
	defaults Defaults,
) *Pipeline {
	p := &Pipeline{
		market:    market,
		store:     store,
		prefs:     prefs,
		history:   history,
		publisher: publisher,
		metrics:   metrics,
		selector:  selector,
		hub:       hub,
		log:       log,
		defaults:  defaults,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	loaded, err := prefs.Load(ctx)
	if err != nil {
		log.Warn("preference load failed, using defaults", applogger.Error(err))
		loaded = models.DefaultPreferences()
	}
	p.prefsCache = loaded
	if loaded.Symbol == "" {
		p.prefsCache.Symbol = defaults.Symbol
	}

	return p
}

// begin marks an operation in flight, rejecting overlap. Conflicting
// requests are rejected rather than queued; the caller retries after the
// in-flight run finishes.
func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return models.ErrBusy
	}
	p.busy = true
	return nil
}

// end clears the in-progress indicator; deferred on every exit path.
func (p *Pipeline) end() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

// Fetch retrieves the daily series for the requested symbol. On failure the
// previously fetched data is retained unchanged.
func (p *Pipeline) Fetch(ctx context.Context, req models.FetchRequest) (*models.Series, error) {
	start := time.Now()
	symbol := req.Symbol
	if symbol == "" {
		symbol = p.prefsSnapshot().Symbol
	}

	series, err := p.market.FetchDaily(ctx, symbol, req.APIKey)
	if err != nil {
		p.metrics.RecordError("fetch")
		return nil, err
	}

	p.mu.Lock()
	p.series = series
	p.lastForecast = nil
	p.mu.Unlock()

	p.metrics.RecordFetch(symbol, len(series.Points))
	p.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	p.log.Info("series fetched",
		applogger.String("symbol", symbol),
		applogger.Int("points", len(series.Points)))

	if err := p.history.AppendBars(ctx, series); err != nil {
		p.log.Warn("history archive failed", applogger.Error(err))
	}

	p.rememberSymbol(ctx, symbol, req.APIKey)
	return series, nil
}

func (p *Pipeline) rememberSymbol(ctx context.Context, symbol, apiKey string) {
	p.mu.Lock()
	p.prefsCache.Symbol = symbol
	if apiKey != "" {
		p.prefsCache.APIKey = apiKey
	}
	snap := p.prefsCache
	p.mu.Unlock()

	if !snap.Remember {
		return
	}
	if err := p.prefs.Save(ctx, snap); err != nil {
		p.log.Warn("preference save failed", applogger.Error(err))
	}
}

func (p *Pipeline) prefsSnapshot() models.Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefsCache
}

// currentSeries returns the fetched series or ErrNoData.
func (p *Pipeline) currentSeries() (*models.Series, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.series == nil || len(p.series.Points) == 0 {
		return nil, models.ErrNoData
	}
	return p.series, nil
}

// State reports the availability snapshot for the presentation layer.
func (p *Pipeline) State(ctx context.Context) models.PipelineState {
	p.mu.Lock()
	busy := p.busy
	model := p.model
	persisted := p.persisted
	symbol := p.prefsCache.Symbol
	seriesLen := 0
	if p.series != nil {
		seriesLen = len(p.series.Points)
	}
	p.mu.Unlock()

	return models.PipelineState{
		Mode:             p.selector.Mode(),
		EngineReady:      p.selector.EngineReady(),
		StorageAvailable: p.store.Available(ctx),
		ModelPersisted:   persisted,
		Busy:             busy,
		Symbol:           symbol,
		SeriesLen:        seriesLen,
		Model:            model,
	}
}

// LossTrace returns a copy of the latest run's loss trace.
func (p *Pipeline) LossTrace() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.lossTrace))
	copy(out, p.lossTrace)
	return out
}

// Chart returns the merged historical and predicted points, tagged by kind.
func (p *Pipeline) Chart() []models.ChartPoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []models.ChartPoint
	if p.series != nil {
		for _, pt := range p.series.Points {
			out = append(out, models.ChartPoint{Date: pt.Date, Close: pt.Close, Kind: "actual"})
		}
	}
	if p.lastForecast != nil {
		for _, pt := range p.lastForecast.Points {
			out = append(out, models.ChartPoint{Date: pt.Date, Close: pt.Close, Kind: "predicted"})
		}
	}
	return out
}

// Hub exposes the progress stream for the transport layer.
func (p *Pipeline) Hub() *ProgressHub { return p.hub }

// Selector exposes the mode selector for the transport layer.
func (p *Pipeline) Selector() *ModeSelector { return p.selector }
