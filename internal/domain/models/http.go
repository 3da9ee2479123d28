package models

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

// Symbol may be left empty; the pipeline then falls back to the remembered
// preference symbol (or the configured default).
type FetchRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,max=12"`
	APIKey string `query:"api_key" json:"api_key"`
}

type TrainRequest struct {
	Lookback  int     `json:"lookback" default:"20" validate:"gte=1,lte=365"`
	Epochs    int     `json:"epochs" default:"50" validate:"gte=1,lte=2000"`
	BatchSize int     `json:"batch_size" default:"16" validate:"gte=1,lte=1024"`
	Units     int     `json:"units" default:"32" validate:"gte=1,lte=512"`
	LearnRate float64 `json:"learning_rate" default:"0.01" validate:"gt=0,lte=1"`
}

type PredictRequest struct {
	Horizon  int `json:"horizon" default:"7" validate:"gte=1,lte=365"`
	Lookback int `json:"lookback" default:"20" validate:"gte=1,lte=365"`
}

type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=mock live"`
}

type PrefsRequest struct {
	Symbol   string `json:"symbol" validate:"omitempty,max=12"`
	APIKey   string `json:"api_key"`
	Remember bool   `json:"remember"`
	Theme    string `json:"theme" default:"dark" validate:"oneof=dark light"`
}

// Preferences is the persisted preference record, read once at startup and
// written on change only when Remember is set.
type Preferences struct {
	Symbol   string `json:"symbol"`
	APIKey   string `json:"api_key"`
	Remember bool   `json:"remember"`
	Theme    string `json:"theme"`
}

// DefaultPreferences returns the reset-all baseline.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "dark"}
}

// PipelineState is the availability snapshot the presentation layer polls.
type PipelineState struct {
	Mode             Mode         `json:"mode"`
	EngineReady      bool         `json:"engine_ready"`
	StorageAvailable bool         `json:"storage_available"`
	ModelPersisted   bool         `json:"model_persisted"`
	Busy             bool         `json:"busy"`
	Symbol           string       `json:"symbol,omitempty"`
	SeriesLen        int          `json:"series_len"`
	Model            *ModelHandle `json:"model,omitempty"`
}
