package models

import "time"

// Mode selects which train/predict implementation runs.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// ModelKind tags a ModelHandle variant.
type ModelKind string

const (
	ModelMock    ModelKind = "mock"
	ModelTrained ModelKind = "trained"
)

// ModelHandle is the single current predictor reference. Exactly one is
// current at a time; training or import replaces it only on success.
type ModelHandle struct {
	Kind      ModelKind   `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
	Network   *Network    `json:"network,omitempty"`
	Stats     *TrainStats `json:"stats,omitempty"`
}

// IsTrained reports whether the handle wraps real weights.
func (h *ModelHandle) IsTrained() bool {
	return h != nil && h.Kind == ModelTrained && h.Network != nil
}

// TrainStats summarizes a completed fit.
type TrainStats struct {
	Symbol    string  `json:"symbol"`
	Lookback  int     `json:"lookback"`
	Epochs    int     `json:"epochs"`
	Windows   int     `json:"windows"`
	FinalLoss float64 `json:"final_loss"`
}

// Network is the serializable LSTM topology and weights. The forecast package
// owns the math; this shape is what export/import and the model store move around.
type Network struct {
	InputSize  int `json:"input_size"`
	HiddenSize int `json:"hidden_size"`

	// Gate weights, one row per hidden unit, laid out input|forget|cell|output.
	Wx [][]float64 `json:"wx"` // 4H x InputSize
	Wh [][]float64 `json:"wh"` // 4H x HiddenSize
	B  []float64   `json:"b"`  // 4H

	// Dense head mapping the final hidden state to one output.
	Why []float64 `json:"why"` // HiddenSize
	By  float64   `json:"by"`

	LearningRate float64 `json:"learning_rate"`
}

// TrainingProgress is one per-epoch event on the progress stream.
// Epoch indices are strictly increasing within a run.
type TrainingProgress struct {
	Epoch  int       `json:"epoch"`
	Epochs int       `json:"epochs"`
	Loss   float64   `json:"loss"`
	Mock   bool      `json:"mock"`
	Done   bool      `json:"done"`
	At     time.Time `json:"at"`
}
