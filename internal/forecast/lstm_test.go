package forecast

import (
	"math"
	"testing"

	"PriceCast/internal/domain/models"
)

func rampWindows(n, lookback int) []models.Window {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i) / float64(n)
	}
	return BuildWindows(values, lookback)
}

func TestLSTMLearnsRamp(t *testing.T) {
	windows := rampWindows(40, 5)
	l := NewLSTM(8, 0.05, 1)

	first := l.TrainEpoch(windows, 8)
	var last float64
	for e := 0; e < 60; e++ {
		last = l.TrainEpoch(windows, 8)
	}
	if math.IsNaN(last) || math.IsInf(last, 0) {
		t.Fatalf("training diverged: %v", last)
	}
	if last >= first {
		t.Fatalf("loss did not improve: first %v last %v", first, last)
	}
}

func TestLSTMPredictFinite(t *testing.T) {
	l := NewLSTM(4, 0.01, 1)
	y := l.Predict([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	if math.IsNaN(y) || math.IsInf(y, 0) {
		t.Fatalf("non-finite prediction: %v", y)
	}
	if l.Predict(nil) != 0 {
		t.Fatalf("expected zero output for empty input")
	}
}

func TestValidateNetwork(t *testing.T) {
	good := NewLSTM(4, 0.01, 1).Network()
	if err := ValidateNetwork(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateNetwork(nil); err == nil {
		t.Fatalf("expected error for nil network")
	}

	bad := NewLSTM(4, 0.01, 1).Network()
	bad.Why = bad.Why[:2]
	if err := ValidateNetwork(bad); err == nil {
		t.Fatalf("expected error for truncated weights")
	}

	zeroLR := NewLSTM(4, 0.01, 1).Network()
	zeroLR.LearningRate = 0
	if err := ValidateNetwork(zeroLR); err == nil {
		t.Fatalf("expected error for zero learning rate")
	}
}

func TestFromNetworkRoundTrip(t *testing.T) {
	orig := NewLSTM(6, 0.02, 3)
	in := []float64{0.3, 0.4, 0.5}
	want := orig.Predict(in)

	restored, err := FromNetwork(orig.Network())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := restored.Predict(in); got != want {
		t.Fatalf("restored network diverges: got %v want %v", got, want)
	}
}

func TestSelfTest(t *testing.T) {
	if err := SelfTest(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
