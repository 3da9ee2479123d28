package forecast

import "testing"

func TestBuildWindowsCount(t *testing.T) {
	norm := make([]float64, 30)
	for i := range norm {
		norm[i] = float64(i) / 30
	}
	windows := BuildWindows(norm, 20)
	if len(windows) != 10 {
		t.Fatalf("expected 10 windows, got %d", len(windows))
	}
	for i, w := range windows {
		if len(w.Inputs) != 20 {
			t.Fatalf("window %d: expected 20 inputs, got %d", i, len(w.Inputs))
		}
		if w.Target != norm[i+20] {
			t.Fatalf("window %d: got target %v want %v", i, w.Target, norm[i+20])
		}
	}
}

func TestBuildWindowsInsufficient(t *testing.T) {
	norm := make([]float64, 20)
	if got := BuildWindows(norm, 20); got != nil {
		t.Fatalf("expected nil when series equals lookback, got %d windows", len(got))
	}
	if got := BuildWindows(norm, 25); got != nil {
		t.Fatalf("expected nil when series shorter than lookback")
	}
	if got := BuildWindows(norm, 0); got != nil {
		t.Fatalf("expected nil for zero lookback")
	}
}

func TestBuildWindowsCopiesInputs(t *testing.T) {
	norm := []float64{0.1, 0.2, 0.3, 0.4}
	windows := BuildWindows(norm, 2)
	windows[0].Inputs[0] = 99
	if norm[0] == 99 {
		t.Fatalf("window inputs alias the source slice")
	}
}
