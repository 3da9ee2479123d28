package forecast

import (
	"math"
	"testing"
)

func TestNormalizeRoundTrip(t *testing.T) {
	values := []float64{100, 105.5, 98.2, 110, 103.3}
	norm, st := Normalize(values)
	if len(norm) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(norm))
	}
	back := Denormalize(norm, st)
	for i := range values {
		if math.Abs(back[i]-values[i]) > 1e-9 {
			t.Fatalf("value %d: got %v want %v", i, back[i], values[i])
		}
	}
}

func TestNormalizeBounds(t *testing.T) {
	norm, st := Normalize([]float64{50, 75, 100})
	if st.Min != 50 || st.Max != 100 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if norm[0] != 0 || norm[2] != 1 {
		t.Fatalf("expected [0,1] endpoints, got %v", norm)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	norm, st := Normalize([]float64{42, 42, 42})
	if st.Range() != 1 {
		t.Fatalf("expected range 1 for flat series, got %v", st.Range())
	}
	for i, v := range norm {
		if v != 0 {
			t.Fatalf("value %d: expected 0, got %v", i, v)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	norm, _ := Normalize(nil)
	if norm != nil {
		t.Fatalf("expected nil for empty input")
	}
}
