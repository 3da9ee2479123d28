package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDayInvalid(t *testing.T) {
	if _, ok := ParseDay(""); ok {
		t.Fatalf("expected failure for empty string")
	}
	if _, ok := ParseDay("10/10/2024"); ok {
		t.Fatalf("expected failure for wrong layout")
	}
}

func TestForwardDays(t *testing.T) {
	last := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	days := ForwardDays(last, 3)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, d := range days {
		want := last.AddDate(0, 0, i+1)
		if !d.Equal(want) {
			t.Fatalf("day %d: got %v want %v", i, d, want)
		}
	}
	if ForwardDays(last, 0) != nil {
		t.Fatalf("expected nil for zero horizon")
	}
}
