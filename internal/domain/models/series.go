package models

import "time"

// PricePoint is one daily close, ascending by date within a Series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series is an ordered daily close sequence for one symbol.
type Series struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Closes returns the close values in date order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Last returns the most recent point and false when the series is empty.
func (s *Series) Last() (PricePoint, bool) {
	if s == nil || len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// NormStats holds the min/max of the series a normalization was computed from.
// Owned by a single normalize/denormalize round trip; never cached across fetches.
type NormStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns max-min, substituting 1 for a degenerate range.
func (st NormStats) Range() float64 {
	r := st.Max - st.Min
	if r == 0 {
		return 1
	}
	return r
}

// Window is one training sample: lookback normalized inputs and the next value.
type Window struct {
	Inputs []float64
	Target float64
}

// ForecastPoint is one predicted close, tagged for chart merging.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Forecast is the multi-step prediction for dates strictly after the input series.
type Forecast struct {
	Symbol string          `json:"symbol"`
	Points []ForecastPoint `json:"points"`
	Mock   bool            `json:"mock"`
}

// ChartPoint is a merged historical or predicted point for the presentation layer.
type ChartPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
	Kind  string    `json:"kind"` // "actual" or "predicted"
}
