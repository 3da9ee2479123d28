package forecast

import "PriceCast/internal/domain/models"

// Normalize maps values into [0,1] by min/max and returns the stats needed to
// invert the mapping. An all-equal sequence maps to zeros (range treated as 1).
func Normalize(values []float64) ([]float64, models.NormStats) {
	if len(values) == 0 {
		return nil, models.NormStats{}
	}

	st := models.NormStats{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}

	r := st.Range()
	norm := make([]float64, len(values))
	for i, v := range values {
		norm[i] = (v - st.Min) / r
	}
	return norm, st
}

// Denormalize inverts Normalize using the stats of the original series.
func Denormalize(values []float64, st models.NormStats) []float64 {
	r := st.Range()
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v*r + st.Min
	}
	return out
}
