package forecast

import "PriceCast/internal/domain/models"

// BuildWindows slices a normalized series into lookback-length inputs with the
// following value as target. A series no longer than lookback yields zero
// windows; the trainer treats that as insufficient data, not a no-op.
func BuildWindows(norm []float64, lookback int) []models.Window {
	if lookback <= 0 || len(norm) <= lookback {
		return nil
	}

	windows := make([]models.Window, 0, len(norm)-lookback)
	for i := 0; i+lookback < len(norm); i++ {
		in := make([]float64, lookback)
		copy(in, norm[i:i+lookback])
		windows = append(windows, models.Window{
			Inputs: in,
			Target: norm[i+lookback],
		})
	}
	return windows
}
