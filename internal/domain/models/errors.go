package models

import "errors"

// Distinct pipeline conditions. Handlers map these onto HTTP statuses; the
// messages are surfaced to the user verbatim.
var (
	// ErrNoData means no price series has been fetched yet.
	ErrNoData = errors.New("no price data loaded")

	// ErrInsufficientData means the series is too short for the chosen lookback.
	ErrInsufficientData = errors.New("insufficient data for lookback")

	// ErrInvalidResponse means the market-data payload lacked the expected series key.
	ErrInvalidResponse = errors.New("invalid market data response")

	// ErrStorageUnavailable means the durable model store is absent in this environment.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNothingToDelete means delete was requested with no persisted model applicable.
	ErrNothingToDelete = errors.New("nothing to delete")

	// ErrModelNotFound means no model is persisted under the storage key.
	ErrModelNotFound = errors.New("no persisted model")

	// ErrInvalidModel means an imported model file failed validation.
	ErrInvalidModel = errors.New("invalid model file")

	// ErrMockMode means the operation needs a real model and live mode.
	ErrMockMode = errors.New("mock mode or engine unavailable")

	// ErrBusy means a conflicting training/import operation is in flight.
	ErrBusy = errors.New("operation already in progress")
)
