package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"PriceCast/internal/domain/models"
	drepo "PriceCast/internal/domain/repository"
)

// ClickHouseHistory archives fetched bars and produced forecasts for offline
// analysis. All writes are best-effort from the caller's perspective.
type ClickHouseHistory struct {
	db            *sql.DB
	barsTable     string
	forecastTable string
}

// NewClickHouseHistory creates the history archive.
func NewClickHouseHistory(db *sql.DB, barsTable, forecastTable string) drepo.HistoryStore {
	return &ClickHouseHistory{db: db, barsTable: barsTable, forecastTable: forecastTable}
}

// AppendBars inserts the fetched series using a multi-row VALUES statement,
// chunked to bound statement size.
func (h *ClickHouseHistory) AppendBars(ctx context.Context, s *models.Series) error {
	if s == nil || len(s.Points) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(s.Points); start += chunkSize {
		end := start + chunkSize
		if end > len(s.Points) {
			end = len(s.Points)
		}
		chunk := s.Points[start:end]

		var sb strings.Builder
		args := make([]interface{}, 0, len(chunk)*3)
		fmt.Fprintf(&sb, "INSERT INTO %s (symbol, day, close) VALUES ", h.barsTable)
		for i, p := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?)")
			args = append(args, s.Symbol, p.Date, p.Close)
		}
		if _, err := h.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("append bars: %w", err)
		}
	}
	return nil
}

// AppendForecast inserts the produced forecast points.
func (h *ClickHouseHistory) AppendForecast(ctx context.Context, f *models.Forecast) error {
	if f == nil || len(f.Points) == 0 {
		return nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, len(f.Points)*4)
	fmt.Fprintf(&sb, "INSERT INTO %s (symbol, day, close, mock) VALUES ", h.forecastTable)
	for i, p := range f.Points {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?)")
		mock := uint8(0)
		if f.Mock {
			mock = 1
		}
		args = append(args, f.Symbol, p.Date, p.Close, mock)
	}
	if _, err := h.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("append forecast: %w", err)
	}
	return nil
}

// Close is a no-op; the pooled client is owned by the app.
func (h *ClickHouseHistory) Close() error { return nil }

// NopHistory discards archive writes when the history backend is disabled.
type NopHistory struct{}

func NewNopHistory() drepo.HistoryStore { return &NopHistory{} }

func (NopHistory) AppendBars(context.Context, *models.Series) error       { return nil }
func (NopHistory) AppendForecast(context.Context, *models.Forecast) error { return nil }
func (NopHistory) Close() error                                           { return nil }
