// Package shift builds and reads event shift schedules stored as
// spreadsheet grids. A schedule sheet carries one date-header column per
// calendar day, each followed by a fixed number of helper columns for the
// people on shift; rows 2..25 are the 24 hours of the day. The package
// also maintains the point-log table used to record ranking scores per
// hour and resolves "which row belongs to this instant" lookups on both.
package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shiftbot/internal/sheets"
)

const (
	scheduleRows = 25 // header + 24 hour rows
	anchorLabel  = "アンコ"
)

// BuildScheduleMatrix renders the full schedule grid for the inclusive
// day range covered by start..end. Each day contributes one date column
// plus helperCols helper columns; hour labels outside the start and end
// instants' hours are left blank on the first and last day. Helper
// columns are numbered supporter slots except the last one per block,
// which is the anchor slot.
func BuildScheduleMatrix(start, end time.Time, helperCols int) ([][]string, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if helperCols < 0 {
		return nil, fmt.Errorf("%w: helper columns %d", ErrInvalidConfig, helperCols)
	}

	days := enumerateDays(start, end)
	totalCols := 1 + helperCols
	if len(days) > 1 {
		totalCols = 1 + (len(days)-1)*(1+helperCols) + helperCols
	}

	table := make([][]string, scheduleRows)
	for i := range table {
		table[i] = make([]string, totalCols)
	}

	startDay := dateOf(start)
	endDay := dateOf(end)
	for i, day := range days {
		baseCol := i * (1 + helperCols)
		dayStartHour := 0
		if day.Equal(startDay) {
			dayStartHour = start.Hour()
		}
		dayEndHour := 23
		if day.Equal(endDay) {
			dayEndHour = end.Hour()
		}
		table[0][baseCol] = day.Format("2006-01-02")
		for h := 0; h < 24; h++ {
			if h >= dayStartHour && h <= dayEndHour {
				table[h+1][baseCol] = fmt.Sprintf("%02d:00", h)
			}
		}
		for j := 0; j < helperCols; j++ {
			label := fmt.Sprintf("支援者%d", j+1)
			if j == helperCols-1 {
				label = anchorLabel
			}
			table[0][baseCol+1+j] = label
		}
	}
	return table, nil
}

// WriteSchedule builds the schedule matrix, creates the target sheet
// sized to it and writes the whole matrix in one update. Freezing the
// header row is cosmetic; its failure is logged and swallowed.
func WriteSchedule(ctx context.Context, store sheets.Store, sheet string, start, end time.Time, helperCols int, log *slog.Logger) error {
	table, err := BuildScheduleMatrix(start, end, helperCols)
	if err != nil {
		return err
	}
	if err := store.Create(ctx, sheet, len(table), len(table[0])); err != nil {
		return fmt.Errorf("create schedule sheet: %w", err)
	}
	if err := store.WriteRange(ctx, sheet, "A1", table); err != nil {
		return fmt.Errorf("write schedule matrix: %w", err)
	}
	if err := store.FreezeRows(ctx, sheet, 1); err != nil && log != nil {
		log.Warn("freeze header row failed", "sheet", sheet, "error", err)
	}
	return nil
}

// enumerateDays lists the calendar days from start to end inclusive,
// ignoring time-of-day.
func enumerateDays(start, end time.Time) []time.Time {
	var days []time.Time
	endDay := dateOf(end)
	for d := dateOf(start); !d.After(endDay); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
