package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"shiftbot/internal/sheets"
)

func TestBuildScheduleMatrixSingleDay(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 18, 30, 0, 0, time.UTC)

	table, err := BuildScheduleMatrix(start, end, 2)
	if err != nil {
		t.Fatalf("BuildScheduleMatrix: %v", err)
	}
	if len(table) != 25 {
		t.Fatalf("rows = %d, want 25", len(table))
	}
	if len(table[0]) != 3 {
		t.Fatalf("cols = %d, want 3", len(table[0]))
	}
	if table[0][0] != "2026-08-01" {
		t.Errorf("date header = %q", table[0][0])
	}
	if table[0][1] != "支援者1" || table[0][2] != "アンコ" {
		t.Errorf("helper labels = %q, %q", table[0][1], table[0][2])
	}
	for h := 0; h < 24; h++ {
		got := table[h+1][0]
		if h >= 9 && h <= 18 {
			if want := fmt.Sprintf("%02d:00", h); got != want {
				t.Errorf("hour %d label = %q, want %q", h, got, want)
			}
		} else if got != "" {
			t.Errorf("hour %d label = %q, want blank", h, got)
		}
	}
}

func TestBuildScheduleMatrixMultiDay(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 3, 2, 0, 0, 0, time.UTC)

	table, err := BuildScheduleMatrix(start, end, 4)
	if err != nil {
		t.Fatalf("BuildScheduleMatrix: %v", err)
	}
	// 3 days: 1 + 2*(1+4) + 4
	if len(table[0]) != 15 {
		t.Fatalf("cols = %d, want 15", len(table[0]))
	}
	if table[0][0] != "2026-08-01" || table[0][5] != "2026-08-02" || table[0][10] != "2026-08-03" {
		t.Errorf("date headers = %q, %q, %q", table[0][0], table[0][5], table[0][10])
	}
	// First day starts at 22, middle day is full, last day ends at 02.
	if table[22][0] != "" || table[23][0] != "22:00" {
		t.Errorf("first day bounds wrong: hour21=%q hour22=%q", table[22][0], table[23][0])
	}
	if table[1][5] != "00:00" || table[24][5] != "23:00" {
		t.Errorf("middle day not full: %q, %q", table[1][5], table[24][5])
	}
	if table[3][10] != "02:00" || table[4][10] != "" {
		t.Errorf("last day bounds wrong: %q, %q", table[3][10], table[4][10])
	}
}

func TestBuildScheduleMatrixErrors(t *testing.T) {
	t.Parallel()
	later := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := BuildScheduleMatrix(later, earlier, 2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range: got %v, want ErrInvalidRange", err)
	}
	if _, err := BuildScheduleMatrix(earlier, later, -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative helpers: got %v, want ErrInvalidConfig", err)
	}
}

func TestWriteSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sheets.NewMemory()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)

	if err := WriteSchedule(ctx, store, "Shift", start, end, 2, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("WriteSchedule: %v", err)
	}
	rows, err := store.Grid(ctx, "Shift")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(rows) != 25 || len(rows[0]) != 3 {
		t.Fatalf("sheet shape = %dx%d, want 25x3", len(rows), len(rows[0]))
	}
	if store.FrozenRows("Shift") != 1 {
		t.Errorf("frozen rows = %d, want 1", store.FrozenRows("Shift"))
	}

	// A second write against the same title must refuse to clobber it.
	err = WriteSchedule(ctx, store, "Shift", start, end, 2, slog.New(slog.DiscardHandler))
	if !errors.Is(err, sheets.ErrSheetExists) {
		t.Errorf("duplicate WriteSchedule: got %v, want ErrSheetExists", err)
	}
}
