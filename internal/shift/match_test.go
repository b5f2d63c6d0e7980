package shift

import (
	"errors"
	"testing"
	"time"
)

func scheduleGrid() [][]string {
	rows := [][]string{
		{"2026-08-01", "支援者1", "支援者2", "アンコ", "2026-08-02", "支援者1", "支援者2", "アンコ"},
	}
	for h := 0; h < 24; h++ {
		rows = append(rows, make([]string, 8))
	}
	return rows
}

func TestNearestShiftPicksLatestPastRow(t *testing.T) {
	t.Parallel()
	rows := scheduleGrid()
	rows[10][0] = "09:00"
	rows[10][1] = "alice"
	rows[10][3] = "carol"
	rows[13][0] = "12:00"
	rows[13][1] = "dave"
	rows[11][4] = "10:00" // next day, far in the future
	rows[11][5] = "eve"

	now := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	got, err := NearestShift(rows, now, 4)
	if err != nil {
		t.Fatalf("NearestShift: %v", err)
	}
	want := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if !got.At.Equal(want) {
		t.Fatalf("At = %s, want %s", got.At, want)
	}
	// Blank helper cells are skipped, order preserved.
	if len(got.Shifters) != 2 || got.Shifters[0] != "alice" || got.Shifters[1] != "carol" {
		t.Errorf("Shifters = %v, want [alice carol]", got.Shifters)
	}
}

func TestNearestShiftNoPastRow(t *testing.T) {
	t.Parallel()
	rows := scheduleGrid()
	rows[13][0] = "12:00"
	rows[13][1] = "alice"

	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	if _, err := NearestShift(rows, now, 4); !errors.Is(err, ErrNoPastRow) {
		t.Errorf("got %v, want ErrNoPastRow", err)
	}
}

func TestNearestShiftRespectsBlockBoundary(t *testing.T) {
	t.Parallel()
	rows := scheduleGrid()
	rows[10][0] = "09:00"
	rows[10][1] = "alice"
	rows[10][4] = "intruder" // next block's date column, not a helper

	now := time.Date(2026, 8, 1, 9, 5, 0, 0, time.UTC)
	got, err := NearestShift(rows, now, 10)
	if err != nil {
		t.Fatalf("NearestShift: %v", err)
	}
	if len(got.Shifters) != 1 || got.Shifters[0] != "alice" {
		t.Errorf("Shifters = %v, want [alice]", got.Shifters)
	}
}

func TestNearestShiftMaxShiftersCap(t *testing.T) {
	t.Parallel()
	rows := scheduleGrid()
	rows[10][0] = "09:00"
	rows[10][1] = "alice"
	rows[10][2] = "bob"
	rows[10][3] = "carol"

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	got, err := NearestShift(rows, now, 2)
	if err != nil {
		t.Fatalf("NearestShift: %v", err)
	}
	if len(got.Shifters) != 2 || got.Shifters[1] != "bob" {
		t.Errorf("Shifters = %v, want [alice bob]", got.Shifters)
	}
}

func TestNearestShiftGridErrors(t *testing.T) {
	t.Parallel()
	now := time.Now()
	if _, err := NearestShift(nil, now, 4); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("empty grid: got %v, want ErrEmptyGrid", err)
	}
	rows := [][]string{{"a", "b"}, {"c", "d"}}
	if _, err := NearestShift(rows, now, 4); !errors.Is(err, ErrNoDateHeaders) {
		t.Errorf("no headers: got %v, want ErrNoDateHeaders", err)
	}
}
