package shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftbot/internal/sheets"
)

func TestBuildPtTable(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 2, 1, 0, 0, 0, time.UTC)

	table, err := BuildPtTable(start, end, []string{"100", "runnerA"})
	if err != nil {
		t.Fatalf("BuildPtTable: %v", err)
	}
	if len(table) != 5 {
		t.Fatalf("rows = %d, want 5", len(table))
	}
	wantHeader := []string{"日付", "時間", "100", "runnerA"}
	for i, h := range wantHeader {
		if table[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table[0][i], h)
		}
	}
	// First data row carries the day label and zero scores.
	if table[1][0] != "8/1" || table[1][1] != "22:00" || table[1][2] != "0" || table[1][3] != "0" {
		t.Errorf("first data row = %v", table[1])
	}
	// Day label only reappears when the day changes.
	if table[2][0] != "" || table[2][1] != "23:00" {
		t.Errorf("second row = %v", table[2])
	}
	if table[3][0] != "8/2" || table[3][1] != "00:00" {
		t.Errorf("day rollover row = %v", table[3])
	}
	if table[4][0] != "" || table[4][1] != "01:00" {
		t.Errorf("last row = %v", table[4])
	}
	if table[2][2] != "" || table[3][2] != "" {
		t.Error("score cells past the first data row should stay blank")
	}
}

func TestBuildPtTableInvalidRange(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := BuildPtTable(start, end, nil); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

func seedPtSheet(t *testing.T) *sheets.MemoryStore {
	t.Helper()
	store := sheets.NewMemory()
	store.Seed("PtLogs", [][]string{
		{"日付", "時間", "100", "runnerA"},
		{"8/1", "10:00", "0", "0"},
		{"", "11:00", "", ""},
		{"", "13:00", "", ""},
		{"", "14:00", "", ""},
		{"8/2", "00:00", "", ""},
	})
	return store
}

func TestWriteValuesNearestRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedPtSheet(t)

	// 12:30 is 90 minutes from 14:00 and 150 from 11:00.
	at := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	err := WriteValues(ctx, store, "PtLogs", at, map[string]string{"100": "123456", "runnerA": "99"})
	if err != nil {
		t.Fatalf("WriteValues: %v", err)
	}
	rows, err := store.Grid(ctx, "PtLogs")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rows[4][2] != "123456" || rows[4][3] != "99" {
		t.Errorf("14:00 row = %v", rows[4])
	}
}

func TestWriteValuesTiePrefersEarlierTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedPtSheet(t)

	// 12:00 is exactly 60 minutes from both 11:00 and 13:00.
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := WriteValues(ctx, store, "PtLogs", at, map[string]string{"100": "7"}); err != nil {
		t.Fatalf("WriteValues: %v", err)
	}
	rows, err := store.Grid(ctx, "PtLogs")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rows[2][2] != "7" {
		t.Errorf("11:00 row = %v", rows[2])
	}
	if rows[3][2] != "" {
		t.Errorf("13:00 row should be untouched, got %v", rows[3])
	}
}

func TestWriteValuesNoDayRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedPtSheet(t)

	at := time.Date(2026, 8, 5, 12, 0, 0, 0, time.UTC)
	err := WriteValues(ctx, store, "PtLogs", at, map[string]string{"100": "7"})
	if !errors.Is(err, ErrNoDayRow) {
		t.Errorf("got %v, want ErrNoDayRow", err)
	}
}

func TestWriteValuesUnknownHeadersSkipped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seedPtSheet(t)
	before, _ := store.Grid(ctx, "PtLogs")

	at := time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)
	// No key matches a header column, so nothing may be written.
	if err := WriteValues(ctx, store, "PtLogs", at, map[string]string{"500": "1"}); err != nil {
		t.Fatalf("WriteValues: %v", err)
	}
	after, _ := store.Grid(ctx, "PtLogs")
	for r := range before {
		for c := range before[r] {
			if before[r][c] != after[r][c] {
				t.Fatalf("cell (%d,%d) changed: %q -> %q", r, c, before[r][c], after[r][c])
			}
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     string
		hh, mm int
		ok     bool
	}{
		{in: "10:15", hh: 10, mm: 15, ok: true},
		{in: "9:05", hh: 9, mm: 5, ok: true},
		{in: " 00:00 ", ok: true},
		{in: "10:15:30"},
		{in: "10:15x"},
		{in: "10:5"},
		{in: ":15"},
		{in: "10:"},
		{in: "banana"},
		{in: ""},
	}
	for _, tc := range cases {
		hh, mm, ok := parseClock(tc.in)
		if ok != tc.ok {
			t.Errorf("parseClock(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (hh != tc.hh || mm != tc.mm) {
			t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tc.in, hh, mm, tc.hh, tc.mm)
		}
	}
}

func TestWriteValuesMalformedClockSkipped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sheets.NewMemory()
	store.Seed("PtLogs", [][]string{
		{"日付", "時間", "100"},
		{"8/1", "12:00:00", "0"},
		{"", "11:00", ""},
	})

	// The exact-hour row carries a seconds suffix and must be passed
	// over in favor of the well-formed 11:00 row.
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := WriteValues(ctx, store, "PtLogs", at, map[string]string{"100": "7"}); err != nil {
		t.Fatalf("WriteValues: %v", err)
	}
	rows, err := store.Grid(ctx, "PtLogs")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rows[2][2] != "7" {
		t.Errorf("11:00 row = %v", rows[2])
	}
	if rows[1][2] != "0" {
		t.Errorf("12:00:00 row should be untouched, got %v", rows[1])
	}
}
