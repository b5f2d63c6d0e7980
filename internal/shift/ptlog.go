package shift

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"shiftbot/internal/sheets"
)

var (
	dayLabelRE = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	clockRE    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// BuildPtTable renders the point-log matrix for hourly samples between
// start and end inclusive. Row 1 is the header (day, hour, one column per
// tracked target), row 2 starts with zero scores, and the day cell is
// only written on the row that opens a new day.
func BuildPtTable(start, end time.Time, trackings []string) ([][]string, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	var times []time.Time
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		times = append(times, t)
	}

	header := append([]string{"日付", "時間"}, trackings...)
	table := make([][]string, 0, 1+len(times))
	table = append(table, header)

	var prevDay time.Time
	for i, t := range times {
		row := make([]string, len(header))
		day := dateOf(t)
		if !day.Equal(prevDay) {
			row[0] = dayLabel(t)
		}
		row[1] = t.Format("15:04")
		if i == 0 {
			row[0] = dayLabel(t)
			for c := range row {
				if row[c] == "" {
					row[c] = "0"
				}
			}
		}
		table = append(table, row)
		prevDay = day
	}
	return table, nil
}

// WritePtTable builds the point-log matrix, creates its sheet and writes
// it in a single range update.
func WritePtTable(ctx context.Context, store sheets.Store, sheet string, start, end time.Time, trackings []string) error {
	table, err := BuildPtTable(start, end, trackings)
	if err != nil {
		return err
	}
	cols := len(table[0])
	if cols < 2 {
		cols = 2
	}
	if err := store.Create(ctx, sheet, len(table), cols); err != nil {
		return fmt.Errorf("create point-log sheet: %w", err)
	}
	if err := store.WriteRange(ctx, sheet, "A1", table); err != nil {
		return fmt.Errorf("write point-log matrix: %w", err)
	}
	return nil
}

// WriteValues records values into the point-log row nearest to at, which
// must already be expressed in the sheet's time zone. Rows are matched by
// day-label equality first (the day cell carries forward over blank
// cells) and then by absolute clock distance; ties prefer the earlier
// time of day. Keys of values are looked up against the header row, names
// without a matching column are skipped, and if none match no write is
// issued.
func WriteValues(ctx context.Context, store sheets.Store, sheet string, at time.Time, values map[string]string) error {
	rows, err := store.Grid(ctx, sheet)
	if err != nil {
		return fmt.Errorf("fetch point-log sheet: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmptyGrid
	}

	headerCol := map[string]int{}
	for c, h := range rows[0] {
		if h != "" {
			headerCol[h] = c
		}
	}

	targetDay := dayLabel(at)
	tgtSeconds := at.Hour()*3600 + at.Minute()*60 + at.Second()

	bestRow := -1
	bestDiff := 0
	bestMinutes := 0
	currentDay := ""
	for r := 1; r < len(rows); r++ {
		if label := strings.TrimSpace(cellAt(rows, r, 0)); dayLabelRE.MatchString(label) {
			currentDay = label
		}
		if currentDay != targetDay {
			continue
		}

		hh, mm, ok := parseClock(cellAt(rows, r, 1))
		if !ok {
			continue
		}
		diff := hh*3600 + mm*60 - tgtSeconds
		if diff < 0 {
			diff = -diff
		}
		minutes := hh*60 + mm
		switch {
		case bestRow < 0 || diff < bestDiff:
			bestRow, bestDiff, bestMinutes = r, diff, minutes
		case diff == bestDiff && minutes < bestMinutes:
			bestRow, bestMinutes = r, minutes
		}
	}
	if bestRow < 0 {
		return fmt.Errorf("%w: day %s", ErrNoDayRow, targetDay)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var writes []sheets.CellWrite
	for _, name := range names {
		col, ok := headerCol[name]
		if !ok {
			continue
		}
		writes = append(writes, sheets.CellWrite{Ref: sheets.CellRef(bestRow+1, col+1), Value: values[name]})
	}
	if len(writes) == 0 {
		return nil
	}
	if err := store.WriteCells(ctx, sheet, writes); err != nil {
		return fmt.Errorf("write point-log values: %w", err)
	}
	return nil
}

func dayLabel(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

func cellAt(rows [][]string, r, c int) string {
	if r < len(rows) && c < len(rows[r]) {
		return rows[r][c]
	}
	return ""
}

func parseClock(s string) (hh, mm int, ok bool) {
	m := clockRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hh, _ = strconv.Atoi(m[1])
	mm, _ = strconv.Atoi(m[2])
	return hh, mm, true
}
