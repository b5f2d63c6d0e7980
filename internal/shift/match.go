package shift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateHeaderRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hourLabelRE  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Shift is the resolved assignment for a matched schedule row.
type Shift struct {
	At       time.Time
	Shifters []string
}

type candidate struct {
	diff     time.Duration
	at       time.Time
	shifters []string
}

// NearestShift scans a rectangularized schedule grid and returns the row
// whose timestamp is nearest to now without being after it. A shift in
// effect must have already started, so future rows are never eligible.
// Ties on distance prefer the earlier timestamp. maxShifters bounds how
// many helper columns per date block are read.
func NearestShift(rows [][]string, now time.Time, maxShifters int) (Shift, error) {
	if len(rows) == 0 {
		return Shift{}, ErrEmptyGrid
	}
	dateCols := findDateColumns(rows[0])
	if len(dateCols) == 0 {
		return Shift{}, ErrNoDateHeaders
	}

	cands := collectCandidates(rows, dateCols, now, maxShifters)
	best := candidate{diff: -1}
	for _, c := range cands {
		if c.at.After(now) {
			continue
		}
		if best.diff < 0 || c.diff < best.diff || (c.diff == best.diff && c.at.Before(best.at)) {
			best = c
		}
	}
	if best.diff < 0 {
		return Shift{}, fmt.Errorf("%w: reference %s", ErrNoPastRow, now.Format(time.RFC3339))
	}
	return Shift{At: best.at, Shifters: best.shifters}, nil
}

func findDateColumns(header []string) []int {
	var cols []int
	for c, v := range header {
		if dateHeaderRE.MatchString(strings.TrimSpace(v)) {
			cols = append(cols, c)
		}
	}
	return cols
}

func collectCandidates(rows [][]string, dateCols []int, now time.Time, maxShifters int) []candidate {
	var cands []candidate
	ncols := len(rows[0])
	for bi, dateCol := range dateCols {
		base, ok := parseHeaderDate(strings.TrimSpace(rows[0][dateCol]), now.Location())
		if !ok {
			continue
		}

		nextDateCol := ncols
		if bi+1 < len(dateCols) {
			nextDateCol = dateCols[bi+1]
		}
		helperEnd := dateCol + 1 + maxShifters
		if helperEnd > nextDateCol {
			helperEnd = nextDateCol
		}

		limit := len(rows)
		if limit > scheduleRows {
			limit = scheduleRows
		}
		for r := 1; r < limit; r++ {
			label := strings.TrimSpace(rows[r][dateCol])
			if !hourLabelRE.MatchString(label) {
				continue
			}
			hh, _ := strconv.Atoi(label[:2])
			mm, _ := strconv.Atoi(label[3:])
			at := time.Date(base.Year(), base.Month(), base.Day(), hh, mm, 0, 0, now.Location())

			var shifters []string
			for c := dateCol + 1; c < helperEnd; c++ {
				if v := strings.TrimSpace(rows[r][c]); v != "" {
					shifters = append(shifters, v)
				}
			}
			diff := at.Sub(now)
			if diff < 0 {
				diff = -diff
			}
			cands = append(cands, candidate{diff: diff, at: at, shifters: shifters})
		}
	}
	return cands
}

func parseHeaderDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
