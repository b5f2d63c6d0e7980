package shift

import (
	"testing"
	"time"
)

func TestResampleHourly(t *testing.T) {
	t.Parallel()
	a := time.Date(2026, 8, 1, 0, 10, 0, 0, time.UTC)
	b := time.Date(2026, 8, 1, 1, 40, 0, 0, time.UTC)

	// Marks 00:00 and 01:00: a is nearest the first, b the second.
	got := ResampleHourly([]time.Time{b, a})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Equal(a) {
		t.Errorf("got[0] = %s, want %s", got[0], a)
	}
	if !got[1].Equal(b) {
		t.Errorf("got[1] = %s, want %s", got[1], b)
	}
}

func TestResampleHourlyTieFirstSeenWins(t *testing.T) {
	t.Parallel()
	a := time.Date(2026, 8, 1, 0, 10, 0, 0, time.UTC)
	b := time.Date(2026, 8, 1, 1, 50, 0, 0, time.UTC)

	// The 01:00 mark is exactly 50 minutes from both inputs; the earlier
	// one wins the tie, so both marks select a and the result collapses.
	got := ResampleHourly([]time.Time{b, a})
	if len(got) != 1 || !got[0].Equal(a) {
		t.Errorf("got %v, want [%s]", got, a)
	}
}

func TestResampleHourlyDedupes(t *testing.T) {
	t.Parallel()
	a := time.Date(2026, 8, 1, 0, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 1, 2, 30, 0, 0, time.UTC)

	got := ResampleHourly([]time.Time{a, b})
	// Marks 00:00, 01:00 both pick a; 02:00 picks b (30 vs 91 min).
	if len(got) != 2 || !got[0].Equal(a) || !got[1].Equal(b) {
		t.Fatalf("got %v, want [%s %s]", got, a, b)
	}
}

func TestResampleHourlyEmpty(t *testing.T) {
	t.Parallel()
	if got := ResampleHourly(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestResampleHourlySingle(t *testing.T) {
	t.Parallel()
	a := time.Date(2026, 8, 1, 5, 42, 0, 0, time.UTC)
	got := ResampleHourly([]time.Time{a})
	if len(got) != 1 || !got[0].Equal(a) {
		t.Errorf("got %v, want [%s]", got, a)
	}
}
