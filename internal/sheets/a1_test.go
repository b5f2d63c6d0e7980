package sheets

import "testing"

func TestColLetter(t *testing.T) {
	t.Parallel()
	cases := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tc := range cases {
		if got := ColLetter(tc.col); got != tc.want {
			t.Errorf("ColLetter(%d) = %q, want %q", tc.col, got, tc.want)
		}
	}
}

func TestCellRefRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		row, col int
		want     string
	}{
		{1, 1, "A1"},
		{25, 3, "C25"},
		{10, 28, "AB10"},
	}
	for _, tc := range cases {
		ref := CellRef(tc.row, tc.col)
		if ref != tc.want {
			t.Fatalf("CellRef(%d, %d) = %q, want %q", tc.row, tc.col, ref, tc.want)
		}
		row, col, err := ParseRef(ref)
		if err != nil {
			t.Fatalf("ParseRef(%q): %v", ref, err)
		}
		if row != tc.row || col != tc.col {
			t.Errorf("ParseRef(%q) = (%d, %d), want (%d, %d)", ref, row, col, tc.row, tc.col)
		}
	}
}

func TestParseRefInvalid(t *testing.T) {
	t.Parallel()
	for _, ref := range []string{"", "A", "1", "A0", "1A", "A1B"} {
		if _, _, err := ParseRef(ref); err == nil {
			t.Errorf("ParseRef(%q): expected error", ref)
		}
	}
}

func TestRangeRef(t *testing.T) {
	t.Parallel()
	if got := RangeRef(1, 1, 25, 4); got != "A1:D25" {
		t.Errorf("RangeRef = %q, want A1:D25", got)
	}
}
