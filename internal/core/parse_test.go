package core

import (
	"reflect"
	"testing"
)

func TestTokenizeCommandLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "/shift table 2026-03-01 2026-03-08", want: []string{"/shift", "table", "2026-03-01", "2026-03-08"}},
		{in: `/ptlog sync "Some Event" --chapter=2`, want: []string{"/ptlog", "sync", "Some Event", "--chapter=2"}},
		{in: "   ", want: nil},
		{in: "/help", want: []string{"/help"}},
	}
	for _, tc := range cases {
		got := tokenizeCommandLine(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	pos, flags, bools := parseFlags([]string{"Some", "Event", "--chapter=2", "--force"})
	if !reflect.DeepEqual(pos, []string{"Some", "Event"}) {
		t.Fatalf("pos = %v", pos)
	}
	if flags["chapter"] != "2" {
		t.Fatalf("chapter = %q", flags["chapter"])
	}
	if !bools["force"] {
		t.Fatalf("force not set")
	}
}
