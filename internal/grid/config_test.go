package grid

import "testing"

func TestRectangularize(t *testing.T) {
	t.Parallel()
	rows := [][]string{
		{"a", "b", "c"},
		{"d"},
		{},
	}
	got := Rectangularize(rows)
	for i, r := range got {
		if len(r) != 3 {
			t.Fatalf("row %d has %d cells, want 3", i, len(r))
		}
	}
	if got[1][1] != "" || got[2][0] != "" {
		t.Fatalf("padding cells must be empty strings: %v", got)
	}
	if Rectangularize(nil) != nil {
		t.Fatal("nil input should stay nil")
	}
}

func TestExtractConfig(t *testing.T) {
	t.Parallel()
	rows := [][]string{
		{"timezone", "Asia/Tokyo"},
		{"", "ignored"},
		{"runners", "alice", "bob"},
		{"retries", "3"},
		{"retries", "5"}, // later row wins
	}
	cfg := ExtractConfig(rows)
	if len(cfg) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(cfg), cfg)
	}
	if !cfg["timezone"].Equal(Str("Asia/Tokyo")) {
		t.Fatalf("timezone = %+v", cfg["timezone"])
	}
	if !cfg["runners"].Equal(List(Str("alice"), Str("bob"))) {
		t.Fatalf("runners = %+v", cfg["runners"])
	}
	if !cfg["retries"].Equal(Int(5)) {
		t.Fatalf("retries = %+v, want the later row", cfg["retries"])
	}
}

func TestExtractConfigKeyOnlyRow(t *testing.T) {
	t.Parallel()
	cfg := ExtractConfig([][]string{{"flag"}})
	if !cfg["flag"].Equal(Null()) {
		t.Fatalf("row with no value cells must map to null, got %+v", cfg["flag"])
	}
}

func TestCountRunners(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   Value
		want int
	}{
		{name: "list", in: List(Str("a"), Str("b"), Str("c")), want: 3},
		{name: "solo string", in: Str("solo"), want: 1},
		{name: "date string", in: Date("2024-05-01"), want: 1},
		{name: "null", in: Null(), want: 0},
		{name: "int", in: Int(4), want: 0},
		{name: "missing key zero value", in: Value{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountRunners(tt.in); got != tt.want {
				t.Fatalf("CountRunners(%+v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
