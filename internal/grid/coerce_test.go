package grid

import (
	"testing"
)

func TestCoerceScalarLadder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{name: "empty", in: "", want: Empty()},
		{name: "whitespace only", in: "   ", want: Empty()},
		{name: "true", in: "TRUE", want: Bool(true)},
		{name: "false", in: "False", want: Bool(false)},
		{name: "null", in: "null", want: Null()},
		{name: "none", in: "None", want: Null()},
		{name: "int", in: "42", want: Int(42)},
		{name: "signed int", in: "-7", want: Int(-7)},
		{name: "plus int", in: "+13", want: Int(13)},
		{name: "float", in: "3.5", want: Float(3.5)},
		{name: "trailing dot", in: "2.", want: Float(2)},
		{name: "leading dot", in: ".25", want: Float(0.25)},
		{name: "exponent", in: "1e3", want: Float(1000)},
		{name: "date only", in: "2024-05-01", want: Date("2024-05-01")},
		{name: "datetime", in: "2024-05-01T09:30", want: Date("2024-05-01T09:30")},
		{name: "datetime zulu", in: "2024-05-01 09:30:15Z", want: Date("2024-05-01 09:30:15Z")},
		{name: "datetime offset", in: "2024-05-01T09:30:15.250+09:00", want: Date("2024-05-01T09:30:15.250+09:00")},
		{name: "not a date", in: "2024-5-1", want: Str("2024-5-1")},
		{name: "plain string", in: "  alice  ", want: Str("alice")},
		{name: "broken json falls through", in: "{not json}", want: Str("{not json}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceScalar(tt.in)
			if !got.Equal(tt.want) {
				t.Fatalf("CoerceScalar(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceScalarJSON(t *testing.T) {
	t.Parallel()
	got := CoerceScalar(`{"x":1}`)
	if got.Kind != KindJSON {
		t.Fatalf("Kind = %v, want json", got.Kind)
	}
	obj, ok := got.JSON.(map[string]any)
	if !ok {
		t.Fatalf("JSON = %T, want object", got.JSON)
	}
	if obj["x"] != float64(1) {
		t.Fatalf("x = %v, want 1", obj["x"])
	}

	arr := CoerceScalar(`[1,2]`)
	if arr.Kind != KindJSON {
		t.Fatalf("Kind = %v, want json", arr.Kind)
	}
}

func TestCoerceScalarIdempotentOnStrings(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"alice", "2024-05-01", "en route", "{broken"} {
		first := CoerceScalar(s)
		if first.Kind != KindString && first.Kind != KindDate {
			t.Fatalf("precondition: %q should coerce to a string kind, got %v", s, first.Kind)
		}
		second := CoerceScalar(first.Str)
		if !first.Equal(second) {
			t.Fatalf("re-coercing %q changed the value: %+v vs %+v", s, first, second)
		}
	}
}

func TestCoerceCollectionTiers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cells []string
		want  Value
	}{
		{name: "no cells", cells: nil, want: Null()},
		{name: "all blank", cells: []string{"", "  "}, want: Null()},
		{name: "single scalar", cells: []string{"5"}, want: Int(5)},
		{name: "two cells", cells: []string{"5", "6"}, want: List(Int(5), Int(6))},
		{name: "comma split", cells: []string{"a,b"}, want: List(Str("a"), Str("b"))},
		{name: "comma with one part", cells: []string{"a,"}, want: Str("a,")},
		{name: "blanks between values", cells: []string{"", "x", "", "y"}, want: List(Str("x"), Str("y"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceCollection(tt.cells)
			if !got.Equal(tt.want) {
				t.Fatalf("CoerceCollection(%v) = %+v, want %+v", tt.cells, got, tt.want)
			}
		})
	}
}

func TestCoerceCollectionBracketedCellNotSplit(t *testing.T) {
	t.Parallel()
	got := CoerceCollection([]string{`{"x":1,"y":2}`})
	if got.Kind != KindJSON {
		t.Fatalf("bracketed cell with commas must parse as JSON, got %v", got.Kind)
	}
}
