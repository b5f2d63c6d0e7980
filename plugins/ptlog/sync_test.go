package ptlog

import (
	"testing"

	"shiftbot/internal/grid"
)

func TestTargetsFrom(t *testing.T) {
	cases := []struct {
		name string
		in   grid.Value
		want []string
	}{
		{
			name: "mixed list",
			in: grid.Value{Kind: grid.KindList, List: []grid.Value{
				{Kind: grid.KindInt, Int: 1},
				{Kind: grid.KindInt, Int: 100},
				{Kind: grid.KindString, Str: "alice"},
			}},
			want: []string{"1", "100", "alice"},
		},
		{
			name: "single rank",
			in:   grid.Value{Kind: grid.KindInt, Int: 50},
			want: []string{"50"},
		},
		{
			name: "ignores non-positive and empty",
			in: grid.Value{Kind: grid.KindList, List: []grid.Value{
				{Kind: grid.KindInt, Int: 0},
				{Kind: grid.KindString, Str: ""},
				{Kind: grid.KindBool, Bool: true},
			}},
			want: nil,
		},
		{
			name: "empty value",
			in:   grid.Value{Kind: grid.KindEmpty},
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := trackingLabels(targetsFrom(tc.in))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("label %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
