package sekai

import "testing"

func TestExtractScores(t *testing.T) {
	t.Parallel()
	rankings := []Ranking{
		{Rank: 1, UserName: "top", Score: 5000000},
		{Rank: 50, UserName: "mid", Score: 800000},
		{Rank: 100, UserName: "border", Score: 100000},
	}
	targets := []Target{
		{Rank: 100},
		{UserName: "mid"},
		{Rank: 7},
		{UserName: "ghost"},
	}

	got := ExtractScores(rankings, targets)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got["100"] != 100000 {
		t.Errorf("rank target score = %d, want 100000", got["100"])
	}
	if got["mid"] != 800000 {
		t.Errorf("name target score = %d, want 800000", got["mid"])
	}
}

func TestTargetLabel(t *testing.T) {
	t.Parallel()
	if got := (Target{Rank: 100}).Label(); got != "100" {
		t.Errorf("rank label = %q", got)
	}
	if got := (Target{UserName: "runnerA"}).Label(); got != "runnerA" {
		t.Errorf("name label = %q", got)
	}
}
