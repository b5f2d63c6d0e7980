package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	h, m, err := parseHHMM("23:15")
	if err != nil {
		t.Fatalf("parseHHMM error: %v", err)
	}
	if h != 23 || m != 15 {
		t.Fatalf("unexpected result: %d:%d", h, m)
	}

	for _, bad := range []string{"24:00", "10:60", "noon", "10"} {
		if _, _, err := parseHHMM(bad); err == nil {
			t.Errorf("parseHHMM(%q): expected error", bad)
		}
	}
}

func TestAddCronUpsertAndRemove(t *testing.T) {
	t.Parallel()
	s := New(Config{Enabled: true, Workers: 1, Timezone: "UTC"}, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(ctx)

	noop := func(context.Context) error { return nil }
	if err := s.AddCron("sync", "0 * * * *", time.Second, noop); err != nil {
		t.Fatalf("AddCron: %v", err)
	}
	if err := s.AddCron("sync", "30 * * * *", time.Second, noop); err != nil {
		t.Fatalf("AddCron upsert: %v", err)
	}
	if len(s.defs) != 1 {
		t.Fatalf("defs = %d, want 1 after upsert", len(s.defs))
	}
	if s.defs[0].spec != "30 * * * *" {
		t.Errorf("spec = %q, want replaced schedule", s.defs[0].spec)
	}

	s.Remove("sync")
	if len(s.defs) != 0 {
		t.Errorf("defs = %d, want 0 after Remove", len(s.defs))
	}
	s.Remove("sync") // unknown name is a no-op
}

func TestAddCronRejectsBadSpec(t *testing.T) {
	t.Parallel()
	s := New(Config{Enabled: true, Workers: 1, Timezone: "UTC"}, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(ctx)

	if err := s.AddCron("bad", "not a spec", 0, func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()
	s := New(Config{Timezone: "UTC"}, slog.New(slog.DiscardHandler))
	if got := s.Location(); got.String() != "UTC" {
		t.Errorf("Location = %s, want UTC", got)
	}
}
