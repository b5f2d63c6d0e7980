package shift

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"shiftbot/internal/core"
	"shiftbot/internal/kit"
	"shiftbot/internal/sheets"
)

func TestParseWhen(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-03-01T15:00", want: time.Date(2026, 3, 1, 15, 0, 0, 0, loc)},
		{in: "2026-03-01 15:00", want: time.Date(2026, 3, 1, 15, 0, 0, 0, loc)},
		{in: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, loc)},
		{in: "03/01 15:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseWhen(tc.in, loc)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseWhen(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseWhen(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseWhen(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

type captureAdapter struct {
	texts []string
}

func (a *captureAdapter) Start(ctx context.Context, out chan<- kit.Update) error { return nil }
func (a *captureAdapter) Stop(ctx context.Context) error                         { return nil }

func (a *captureAdapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	a.texts = append(a.texts, text)
	return kit.MessageRef{}, nil
}

func (a *captureAdapter) UpdateMenuCommands(ctx context.Context, cmds []kit.BotCommand) error {
	return nil
}

func TestHandleNowReadsAnchorColumn(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemory()
	store.Seed("Config", [][]string{{"runners", "alice, bob"}})

	// Day block sized for two runners: two supporter columns plus the
	// anchor column at the end.
	rows := [][]string{{"2020-01-01", "支援者1", "支援者2", "アンコ"}}
	for h := 0; h < 24; h++ {
		rows = append(rows, make([]string, 4))
	}
	rows[10] = []string{"09:00", "alice", "bob", "carol"}
	store.Seed("Shift", rows)

	p := New()
	p.log = slog.New(slog.DiscardHandler)
	if err := p.OnConfigChange(ctx, nil); err != nil {
		t.Fatalf("OnConfigChange: %v", err)
	}

	ad := &captureAdapter{}
	req := &core.Request{
		Adapter:  ad,
		Services: &core.Services{Sheets: store, Location: time.UTC},
	}
	if err := p.handleNow(ctx, req); err != nil {
		t.Fatalf("handleNow: %v", err)
	}
	if len(ad.texts) != 1 {
		t.Fatalf("replies = %d, want 1", len(ad.texts))
	}
	want := "01/01 09:00: alice, bob, carol"
	if ad.texts[0] != want {
		t.Errorf("reply = %q, want %q", ad.texts[0], want)
	}
}
