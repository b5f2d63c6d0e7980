package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "shiftbot/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Driver: "file", Path: filepath.Join(t.TempDir(), "bot.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestFileWriteLogRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := WriteLogEntry{
			At:       base.Add(time.Duration(i) * time.Hour),
			Event:    "summer-fes",
			Sheet:    "PtLogs",
			SampleAt: base.Add(time.Duration(i) * time.Hour),
			Wrote:    2,
			OK:       true,
		}
		if err := st.AppendWriteLog(ctx, e); err != nil {
			t.Fatalf("AppendWriteLog: %v", err)
		}
	}

	got, err := st.RecentWriteLogs(ctx, 3)
	if err != nil {
		t.Fatalf("RecentWriteLogs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Oldest of the kept tail first.
	if !got[0].SampleAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("got[0].SampleAt = %s", got[0].SampleAt)
	}
	if got[2].Event != "summer-fes" || !got[2].OK {
		t.Errorf("got[2] = %+v", got[2])
	}
}

func TestFileRecentWriteLogsEmpty(t *testing.T) {
	st := openTestStore(t)
	got, err := st.RecentWriteLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentWriteLogs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFileDedup(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	until := time.Now().Add(time.Hour)
	if err := st.PutDedup(ctx, "PtLogs|2026-08-01T12:00:00Z", until); err != nil {
		t.Fatalf("PutDedup: %v", err)
	}
	got, ok, err := st.GetDedup(ctx, "PtLogs|2026-08-01T12:00:00Z")
	if err != nil || !ok {
		t.Fatalf("GetDedup: ok=%v err=%v", ok, err)
	}
	if got.UnixMilli() != until.UnixMilli() {
		t.Errorf("until = %s, want %s", got, until)
	}
	if _, ok, _ := st.GetDedup(ctx, "other"); ok {
		t.Error("unexpected hit for unknown key")
	}
}

func TestOpenDisabled(t *testing.T) {
	st, err := Open(Config{Driver: ""}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st != nil {
		t.Error("disabled storage should return nil store")
	}
}
