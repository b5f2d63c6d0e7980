package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl + snapshot)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// WriteLogEntry records one point-log write-back.
// Keep it compact and schema-stable.
type WriteLogEntry struct {
	At       time.Time
	Event    string
	Chapter  int
	Sheet    string
	SampleAt time.Time
	Wrote    int
	OK       bool
	Error    string
	TookMS   int64
}
