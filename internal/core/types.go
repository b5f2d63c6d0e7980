package core

import (
	"bytes"
	"encoding/json"
)

type Config struct {
	Telegram  TelegramConfig             `json:"telegram"`
	Logging   LoggingConfig              `json:"logging"`
	Scheduler SchedulerConfig            `json:"scheduler"`
	Sheets    SheetsConfig               `json:"sheets"`
	Sekai     SekaiConfig                `json:"sekai"`
	Storage   StorageConfig              `json:"storage"`
	Pprof     PprofConfig                `json:"pprof"`
	Plugins   map[string]PluginConfigRaw `json:"plugins"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	GroupLog     string  `json:"group_log"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}
type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}
type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ThreadID   int    `json:"thread_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

type SchedulerConfig struct {
	Enabled bool `json:"enabled"`
	Workers int  `json:"workers"`
	// DefaultTimeout is a Go duration string (e.g. "10s", "1m").
	// Use "0s" to disable a global default timeout.
	DefaultTimeout string `json:"default_timeout"`
	HistorySize    int    `json:"history_size"`
	Timezone       string `json:"timezone,omitempty"`
}

// SheetsConfig selects the spreadsheet backend the bot works against.
type SheetsConfig struct {
	// Backend is "google", "xlsx" or "memory".
	Backend string `json:"backend"`
	// SpreadsheetID and CredentialsFile apply to the google backend.
	SpreadsheetID   string `json:"spreadsheet_id,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty"`
	// Path applies to the xlsx backend.
	Path string `json:"path,omitempty"`
	// Timezone is the IANA zone all sheet timestamps are interpreted in.
	Timezone string `json:"timezone"`
}

type SekaiConfig struct {
	Region        string `json:"region,omitempty"`
	BaseURL       string `json:"base_url,omitempty"`
	EventsURL     string `json:"events_url,omitempty"`
	WorldBloomURL string `json:"world_bloom_url,omitempty"`
	// Timeout is a Go duration string for a single API call.
	Timeout    string `json:"timeout,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

type StorageConfig struct {
	// Driver is "" (disabled), "file" or "sqlite".
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`
	// BusyTimeout is a Go duration string (sqlite only).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type PluginConfigRaw struct {
	Enabled bool `json:"enabled"`
	// Capabilities is an allowlist of service capabilities the plugin may
	// use (see capabilities.go). Empty means allow-all.
	Capabilities []string        `json:"capabilities,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
}

// UnmarshalJSON disallows unknown fields to ensure removed legacy keys
// (e.g. "timeout") are caught early during config reload.
func (p *PluginConfigRaw) UnmarshalJSON(b []byte) error {
	type tmp struct {
		Enabled      bool            `json:"enabled"`
		Capabilities []string        `json:"capabilities,omitempty"`
		Config       json.RawMessage `json:"config,omitempty"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var t tmp
	if err := dec.Decode(&t); err != nil {
		return err
	}
	*p = PluginConfigRaw{Enabled: t.Enabled, Capabilities: t.Capabilities, Config: t.Config}
	return nil
}
