// Package ptlog records event ranking snapshots into a point-log sheet
// and keeps it synced on a schedule.
package ptlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shiftbot/internal/core"
)

const autoJob = "auto"

type AutoConfig struct {
	Enabled bool `json:"enabled"`
	// Schedule is a cron spec evaluated in the scheduler timezone.
	Schedule string `json:"schedule"`
	// Event names the event to sync; empty disables the job even when
	// Enabled is set.
	Event   string `json:"event"`
	Chapter int    `json:"chapter"`
	Timeout string `json:"timeout"`
}

type Config struct {
	Sheet       string     `json:"sheet"`
	ConfigSheet string     `json:"config_sheet"`
	HistorySize int        `json:"history_size"`
	Auto        AutoConfig `json:"auto"`
}

func (c *Config) withDefaults() {
	if c.Sheet == "" {
		c.Sheet = "PtLogs"
	}
	if c.ConfigSheet == "" {
		c.ConfigSheet = "Config"
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 10
	}
	if c.Auto.Schedule == "" {
		c.Auto.Schedule = "5 * * * *"
	}
	if c.Auto.Timeout == "" {
		c.Auto.Timeout = "2m"
	}
}

type Plugin struct {
	core.PluginBase

	mu      sync.RWMutex
	cfg     Config
	started bool
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "ptlog" }

func (p *Plugin) Init(ctx context.Context, deps core.PluginDeps) error {
	p.InitBase(deps, p.Name())
	return nil
}

func (p *Plugin) ValidateConfig(ctx context.Context, raw json.RawMessage) error {
	var c Config
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("ptlog config: %w", err)
	}
	c.withDefaults()
	if _, err := time.ParseDuration(c.Auto.Timeout); err != nil {
		return fmt.Errorf("ptlog auto.timeout: %w", err)
	}
	return nil
}

func (p *Plugin) OnConfigChange(ctx context.Context, raw json.RawMessage) error {
	var c Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("ptlog config: %w", err)
		}
	}
	c.withDefaults()

	p.mu.Lock()
	p.cfg = c
	started := p.started
	p.mu.Unlock()

	if started {
		p.applyAuto()
	}
	return nil
}

func (p *Plugin) Start(ctx context.Context) error {
	p.StartBase(ctx)
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	p.applyAuto()
	return nil
}

func (p *Plugin) Stop(ctx context.Context) error {
	p.Unschedule(autoJob)
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
	return p.StopBase(ctx)
}

func (p *Plugin) config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// applyAuto reconciles the auto-sync cron job with the current config.
func (p *Plugin) applyAuto() {
	cfg := p.config()
	p.Unschedule(autoJob)
	if !cfg.Auto.Enabled || cfg.Auto.Event == "" {
		return
	}
	timeout, err := time.ParseDuration(cfg.Auto.Timeout)
	if err != nil {
		timeout = 2 * time.Minute
	}
	err = p.Cron(autoJob, cfg.Auto.Schedule, timeout, func(ctx context.Context) error {
		res, err := p.syncOnce(ctx, cfg.Auto.Event, cfg.Auto.Chapter)
		if err != nil {
			return err
		}
		p.Log.Info("auto sync done",
			slog.String("event", cfg.Auto.Event),
			slog.Int("wrote", res.wrote),
			slog.Int("skipped", res.skipped))
		return nil
	})
	if err != nil {
		p.Log.Warn("auto sync not scheduled", slog.Any("error", err))
	}
}
