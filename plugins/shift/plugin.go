// Package shift answers "who is on duty right now" from the shift
// sheet and lays out fresh schedule grids for upcoming events.
package shift

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"shiftbot/internal/core"
	"shiftbot/internal/grid"
)

type Config struct {
	// Sheet is the schedule sheet name.
	Sheet string `json:"sheet"`
	// ConfigSheet holds key/value settings, including the runner list
	// that decides how many shifter columns each day carries.
	ConfigSheet string `json:"config_sheet"`
	// MaxShifters caps how many names are read per slot when the
	// runner list is absent.
	MaxShifters int `json:"max_shifters"`
}

func (c *Config) withDefaults() {
	if c.Sheet == "" {
		c.Sheet = "Shift"
	}
	if c.ConfigSheet == "" {
		c.ConfigSheet = "Config"
	}
	if c.MaxShifters <= 0 {
		c.MaxShifters = 10
	}
}

type Plugin struct {
	mu   sync.RWMutex
	cfg  Config
	log  *slog.Logger
	deps core.PluginDeps
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "shift" }

func (p *Plugin) Init(ctx context.Context, deps core.PluginDeps) error {
	p.deps = deps
	p.log = deps.Logger.With(slog.String("plugin", p.Name()))
	return nil
}

func (p *Plugin) OnConfigChange(ctx context.Context, raw json.RawMessage) error {
	var c Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("shift config: %w", err)
		}
	}
	c.withDefaults()
	p.mu.Lock()
	p.cfg = c
	p.mu.Unlock()
	return nil
}

func (p *Plugin) Start(ctx context.Context) error { return nil }
func (p *Plugin) Stop(ctx context.Context) error  { return nil }

func (p *Plugin) config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// runnerCount reads the runner list from the config sheet. Zero means
// the sheet or the key is missing and the caller should fall back.
func (p *Plugin) runnerCount(ctx context.Context, svc *core.Services, sheet string) int {
	rows, err := svc.Sheets.Grid(ctx, sheet)
	if err != nil {
		p.log.Debug("config sheet unavailable", slog.String("sheet", sheet), slog.Any("error", err))
		return 0
	}
	values := grid.ExtractConfig(grid.Rectangularize(rows))
	return grid.CountRunners(values["runners"])
}

func reply(ctx context.Context, req *core.Request, text string) error {
	_, err := req.Adapter.SendText(ctx, req.Chat, text, nil)
	return err
}
