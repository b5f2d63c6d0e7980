// Package events exposes the sekai.best event catalog over chat
// commands.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shiftbot/internal/core"
	"shiftbot/internal/sekai"
)

type Config struct {
	// ListLimit bounds how many events /events list prints, newest
	// first. Zero means the default.
	ListLimit int `json:"list_limit"`
}

type Plugin struct {
	log *slog.Logger
	cfg Config
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "events" }

func (p *Plugin) Init(ctx context.Context, deps core.PluginDeps) error {
	p.log = deps.Logger.With(slog.String("plugin", p.Name()))
	return nil
}

func (p *Plugin) OnConfigChange(ctx context.Context, raw json.RawMessage) error {
	var c Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("events config: %w", err)
		}
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 10
	}
	p.cfg = c
	return nil
}

func (p *Plugin) Start(ctx context.Context) error { return nil }
func (p *Plugin) Stop(ctx context.Context) error  { return nil }

func (p *Plugin) Commands() []core.Command {
	return []core.Command{
		{
			Route:       "events",
			Aliases:     []string{"ev"},
			Description: "list recent events",
			Usage:       "/events",
			Access:      core.AccessEveryone,
			Handle:      p.handleList,
		},
		{
			Route:       "events info",
			Description: "show one event's schedule",
			Usage:       "/events info <name>",
			Access:      core.AccessEveryone,
			Handle:      p.handleInfo,
		},
	}
}

func (p *Plugin) handleList(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Sekai == nil {
		return send(ctx, req, "event data source is not configured")
	}
	evs, err := svc.Sekai.Events(ctx)
	if err != nil {
		p.log.Warn("event list fetch failed", slog.Any("error", err))
		return send(ctx, req, "could not fetch the event list, try again later")
	}
	if len(evs) == 0 {
		return send(ctx, req, "no events found")
	}

	limit := p.cfg.ListLimit
	if limit > len(evs) {
		limit = len(evs)
	}
	var b strings.Builder
	// Newest events sit at the tail of the catalog.
	for i := len(evs) - 1; i >= len(evs)-limit; i-- {
		e := evs[i]
		fmt.Fprintf(&b, "%s (%s) %s\n", e.Name, e.EventType,
			e.Start(svc.Location).Format("2006-01-02"))
	}
	return send(ctx, req, strings.TrimRight(b.String(), "\n"))
}

func (p *Plugin) handleInfo(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Sekai == nil {
		return send(ctx, req, "event data source is not configured")
	}
	name := strings.TrimSpace(strings.Join(req.Args, " "))
	if name == "" {
		return send(ctx, req, "usage: /events info <name>")
	}

	ev, err := svc.Sekai.EventByName(ctx, name)
	if errors.Is(err, sekai.ErrEventNotFound) {
		return send(ctx, req, fmt.Sprintf("no event named %q", name))
	}
	if err != nil {
		return fmt.Errorf("lookup event: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", ev.Name, ev.EventType)
	fmt.Fprintf(&b, "start: %s\n", ev.Start(svc.Location).Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "aggregate: %s", ev.Aggregate(svc.Location).Format("2006-01-02 15:04"))

	if ev.EventType == "world_bloom" {
		chapters, err := svc.Sekai.WorldBloomChapters(ctx)
		if err != nil {
			p.log.Warn("chapter fetch failed", slog.Any("error", err))
		} else {
			for _, ch := range chapters {
				if ch.EventID != ev.ID {
					continue
				}
				fmt.Fprintf(&b, "\nchapter %d: %s to %s", ch.ChapterNo,
					ch.Start(svc.Location).Format("01/02 15:04"),
					ch.Aggregate(svc.Location).Format("01/02 15:04"))
			}
		}
	}
	return send(ctx, req, b.String())
}

func send(ctx context.Context, req *core.Request, text string) error {
	_, err := req.Adapter.SendText(ctx, req.Chat, text, nil)
	return err
}
