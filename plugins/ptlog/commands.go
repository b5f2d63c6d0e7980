package ptlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shiftbot/internal/core"
	"shiftbot/internal/sekai"
	"shiftbot/internal/sheets"
	sh "shiftbot/internal/shift"
)

func (p *Plugin) Commands() []core.Command {
	return []core.Command{
		{
			Route:       "ptlog table",
			Description: "create the point-log sheet for an event",
			Usage:       "/ptlog table <event> [--chapter=N]",
			Access:      core.AccessOwnerOnly,
			Handle:      p.handleTable,
		},
		{
			Route:       "ptlog sync",
			Aliases:     []string{"sync"},
			Description: "pull rankings and fill the point-log sheet",
			Usage:       "/ptlog sync <event> [--chapter=N]",
			Access:      core.AccessOwnerOnly,
			Handle:      p.handleSync,
		},
		{
			Route:       "ptlog history",
			Description: "show recent sync runs",
			Usage:       "/ptlog history [n]",
			Access:      core.AccessOwnerOnly,
			Handle:      p.handleHistory,
		},
	}
}

func chapterFlag(req *core.Request) (int, error) {
	s, ok := req.Flags["chapter"]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid chapter %q", s)
	}
	return n, nil
}

func (p *Plugin) handleTable(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Sekai == nil || svc.Sheets == nil {
		return send(ctx, req, "sekai and sheets backends must both be configured")
	}
	name := strings.TrimSpace(strings.Join(req.Args, " "))
	if name == "" {
		return send(ctx, req, "usage: /ptlog table <event> [--chapter=N]")
	}
	chapter, err := chapterFlag(req)
	if err != nil {
		return send(ctx, req, err.Error())
	}
	cfg := p.config()

	ev, err := svc.Sekai.EventByName(ctx, name)
	if errors.Is(err, sekai.ErrEventNotFound) {
		return send(ctx, req, fmt.Sprintf("no event named %q", name))
	}
	if err != nil {
		return fmt.Errorf("lookup event: %w", err)
	}

	start, end := ev.Start(svc.Location), ev.Aggregate(svc.Location)
	if chapter > 0 {
		ch, err := svc.Sekai.ChapterInfo(ctx, ev.ID, chapter)
		if err != nil {
			return send(ctx, req, fmt.Sprintf("chapter %d: %v", chapter, err))
		}
		start, end = ch.Start(svc.Location), ch.Aggregate(svc.Location)
	}

	targets := p.targets(ctx, svc, cfg.ConfigSheet)
	if len(targets) == 0 {
		return send(ctx, req, "no trackings configured on the config sheet")
	}

	err = sh.WritePtTable(ctx, svc.Sheets, cfg.Sheet, start, end, trackingLabels(targets))
	if errors.Is(err, sheets.ErrSheetExists) {
		return send(ctx, req, fmt.Sprintf("sheet %q already exists; delete it first", cfg.Sheet))
	}
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return send(ctx, req, fmt.Sprintf("created %q for %s (%s to %s)",
		cfg.Sheet, ev.Name, start.Format("01/02 15:04"), end.Format("01/02 15:04")))
}

func (p *Plugin) handleSync(ctx context.Context, req *core.Request) error {
	name := strings.TrimSpace(strings.Join(req.Args, " "))
	if name == "" {
		return send(ctx, req, "usage: /ptlog sync <event> [--chapter=N]")
	}
	chapter, err := chapterFlag(req)
	if err != nil {
		return send(ctx, req, err.Error())
	}

	res, err := p.syncOnce(ctx, name, chapter)
	if err != nil {
		// A partial run still wrote something worth reporting.
		return send(ctx, req, fmt.Sprintf("sync stopped after %d of %d samples: %v",
			res.wrote, res.samples, err))
	}
	return send(ctx, req, fmt.Sprintf("synced %q: %d written, %d already present of %d samples",
		res.sheet, res.wrote, res.skipped, res.samples))
}

func (p *Plugin) handleHistory(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Store == nil {
		return send(ctx, req, "no storage backend is configured")
	}
	limit := p.config().HistorySize
	if len(req.Args) > 0 {
		n, err := strconv.Atoi(req.Args[0])
		if err != nil || n < 1 {
			return send(ctx, req, fmt.Sprintf("invalid count %q", req.Args[0]))
		}
		limit = n
	}

	entries, err := svc.Store.RecentWriteLogs(ctx, limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(entries) == 0 {
		return send(ctx, req, "no sync runs recorded yet")
	}

	var b strings.Builder
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = "failed: " + e.Error
		}
		label := e.Event
		if e.Chapter > 0 {
			label = fmt.Sprintf("%s ch%d", e.Event, e.Chapter)
		}
		fmt.Fprintf(&b, "%s %s wrote %d (%s)\n",
			e.At.Format("01/02 15:04"), label, e.Wrote, status)
	}
	return send(ctx, req, strings.TrimRight(b.String(), "\n"))
}

func send(ctx context.Context, req *core.Request, text string) error {
	_, err := req.Adapter.SendText(ctx, req.Chat, text, nil)
	return err
}
