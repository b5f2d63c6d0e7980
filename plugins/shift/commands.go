package shift

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shiftbot/internal/core"
	"shiftbot/internal/grid"
	"shiftbot/internal/sheets"
	sh "shiftbot/internal/shift"
)

var timeFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
}

func parseWhen(s string, loc *time.Location) (time.Time, error) {
	for _, f := range timeFormats {
		if t, err := time.ParseInLocation(f, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q, want e.g. 2026-03-01T15:00", s)
}

func (p *Plugin) Commands() []core.Command {
	return []core.Command{
		{
			Route:       "shift",
			Aliases:     []string{"now"},
			Description: "show who is on shift right now",
			Usage:       "/shift",
			Access:      core.AccessEveryone,
			Handle:      p.handleNow,
		},
		{
			Route:       "shift table",
			Description: "create a schedule sheet for a time range",
			Usage:       "/shift table <start> <end>",
			Access:      core.AccessOwnerOnly,
			Handle:      p.handleTable,
		},
	}
}

func (p *Plugin) handleNow(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Sheets == nil {
		return reply(ctx, req, "no spreadsheet backend is configured")
	}
	cfg := p.config()

	rows, err := svc.Sheets.Grid(ctx, cfg.Sheet)
	if errors.Is(err, sheets.ErrSheetNotFound) {
		return reply(ctx, req, fmt.Sprintf("sheet %q does not exist yet; run /shift table first", cfg.Sheet))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.Sheet, err)
	}

	// Day blocks sized from the runner list carry the anchor slot
	// after the supporter columns, so read one more than the list.
	max := cfg.MaxShifters
	if n := p.runnerCount(ctx, svc, cfg.ConfigSheet); n > 0 {
		max = n + 1
	}

	now := time.Now().In(svc.Location)
	cur, err := sh.NearestShift(grid.Rectangularize(rows), now, max)
	switch {
	case errors.Is(err, sh.ErrNoPastRow):
		return reply(ctx, req, "no shift slot has started yet")
	case errors.Is(err, sh.ErrEmptyGrid), errors.Is(err, sh.ErrNoDateHeaders):
		return reply(ctx, req, fmt.Sprintf("sheet %q has no usable schedule", cfg.Sheet))
	case err != nil:
		return fmt.Errorf("match shift: %w", err)
	}

	if len(cur.Shifters) == 0 {
		return reply(ctx, req, fmt.Sprintf("%s: nobody is signed up", cur.At.Format("01/02 15:04")))
	}
	return reply(ctx, req, fmt.Sprintf("%s: %s",
		cur.At.Format("01/02 15:04"), strings.Join(cur.Shifters, ", ")))
}

func (p *Plugin) handleTable(ctx context.Context, req *core.Request) error {
	svc := req.Services
	if svc.Sheets == nil {
		return reply(ctx, req, "no spreadsheet backend is configured")
	}
	if len(req.Args) < 2 {
		return reply(ctx, req, "usage: /shift table <start> <end>")
	}
	cfg := p.config()

	start, err := parseWhen(req.Args[0], svc.Location)
	if err != nil {
		return reply(ctx, req, err.Error())
	}
	end, err := parseWhen(req.Args[1], svc.Location)
	if err != nil {
		return reply(ctx, req, err.Error())
	}
	if start.After(end) {
		return reply(ctx, req, "start must not be after end")
	}

	// One column per supporter plus the anchor slot at the end of
	// each day block.
	helperCols := cfg.MaxShifters
	if n := p.runnerCount(ctx, svc, cfg.ConfigSheet); n > 0 {
		helperCols = n + 1
	}

	err = sh.WriteSchedule(ctx, svc.Sheets, cfg.Sheet, start, end, helperCols, req.Logger)
	if errors.Is(err, sheets.ErrSheetExists) {
		return reply(ctx, req, fmt.Sprintf("sheet %q already exists; delete it first", cfg.Sheet))
	}
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	return reply(ctx, req, fmt.Sprintf("created %q covering %s to %s",
		cfg.Sheet, start.Format("01/02 15:04"), end.Format("01/02 15:04")))
}
