package ptlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"shiftbot/internal/core"
	"shiftbot/internal/grid"
	"shiftbot/internal/sekai"
	sh "shiftbot/internal/shift"
	"shiftbot/internal/storage"
)

// dedupTTL keeps sample keys around well past any event's lifetime.
const dedupTTL = 45 * 24 * time.Hour

type syncResult struct {
	sheet   string
	samples int
	wrote   int
	skipped int
	lastAt  time.Time
}

func dedupKey(sheet string, at time.Time) string {
	return fmt.Sprintf("ptlog|%s|%d", sheet, at.Unix())
}

// targets reads the tracked ranks and user names from the config
// sheet. A nil result means nothing is configured.
func (p *Plugin) targets(ctx context.Context, svc *core.Services, sheet string) []sekai.Target {
	rows, err := svc.Sheets.Grid(ctx, sheet)
	if err != nil {
		p.Log.Debug("config sheet unavailable", slog.String("sheet", sheet), slog.Any("error", err))
		return nil
	}
	values := grid.ExtractConfig(grid.Rectangularize(rows))
	return targetsFrom(values["trackings"])
}

func targetsFrom(v grid.Value) []sekai.Target {
	var out []sekai.Target
	add := func(e grid.Value) {
		switch e.Kind {
		case grid.KindInt:
			if e.Int > 0 {
				out = append(out, sekai.Target{Rank: int(e.Int)})
			}
		case grid.KindString:
			if e.Str != "" {
				out = append(out, sekai.Target{UserName: e.Str})
			}
		}
	}
	if v.Kind == grid.KindList {
		for _, e := range v.List {
			add(e)
		}
		return out
	}
	add(v)
	return out
}

func trackingLabels(targets []sekai.Target) []string {
	labels := make([]string, 0, len(targets))
	for _, t := range targets {
		labels = append(labels, t.Label())
	}
	return labels
}

// syncOnce pulls every published ranking snapshot for the event,
// collapses them to one sample per hour and writes the scores of the
// tracked targets into the point-log sheet. Samples already written in
// a previous run are skipped via the dedup store.
func (p *Plugin) syncOnce(ctx context.Context, eventName string, chapter int) (syncResult, error) {
	svc := p.Deps.Services
	cfg := p.config()
	res := syncResult{sheet: cfg.Sheet}

	if svc.Sekai == nil {
		return res, errors.New("event data source is not configured")
	}
	if svc.Sheets == nil {
		return res, errors.New("no spreadsheet backend is configured")
	}

	ev, err := svc.Sekai.EventByName(ctx, eventName)
	if err != nil {
		return res, err
	}

	var (
		raw     []time.Time
		charaID int
	)
	if chapter > 0 {
		ch, err := svc.Sekai.ChapterInfo(ctx, ev.ID, chapter)
		if err != nil {
			return res, fmt.Errorf("chapter %d: %w", chapter, err)
		}
		charaID = ch.GameCharacterID
		raw, err = svc.Sekai.ChapterTimestamps(ctx, ev.ID, charaID, svc.Location)
		if err != nil {
			return res, err
		}
	} else {
		raw, err = svc.Sekai.EventTimestamps(ctx, ev.ID, svc.Location)
		if err != nil {
			return res, err
		}
	}

	samples := sh.ResampleHourly(raw)
	res.samples = len(samples)
	if len(samples) == 0 {
		return res, nil
	}

	targets := p.targets(ctx, svc, cfg.ConfigSheet)
	if len(targets) == 0 {
		return res, errors.New("no trackings configured on the config sheet")
	}

	started := time.Now()
	var runErr error
	for _, at := range samples {
		key := dedupKey(cfg.Sheet, at)
		if svc.Store != nil {
			if _, ok, err := svc.Store.GetDedup(ctx, key); err == nil && ok {
				res.skipped++
				continue
			}
		}

		var ranks []sekai.Ranking
		if chapter > 0 {
			ranks, err = svc.Sekai.ChapterRankings(ctx, ev.ID, charaID, at)
		} else {
			ranks, err = svc.Sekai.Rankings(ctx, ev.ID, at)
		}
		if err != nil {
			runErr = fmt.Errorf("rankings at %s: %w", at.Format("01/02 15:04"), err)
			break
		}

		scores := sekai.ExtractScores(ranks, targets)
		values := make(map[string]string, len(scores))
		for label, score := range scores {
			values[label] = strconv.FormatInt(score, 10)
		}
		if err := sh.WriteValues(ctx, svc.Sheets, cfg.Sheet, at, values); err != nil {
			runErr = fmt.Errorf("write %s: %w", at.Format("01/02 15:04"), err)
			break
		}
		res.wrote++
		res.lastAt = at

		if svc.Store != nil {
			if err := svc.Store.PutDedup(ctx, key, at.Add(dedupTTL)); err != nil {
				p.Log.Warn("dedup record failed", slog.Any("error", err))
			}
		}
	}

	if svc.Store != nil {
		entry := storage.WriteLogEntry{
			At:       time.Now(),
			Event:    ev.Name,
			Chapter:  chapter,
			Sheet:    cfg.Sheet,
			SampleAt: res.lastAt,
			Wrote:    res.wrote,
			OK:       runErr == nil,
			TookMS:   time.Since(started).Milliseconds(),
		}
		if runErr != nil {
			entry.Error = runErr.Error()
		}
		if err := svc.Store.AppendWriteLog(ctx, entry); err != nil {
			p.Log.Warn("write log append failed", slog.Any("error", err))
		}
	}
	return res, runErr
}
