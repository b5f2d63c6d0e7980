// Package sekai is a read-only client for the Project Sekai event and
// ranking APIs: the master-data JSON dumps for event and chapter
// metadata, and the sekai.best ranking endpoints for score snapshots.
package sekai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL       = "https://api.sekai.best"
	DefaultEventsURL     = "https://raw.githubusercontent.com/Sekai-World/sekai-master-db-diff/main/events.json"
	DefaultWorldBloomURL = "https://raw.githubusercontent.com/Sekai-World/sekai-master-db-diff/main/worldBlooms.json"
	DefaultRegion        = "jp"
)

// ErrEventNotFound is returned when no event matches the requested name.
var ErrEventNotFound = errors.New("sekai: event not found")

// Config tunes the API client. Zero values fall back to the public
// endpoints and a conservative request rate.
type Config struct {
	BaseURL       string
	EventsURL     string
	WorldBloomURL string
	Region        string
	Timeout       time.Duration
	RatePerSec    float64
}

func (c *Config) withDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.EventsURL == "" {
		c.EventsURL = DefaultEventsURL
	}
	if c.WorldBloomURL == "" {
		c.WorldBloomURL = DefaultWorldBloomURL
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 2
	}
}

// Client issues rate-limited requests against the configured endpoints.
// Construct once and reuse; it is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	cfg.withDefaults()
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		log:     log,
	}
}

// Events fetches the full event master list.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, c.cfg.EventsURL, nil, &events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

// EventByName finds the event whose name matches exactly.
func (c *Client) EventByName(ctx context.Context, name string) (Event, error) {
	events, err := c.Events(ctx)
	if err != nil {
		return Event{}, err
	}
	for _, e := range events {
		if e.Name == name {
			return e, nil
		}
	}
	return Event{}, fmt.Errorf("%w: %q", ErrEventNotFound, name)
}

// WorldBloomChapters fetches the chapter master list.
func (c *Client) WorldBloomChapters(ctx context.Context) ([]Chapter, error) {
	var chapters []Chapter
	if err := c.getJSON(ctx, c.cfg.WorldBloomURL, nil, &chapters); err != nil {
		return nil, fmt.Errorf("fetch world bloom chapters: %w", err)
	}
	return chapters, nil
}

// ChapterInfo finds one chapter of an event by its number.
func (c *Client) ChapterInfo(ctx context.Context, eventID, chapterNo int) (Chapter, error) {
	chapters, err := c.WorldBloomChapters(ctx)
	if err != nil {
		return Chapter{}, err
	}
	for _, ch := range chapters {
		if ch.EventID == eventID && ch.ChapterNo == chapterNo {
			return ch, nil
		}
	}
	return Chapter{}, fmt.Errorf("%w: event %d chapter %d", ErrEventNotFound, eventID, chapterNo)
}

// EventTimestamps lists the snapshot instants the ranking API holds for
// an event, converted to loc.
func (c *Client) EventTimestamps(ctx context.Context, eventID int, loc *time.Location) ([]time.Time, error) {
	u := fmt.Sprintf("%s/event/%d/rankings/time", c.cfg.BaseURL, eventID)
	var payload struct {
		Data []string `json:"data"`
	}
	q := url.Values{"region": {c.cfg.Region}}
	if err := c.getJSON(ctx, u, q, &payload); err != nil {
		return nil, fmt.Errorf("fetch event %d timestamps: %w", eventID, err)
	}
	return parseTimestamps(payload.Data, loc)
}

// ChapterTimestamps lists the snapshot instants for a chapter ranking,
// converted to loc.
func (c *Client) ChapterTimestamps(ctx context.Context, eventID, charaID int, loc *time.Location) ([]time.Time, error) {
	u := fmt.Sprintf("%s/event/%d/chapter_rankings/time", c.cfg.BaseURL, eventID)
	var payload struct {
		Data []string `json:"data"`
	}
	q := url.Values{"region": {c.cfg.Region}, "charaId": {strconv.Itoa(charaID)}}
	if err := c.getJSON(ctx, u, q, &payload); err != nil {
		return nil, fmt.Errorf("fetch event %d chapter timestamps: %w", eventID, err)
	}
	return parseTimestamps(payload.Data, loc)
}

// Rankings fetches the ranking snapshot taken at ts.
func (c *Client) Rankings(ctx context.Context, eventID int, ts time.Time) ([]Ranking, error) {
	u := fmt.Sprintf("%s/event/%d/rankings", c.cfg.BaseURL, eventID)
	q := url.Values{"region": {c.cfg.Region}, "timestamp": {formatTimestamp(ts)}}
	var payload struct {
		Data struct {
			EventRankings []Ranking `json:"eventRankings"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, u, q, &payload); err != nil {
		return nil, fmt.Errorf("fetch event %d rankings: %w", eventID, err)
	}
	return payload.Data.EventRankings, nil
}

// ChapterRankings fetches a chapter ranking snapshot taken at ts.
func (c *Client) ChapterRankings(ctx context.Context, eventID, charaID int, ts time.Time) ([]Ranking, error) {
	u := fmt.Sprintf("%s/event/%d/chapter_rankings", c.cfg.BaseURL, eventID)
	q := url.Values{
		"region":    {c.cfg.Region},
		"charaId":   {strconv.Itoa(charaID)},
		"timestamp": {formatTimestamp(ts)},
	}
	var payload struct {
		Data struct {
			EventRankings []Ranking `json:"eventRankings"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, u, q, &payload); err != nil {
		return nil, fmt.Errorf("fetch event %d chapter rankings: %w", eventID, err)
	}
	return payload.Data.EventRankings, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "url", rawURL, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseTimestamps(raw []string, loc *time.Location) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		out = append(out, t.In(loc))
	}
	return out, nil
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format("2006-01-02T15:04:05Z")
}
