package sekai

import (
	"strconv"
	"time"
)

// Event is one entry of the upstream events master data. Instants arrive
// as epoch milliseconds.
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	EventType   string `json:"eventType"`
	StartAt     int64  `json:"startAt"`
	AggregateAt int64  `json:"aggregateAt"`
}

// Start reports the event start converted to loc.
func (e Event) Start(loc *time.Location) time.Time {
	return fromMillis(e.StartAt, loc)
}

// Aggregate reports the ranking cutoff converted to loc.
func (e Event) Aggregate(loc *time.Location) time.Time {
	return fromMillis(e.AggregateAt, loc)
}

// Chapter is one world-bloom chapter of a chaptered event.
type Chapter struct {
	EventID         int   `json:"eventId"`
	ChapterNo       int   `json:"chapterNo"`
	GameCharacterID int   `json:"gameCharacterId"`
	ChapterStartAt  int64 `json:"chapterStartAt"`
	AggregateAt     int64 `json:"aggregateAt"`
}

// Start reports the chapter start converted to loc.
func (c Chapter) Start(loc *time.Location) time.Time {
	return fromMillis(c.ChapterStartAt, loc)
}

// Aggregate reports the chapter ranking cutoff converted to loc.
func (c Chapter) Aggregate(loc *time.Location) time.Time {
	return fromMillis(c.AggregateAt, loc)
}

// Ranking is one row of an event ranking snapshot.
type Ranking struct {
	Rank     int    `json:"rank"`
	UserName string `json:"userName"`
	Score    int64  `json:"score"`
}

// Target selects one tracked ranking entry, either by rank or by exact
// user name. Rank takes effect when positive, otherwise UserName is used.
type Target struct {
	Rank     int
	UserName string
}

// Label is the stable identifier used for sheet column headers.
func (t Target) Label() string {
	if t.Rank > 0 {
		return strconv.Itoa(t.Rank)
	}
	return t.UserName
}

func fromMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}
