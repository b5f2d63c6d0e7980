package sekai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Config{
		BaseURL:       srv.URL,
		EventsURL:     srv.URL + "/events.json",
		WorldBloomURL: srv.URL + "/worldBlooms.json",
		RatePerSec:    1000,
	}, nil)
	return c, srv
}

func TestEventByName(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/events.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "name": "alpha", "startAt": 1753973400000, "aggregateAt": 1754476200000},
			{"id": 2, "name": "beta", "startAt": 1754578800000, "aggregateAt": 1755081600000}
		]`))
	})
	c, _ := testClient(t, mux)

	evt, err := c.EventByName(context.Background(), "beta")
	if err != nil {
		t.Fatalf("EventByName: %v", err)
	}
	if evt.ID != 2 {
		t.Errorf("ID = %d, want 2", evt.ID)
	}
	jst := time.FixedZone("JST", 9*3600)
	if got := evt.Start(jst).Format("2006-01-02 15:04"); got != "2025-08-08 00:00" {
		t.Errorf("Start = %q", got)
	}

	if _, err := c.EventByName(context.Background(), "missing"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("missing event: got %v, want ErrEventNotFound", err)
	}
}

func TestChapterInfo(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/worldBlooms.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"eventId": 5, "chapterNo": 1, "gameCharacterId": 10, "chapterStartAt": 1753973400000, "aggregateAt": 1754149800000},
			{"eventId": 5, "chapterNo": 2, "gameCharacterId": 11, "chapterStartAt": 1754151000000, "aggregateAt": 1754476200000}
		]`))
	})
	c, _ := testClient(t, mux)

	ch, err := c.ChapterInfo(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("ChapterInfo: %v", err)
	}
	if ch.GameCharacterID != 11 {
		t.Errorf("GameCharacterID = %d, want 11", ch.GameCharacterID)
	}
	if _, err := c.ChapterInfo(context.Background(), 5, 3); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("missing chapter: got %v, want ErrEventNotFound", err)
	}
}

func TestEventTimestamps(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/event/7/rankings/time", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("region") != "jp" {
			t.Errorf("region = %q, want jp", r.URL.Query().Get("region"))
		}
		w.Write([]byte(`{"data": ["2025-08-01T00:10:00Z", "2025-08-01T01:40:00Z"]}`))
	})
	c, _ := testClient(t, mux)

	jst := time.FixedZone("JST", 9*3600)
	got, err := c.EventTimestamps(context.Background(), 7, jst)
	if err != nil {
		t.Fatalf("EventTimestamps: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Format("15:04") != "09:10" {
		t.Errorf("first timestamp not converted to JST: %s", got[0])
	}
}

func TestRankings(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/event/7/rankings", func(w http.ResponseWriter, r *http.Request) {
		if ts := r.URL.Query().Get("timestamp"); ts != "2025-08-01T00:10:00Z" {
			t.Errorf("timestamp = %q", ts)
		}
		w.Write([]byte(`{"data": {"eventRankings": [
			{"rank": 1, "userName": "top", "score": 5000000},
			{"rank": 100, "userName": "border", "score": 100000}
		]}}`))
	})
	c, _ := testClient(t, mux)

	ts := time.Date(2025, 8, 1, 0, 10, 0, 0, time.UTC)
	got, err := c.Rankings(context.Background(), 7, ts)
	if err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	if len(got) != 2 || got[1].Score != 100000 {
		t.Errorf("rankings = %+v", got)
	}
}

func TestGetJSONErrorStatus(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/events.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	c, _ := testClient(t, mux)

	if _, err := c.Events(context.Background()); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
