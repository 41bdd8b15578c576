package paging

import (
	"net/http/httptest"
	"testing"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/api/communities", DefaultPageSize},
		{"/api/communities?limit=10", 10},
		{"/api/communities?limit=0", DefaultPageSize},
		{"/api/communities?limit=-5", DefaultPageSize},
		{"/api/communities?limit=junk", DefaultPageSize},
		{"/api/communities?limit=9999", MaxPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParseLimit(r); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestConfigure_Directions(t *testing.T) {
	cfg := Configure("", "", 1, 25)
	if cfg.Direction != Forward || cfg.SortOrder != 1 || cfg.Cursor != nil {
		t.Errorf("first page config = %+v", cfg)
	}

	cfg = Configure("bogus-cursor", "", -1, 25)
	if cfg.Direction != Backward || cfg.SortOrder != 1 {
		t.Errorf("backward config = %+v", cfg)
	}
	if cfg.Cursor != nil {
		t.Error("undecodable cursor should be dropped")
	}
}

func TestTrim_Forward(t *testing.T) {
	cfg := KeysetConfig{Direction: Forward, Limit: 3}

	rows := []int{1, 2, 3, 4} // look-ahead row present
	res := Trim(&rows, cfg)
	if len(rows) != 3 || !res.HasNext || res.HasPrev {
		t.Errorf("rows=%v res=%+v", rows, res)
	}

	rows = []int{1, 2} // short page
	res = Trim(&rows, cfg)
	if len(rows) != 2 || res.HasNext {
		t.Errorf("rows=%v res=%+v", rows, res)
	}
}

func TestTrim_Backward(t *testing.T) {
	cfg := KeysetConfig{Direction: Backward, Limit: 3}

	rows := []int{0, 1, 2, 3}
	res := Trim(&rows, cfg)
	if len(rows) != 3 || rows[0] != 1 {
		t.Errorf("backward trim should drop the oldest row, got %v", rows)
	}
	if !res.HasPrev || !res.HasNext {
		t.Errorf("res = %+v", res)
	}
}

func TestReverse(t *testing.T) {
	rows := []string{"a", "b", "c"}
	Reverse(rows)
	if rows[0] != "c" || rows[2] != "a" {
		t.Errorf("Reverse = %v", rows)
	}
}

func TestTimeWindow(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	id := primitive.NewObjectID()

	cfg := KeysetConfig{
		SortOrder: -1,
		Cursor:    &wafflemongo.Cursor{CI: TimeKey(at), ID: id},
	}
	window := cfg.TimeWindow("last_activity_at")
	if window == nil {
		t.Fatal("expected a window for a valid time cursor")
	}
	or, ok := window["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or with 2 branches, got %v", window)
	}
	lt, ok := or[0]["last_activity_at"].(bson.M)
	if !ok {
		t.Fatalf("first branch missing sort field: %v", or[0])
	}
	if got := lt["$lt"].(time.Time); !got.Equal(at) {
		t.Errorf("descending window: got %v, want $lt %v", got, at)
	}
	tie, ok := or[1]["last_activity_at"].(time.Time)
	if !ok || !tie.Equal(at) {
		t.Errorf("tiebreak branch: got %v", or[1])
	}

	cfg.Cursor = &wafflemongo.Cursor{CI: "not a timestamp", ID: id}
	if cfg.TimeWindow("last_activity_at") != nil {
		t.Error("expected nil window for an unparseable cursor key")
	}

	cfg.Cursor = nil
	if cfg.TimeWindow("last_activity_at") != nil {
		t.Error("expected nil window without a cursor")
	}
}

func TestTimeKey_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	parsed, err := time.Parse(time.RFC3339Nano, TimeKey(at))
	if err != nil {
		t.Fatalf("TimeKey output does not parse: %v", err)
	}
	if !parsed.Equal(at) {
		t.Errorf("round trip: got %v, want %v", parsed, at)
	}
}
