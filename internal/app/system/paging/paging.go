// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize is the number of rows returned by paged list endpoints
// when the caller does not ask for a specific limit.
const DefaultPageSize = 25

// MaxPageSize caps caller-supplied limits.
const MaxPageSize = 100

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxPageSize], defaulting to DefaultPageSize.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // sort ascending relative to the base order, "gt" cursor window
	Backward                  // sort flipped, "lt" cursor window
)

// KeysetConfig holds the result of configuring keyset pagination.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 ascending, -1 descending
	Limit     int
	Cursor    *wafflemongo.Cursor
}

// Configure determines pagination direction from the before/after cursor
// pair and decodes whichever cursor applies. baseOrder is the natural
// sort direction of the list (1 or -1); paging backward flips it.
func Configure(before, after string, baseOrder, limit int) KeysetConfig {
	cfg := KeysetConfig{
		Direction: Forward,
		SortOrder: baseOrder,
		Limit:     limit,
	}

	if before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -baseOrder
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind configures FindOptions with sort and a look-ahead limit
// (one extra row to detect whether another page exists).
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(int64(cfg.Limit + 1))
}

// Window returns the cursor condition for the query filter, or nil when
// no cursor is set.
func (cfg KeysetConfig) Window(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.SortOrder < 0 {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// TimeWindow is Window for lists sorted on a BSON date field. The
// cursor's CI component must be RFC 3339 with nanoseconds, as produced
// by TimeKey. Returns nil when no cursor is set or it does not parse.
func (cfg KeysetConfig) TimeWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, cfg.Cursor.CI)
	if err != nil {
		return nil
	}
	op := "$gt"
	if cfg.SortOrder < 0 {
		op = "$lt"
	}
	return bson.M{"$or": []bson.M{
		{sortField: bson.M{op: t}},
		{sortField: t, "_id": bson.M{op: cfg.Cursor.ID}},
	}}
}

// TimeKey formats a timestamp for use as a cursor sort key.
func TimeKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Result holds the output of Trim.
type Result struct {
	HasPrev bool
	HasNext bool
}

// Trim trims a fetched slice after a look-ahead fetch of Limit+1 rows.
// It modifies the slice in place and returns pagination indicators.
//
// When paging backward the extra row is the oldest one (the query ran in
// flipped order), so it is dropped from the front after Reverse; callers
// should Reverse first, then Trim.
func Trim[T any](rows *[]T, cfg KeysetConfig) Result {
	var res Result
	if cfg.Direction == Backward {
		if len(*rows) > cfg.Limit {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if len(*rows) > cfg.Limit {
			*rows = (*rows)[:cfg.Limit]
			res.HasNext = true
		}
		res.HasPrev = cfg.Cursor != nil
	}
	return res
}

// Reverse reverses a slice in place. Use after fetching when paging
// backward to restore display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last
// elements. keyFn extracts the sort key, idFn the ObjectID.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}
