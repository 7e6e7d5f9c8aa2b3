// Package analytics implements the reading-session aggregation engine: it
// records per-view and per-session activity into one aggregate row per
// (article, student) pair and derives teacher, student, and article rollups
// from those aggregates on demand. Rollups are pure reads and are never
// persisted.
package analytics

import (
	"math"
	"time"
)

// Service derives analytics view-models from the aggregate store. All
// wall-clock reads go through the injected clock so the trailing 7-day
// engagement window can be pinned in tests.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service backed by the given store and the system clock.
func NewService(store Store) *Service {
	return NewServiceWithClock(store, time.Now)
}

// NewServiceWithClock creates a Service with an explicit clock.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// minutes converts cumulative seconds to whole minutes. Conversion happens
// exactly once, at presentation time, never on partial sums.
func minutes(seconds int64) int64 {
	return int64(math.Round(float64(seconds) / 60.0))
}

// dayKey buckets a timestamp to its calendar date.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
