// Package geo selects bombing coordinates from the geographic table by date.
package geo

import (
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/cache"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
)

// Key identifies one filter result: the table instance, its source, and the
// query date in ISO form ("" when no date filter is applied). A reloaded table
// is a new instance, so results computed from an earlier load never match it.
type Key struct {
	Table  *domain.GeoTable
	Source string
	Date   string
}

// Memo is the result cache a Filter writes to.
type Memo = cache.Memo[Key, []domain.Coord]

// Filter projects geographic records to coordinates, optionally restricted to
// one day. Results are memoized per Key and shared between callers, so the
// returned slices must be treated as read-only.
type Filter struct {
	memo    *Memo
	metrics *observability.Metrics
}

// NewFilter creates a Filter backed by memo. A nil memo gets a fresh one.
func NewFilter(memo *Memo, metrics *observability.Metrics) *Filter {
	if memo == nil {
		memo = cache.New[Key, []domain.Coord]()
	}
	return &Filter{memo: memo, metrics: metrics}
}

// FilterByDate returns every coordinate in table when date is nil, in table order.
// Otherwise date is a date picker value: it is shifted back 100 years and only
// records on exactly that day are returned. No match yields an empty slice.
func (f *Filter) FilterByDate(table *domain.GeoTable, date *time.Time) ([]domain.Coord, error) {
	if date == nil {
		return f.lookup(Key{Table: table, Source: table.Source}, func() ([]domain.Coord, error) {
			return project(table.Records, func(domain.GeoRecord) bool { return true }), nil
		})
	}

	target, err := domain.ShiftQueryDate(*date)
	if err != nil {
		return nil, err
	}
	return f.lookup(Key{Table: table, Source: table.Source, Date: target.Format(time.DateOnly)}, func() ([]domain.Coord, error) {
		return project(table.Records, func(r domain.GeoRecord) bool { return r.Date.Equal(target) }), nil
	})
}

// Invalidate drops every memoized result for source, across all loads of it.
func (f *Filter) Invalidate(source string) {
	f.memo.InvalidateFunc(func(k Key) bool { return k.Source == source })
}

func (f *Filter) lookup(key Key, compute func() ([]domain.Coord, error)) ([]domain.Coord, error) {
	coords, hit, err := f.memo.GetOrCompute(key, compute)
	if err != nil {
		return nil, err
	}
	f.metrics.CacheLookups.WithLabelValues("geo_filter", observability.CacheResult(hit)).Inc()
	return coords, nil
}

func project(records []domain.GeoRecord, keep func(domain.GeoRecord) bool) []domain.Coord {
	coords := make([]domain.Coord, 0)
	for _, r := range records {
		if keep(r) {
			coords = append(coords, r.Coord)
		}
	}
	return coords
}
