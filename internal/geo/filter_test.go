package geo

import (
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/cache"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable() *domain.GeoTable {
	return &domain.GeoTable{
		Source: "GeoData.csv",
		Records: []domain.GeoRecord{
			{Coord: domain.Coord{Lat: 38.5, Lon: 127.0}, Date: day(1951, time.June, 2)},
			{Coord: domain.Coord{Lat: 39.0, Lon: 125.8}, Date: day(1951, time.June, 3)},
			{Coord: domain.Coord{Lat: 37.9, Lon: 126.6}, Date: day(1951, time.June, 2)},
			{Coord: domain.Coord{Lat: 40.1, Lon: 124.4}, Date: day(1952, time.July, 11)},
		},
	}
}

func TestFilterByDate_NoDateReturnsAll(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())

	coords, err := f.FilterByDate(testTable(), nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coord{
		{Lat: 38.5, Lon: 127.0},
		{Lat: 39.0, Lon: 125.8},
		{Lat: 37.9, Lon: 126.6},
		{Lat: 40.1, Lon: 124.4},
	}, coords)
}

func TestFilterByDate_ShiftsYearBack(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())
	table := &domain.GeoTable{
		Source:  "GeoData.csv",
		Records: []domain.GeoRecord{{Coord: domain.Coord{Lat: 38.5, Lon: 127.0}, Date: day(1951, time.June, 2)}},
	}

	query := day(2051, time.June, 2)
	coords, err := f.FilterByDate(table, &query)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coord{{Lat: 38.5, Lon: 127.0}}, coords)
}

func TestFilterByDate_OnlyMatchingDay(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())
	table := testTable()

	for _, query := range []time.Time{day(2051, time.June, 2), day(2051, time.June, 3), day(2052, time.July, 11)} {
		coords, err := f.FilterByDate(table, &query)
		require.NoError(t, err)

		want := query.AddDate(-100, 0, 0)
		var expected []domain.Coord
		for _, r := range table.Records {
			if r.Date.Equal(want) {
				expected = append(expected, r.Coord)
			}
		}
		assert.Equal(t, expected, coords, "query %s", query.Format(time.DateOnly))
	}
}

func TestFilterByDate_NoMatchIsEmpty(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())

	query := day(2052, time.December, 30)
	coords, err := f.FilterByDate(testTable(), &query)
	require.NoError(t, err)
	assert.NotNil(t, coords)
	assert.Empty(t, coords)
}

func TestFilterByDate_UnshiftedDateDoesNotMatch(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())

	query := day(1951, time.June, 2)
	coords, err := f.FilterByDate(testTable(), &query)
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestFilterByDate_TimeOfDayIgnoredOnQuery(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())

	query := time.Date(2051, time.June, 2, 15, 30, 0, 0, time.UTC)
	coords, err := f.FilterByDate(testTable(), &query)
	require.NoError(t, err)
	assert.Len(t, coords, 2)
}

func TestFilterByDate_InvalidShiftedDate(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())

	query := day(2000, time.February, 29)
	_, err := f.FilterByDate(testTable(), &query)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDate))
}

func TestFilterByDate_Memoized(t *testing.T) {
	memo := cache.New[Key, []domain.Coord]()
	metrics := observability.NewMetricsForTesting()
	f := NewFilter(memo, metrics)
	table := testTable()
	query := day(2051, time.June, 2)

	first, err := f.FilterByDate(table, &query)
	require.NoError(t, err)

	// Results come from the memo even if the table changes underneath.
	table.Records = nil
	second, err := f.FilterByDate(table, &query)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = f.FilterByDate(table, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, memo.Len())
	_, ok := memo.Get(Key{Table: table, Source: "GeoData.csv", Date: "1951-06-02"})
	assert.True(t, ok)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geo_filter", "hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geo_filter", "miss")), 0)
}

func TestFilter_Invalidate(t *testing.T) {
	memo := cache.New[Key, []domain.Coord]()
	f := NewFilter(memo, observability.NewMetricsForTesting())
	query := day(2051, time.June, 2)

	_, _ = f.FilterByDate(testTable(), &query)
	_, _ = f.FilterByDate(testTable(), nil)
	other := &domain.GeoTable{Source: "Other.csv"}
	_, _ = f.FilterByDate(other, nil)

	f.Invalidate("GeoData.csv")

	assert.Equal(t, 1, memo.Len())
	_, ok := memo.Get(Key{Table: other, Source: "Other.csv"})
	assert.True(t, ok)
}

func TestFilterByDate_ReloadedTableNotServedStale(t *testing.T) {
	f := NewFilter(nil, observability.NewMetricsForTesting())
	query := day(2051, time.June, 2)

	before := &domain.GeoTable{
		Source:  "GeoData.csv",
		Records: []domain.GeoRecord{{Coord: domain.Coord{Lat: 38.5, Lon: 127.0}, Date: day(1951, time.June, 2)}},
	}
	coords, err := f.FilterByDate(before, &query)
	require.NoError(t, err)
	require.Len(t, coords, 1)
	all, err := f.FilterByDate(before, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)

	after := &domain.GeoTable{
		Source: "GeoData.csv",
		Records: []domain.GeoRecord{
			{Coord: domain.Coord{Lat: 38.5, Lon: 127.0}, Date: day(1951, time.June, 2)},
			{Coord: domain.Coord{Lat: 39.0, Lon: 125.8}, Date: day(1951, time.June, 2)},
		},
	}
	coords, err = f.FilterByDate(after, &query)
	require.NoError(t, err)
	assert.Len(t, coords, 2)
	all, err = f.FilterByDate(after, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
