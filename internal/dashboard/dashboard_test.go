package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/dashboard"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/geo"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLoader struct {
	geo    *domain.GeoTable
	ops    *domain.OpsTable
	geoErr error
	opsErr error
}

func (m *mockLoader) LoadGeo(string) (*domain.GeoTable, error) { return m.geo, m.geoErr }
func (m *mockLoader) LoadOps(string) (*domain.OpsTable, error) { return m.ops, m.opsErr }

type mockRenderer struct {
	lineTitle string
	lineRows  int
	barTitle  string
	bars      []viz.Bar
	err       error
}

func (m *mockRenderer) LinePNG(w io.Writer, title string, rows []domain.OpsRecord, _ domain.Statistic) error {
	m.lineTitle, m.lineRows = title, len(rows)
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte("line"))
	return err
}

func (m *mockRenderer) BarPNG(w io.Writer, title string, bars []viz.Bar) error {
	m.barTitle, m.bars = title, bars
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte("bar"))
	return err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLoader() *mockLoader {
	return &mockLoader{
		geo: &domain.GeoTable{Source: "GeoData.csv", LoadedAt: day(2026, time.January, 1), Records: []domain.GeoRecord{
			{Coord: domain.Coord{Lat: 38.5, Lon: 127.0}, Date: day(1951, time.June, 2)},
			{Coord: domain.Coord{Lat: 39.0, Lon: 125.8}, Date: day(1951, time.June, 3)},
		}},
		ops: &domain.OpsTable{Source: "KoreanWarOps.csv", LoadedAt: day(2026, time.January, 1), Records: []domain.OpsRecord{
			{Unit: "A", Date: day(1951, time.June, 2), AircraftType: "F-86", AircraftDispatched: 3, Bullets: 100},
			{Unit: "A", Date: day(1951, time.June, 3), AircraftType: "F-86", Bullets: 50},
			{Unit: "B", Date: day(1951, time.June, 2), AircraftType: "B-29", AircraftDispatched: 7},
		}},
	}
}

func newService(loader dashboard.TableLoader, renderer dashboard.ChartRenderer) (*dashboard.Service, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	svc := dashboard.New(
		loader,
		geo.NewFilter(nil, metrics),
		renderer,
		dashboard.Sources{Geo: "GeoData.csv", Ops: "KoreanWarOps.csv"},
		"light",
		slog.Default(),
		metrics,
	)
	return svc, metrics
}

// --- tests ---

func TestService_NotReadyBeforeLoad(t *testing.T) {
	svc, _ := newService(testLoader(), &mockRenderer{})

	assert.ErrorIs(t, svc.CheckReadiness(context.Background()), dashboard.ErrNotLoaded)
	_, err := svc.Map(nil)
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
	_, err = svc.Units()
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
	_, err = svc.BarChart(domain.AllUnits)
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
}

func TestService_Load(t *testing.T) {
	svc, metrics := newService(testLoader(), &mockRenderer{})

	require.NoError(t, svc.Load())
	assert.NoError(t, svc.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DashboardReady), 0)

	units, err := svc.Units()
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AllUnits, "A", "B"}, units)

	infos, err := svc.Datasets()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, dashboard.DatasetInfo{Dataset: "geo", Source: "GeoData.csv", Rows: 2, LoadedAt: day(2026, time.January, 1)}, infos[0])
	assert.Equal(t, "ops", infos[1].Dataset)
	assert.Equal(t, 3, infos[1].Rows)
}

func TestService_LoadErrorPropagates(t *testing.T) {
	loadErr := &domain.LoadError{Source: "GeoData.csv", Err: errors.New("missing")}
	loader := testLoader()
	loader.geoErr = loadErr
	svc, _ := newService(loader, &mockRenderer{})

	err := svc.Load()
	var le *domain.LoadError
	require.True(t, errors.As(err, &le))
	assert.Error(t, svc.CheckReadiness(context.Background()))
}

func TestService_Map(t *testing.T) {
	svc, _ := newService(testLoader(), &mockRenderer{})
	require.NoError(t, svc.Load())

	all, err := svc.Map(nil)
	require.NoError(t, err)
	assert.Len(t, all.Layers[0].Data, 2)
	assert.Equal(t, "light", all.MapStyle)

	query := day(2051, time.June, 2)
	filtered, err := svc.Map(&query)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coord{{Lat: 38.5, Lon: 127.0}}, filtered.Layers[0].Data)
}

func TestService_MapInvalidDate(t *testing.T) {
	svc, metrics := newService(testLoader(), &mockRenderer{})
	require.NoError(t, svc.Load())

	query := day(2000, time.February, 29)
	_, err := svc.Map(&query)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("map")), 0)
}

func TestService_LineChart(t *testing.T) {
	svc, _ := newService(testLoader(), &mockRenderer{})
	require.NoError(t, svc.Load())

	spec, err := svc.LineChart("A", "Bullets Used")
	require.NoError(t, err)
	assert.Len(t, spec.Data.Values, 2)
	assert.Equal(t, "BULLETS", spec.Encoding.Y.Field)

	_, err = svc.LineChart("A", "Bogus")
	var unknown *domain.UnknownStatisticError
	assert.True(t, errors.As(err, &unknown))
}

func TestService_BarChart(t *testing.T) {
	svc, _ := newService(testLoader(), &mockRenderer{})
	require.NoError(t, svc.Load())

	spec, err := svc.BarChart("A")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"Aircraft": "F-86", "Total Sorties": 3.0}}, spec.Data.Values)
}

func TestService_PNG(t *testing.T) {
	renderer := &mockRenderer{}
	svc, _ := newService(testLoader(), renderer)
	require.NoError(t, svc.Load())

	var buf bytes.Buffer
	require.NoError(t, svc.LinePNG(&buf, domain.AllUnits, "Bullets Used"))
	assert.Equal(t, "Bullets Used for All Units", renderer.lineTitle)
	assert.Equal(t, 3, renderer.lineRows)

	buf.Reset()
	require.NoError(t, svc.BarPNG(&buf, "B"))
	assert.Equal(t, "Total Sorties for B", renderer.barTitle)
	assert.Equal(t, []viz.Bar{{Aircraft: "B-29", TotalSorties: 7}}, renderer.bars)
	assert.Equal(t, "bar", buf.String())
}

func TestService_PNGRenderError(t *testing.T) {
	renderer := &mockRenderer{err: errors.New("disk full")}
	svc, metrics := newService(testLoader(), renderer)
	require.NoError(t, svc.Load())

	require.Error(t, svc.BarPNG(io.Discard, "A"))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("bar_png")), 0)

	var unknown *domain.UnknownStatisticError
	assert.True(t, errors.As(svc.LinePNG(io.Discard, "A", "Bogus"), &unknown))
}

func TestService_Statistics(t *testing.T) {
	svc, _ := newService(testLoader(), &mockRenderer{})
	assert.Equal(t, domain.StatisticNames(), svc.Statistics())
}
