// Package dashboard wires loaded tables, the geo filter, and the chart builders
// into the operations the presentation shell calls on each interaction.
package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
)

// TableLoader reads the two datasets by source identifier.
type TableLoader interface {
	LoadGeo(source string) (*domain.GeoTable, error)
	LoadOps(source string) (*domain.OpsTable, error)
}

// GeoFilter selects coordinates from a geographic table by picker date.
type GeoFilter interface {
	FilterByDate(table *domain.GeoTable, date *time.Time) ([]domain.Coord, error)
}

// ChartRenderer draws PNG charts.
type ChartRenderer interface {
	LinePNG(w io.Writer, title string, rows []domain.OpsRecord, stat domain.Statistic) error
	BarPNG(w io.Writer, title string, bars []viz.Bar) error
}

// Sources names the two datasets to load.
type Sources struct {
	Geo string
	Ops string
}

// DatasetInfo describes one loaded table.
type DatasetInfo struct {
	Dataset  string    `json:"dataset"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Service answers the dashboard's map and chart requests.
type Service struct {
	loader   TableLoader
	filter   GeoFilter
	renderer ChartRenderer
	sources  Sources
	mapStyle string
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu    sync.RWMutex
	geo   *domain.GeoTable
	ops   *domain.OpsTable
	units []string
	ready atomic.Bool
}

// New creates a Service. Call Load before serving requests.
func New(loader TableLoader, filter GeoFilter, renderer ChartRenderer, sources Sources, mapStyle string, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:   loader,
		filter:   filter,
		renderer: renderer,
		sources:  sources,
		mapStyle: mapStyle,
		logger:   logger,
		metrics:  metrics,
	}
}

// ErrNotLoaded is returned by queries made before Load succeeds.
var ErrNotLoaded = errors.New("datasets not loaded")

// Load reads both datasets. A failure leaves the service not ready and returns
// the *domain.LoadError; the dashboard cannot render without its data.
func (s *Service) Load() error {
	geo, err := s.loader.LoadGeo(s.sources.Geo)
	if err != nil {
		return err
	}
	ops, err := s.loader.LoadOps(s.sources.Ops)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.geo = geo
	s.ops = ops
	s.units = viz.UnitOptions(ops.Records)
	s.mu.Unlock()

	s.ready.Store(true)
	s.metrics.DashboardReady.Set(1)
	s.logger.Info("dashboard ready",
		"geo_rows", len(geo.Records),
		"ops_rows", len(ops.Records),
		"units", len(s.units)-1,
	)
	return nil
}

// CheckReadiness returns nil once both datasets are loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return ErrNotLoaded
	}
	return nil
}

func (s *Service) tables() (*domain.GeoTable, *domain.OpsTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.geo == nil || s.ops == nil {
		return nil, nil, ErrNotLoaded
	}
	return s.geo, s.ops, nil
}

// Units returns the unit selector options, AllUnits first.
func (s *Service) Units() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.units == nil {
		return nil, ErrNotLoaded
	}
	out := make([]string, len(s.units))
	copy(out, s.units)
	return out, nil
}

// Statistics returns the statistic selector options.
func (s *Service) Statistics() []string {
	return domain.StatisticNames()
}

// Datasets describes both loaded tables.
func (s *Service) Datasets() ([]DatasetInfo, error) {
	geo, ops, err := s.tables()
	if err != nil {
		return nil, err
	}
	return []DatasetInfo{
		{Dataset: "geo", Source: geo.Source, Rows: len(geo.Records), LoadedAt: geo.LoadedAt},
		{Dataset: "ops", Source: ops.Source, Rows: len(ops.Records), LoadedAt: ops.LoadedAt},
	}, nil
}

// Map builds the bombing map, filtered to date when it is non-nil. date is a
// date picker value (100 years ahead of the data).
func (s *Service) Map(date *time.Time) (viz.MapSpec, error) {
	defer s.observe("map", time.Now())
	geo, _, err := s.tables()
	if err != nil {
		return viz.MapSpec{}, err
	}
	coords, err := s.filter.FilterByDate(geo, date)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues("map").Inc()
		return viz.MapSpec{}, err
	}
	return viz.BuildMap(coords, s.mapStyle), nil
}

// LineChart builds the statistic time series for unit.
func (s *Service) LineChart(unit, statistic string) (viz.ChartSpec, error) {
	defer s.observe("line", time.Now())
	_, ops, err := s.tables()
	if err != nil {
		return viz.ChartSpec{}, err
	}
	spec, err := viz.BuildLineChart(ops, unit, statistic)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues("line").Inc()
		return viz.ChartSpec{}, err
	}
	return spec, nil
}

// BarChart builds total sorties per aircraft type for unit.
func (s *Service) BarChart(unit string) (viz.ChartSpec, error) {
	defer s.observe("bar", time.Now())
	_, ops, err := s.tables()
	if err != nil {
		return viz.ChartSpec{}, err
	}
	return viz.BuildBarChart(ops, unit), nil
}

// LinePNG renders the line chart as a PNG image.
func (s *Service) LinePNG(w io.Writer, unit, statistic string) error {
	defer s.observe("line_png", time.Now())
	_, ops, err := s.tables()
	if err != nil {
		return err
	}
	rows, stat, err := viz.SelectSeries(ops.Records, unit, statistic)
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues("line_png").Inc()
		return err
	}
	if err := s.renderer.LinePNG(w, stat.Name+" for "+unit, rows, stat); err != nil {
		s.metrics.RenderErrors.WithLabelValues("line_png").Inc()
		return err
	}
	return nil
}

// BarPNG renders the bar chart as a PNG image.
func (s *Service) BarPNG(w io.Writer, unit string) error {
	defer s.observe("bar_png", time.Now())
	_, ops, err := s.tables()
	if err != nil {
		return err
	}
	if err := s.renderer.BarPNG(w, "Total Sorties for "+unit, viz.SortiesByAircraft(ops.Records, unit)); err != nil {
		s.metrics.RenderErrors.WithLabelValues("bar_png").Inc()
		return err
	}
	return nil
}

func (s *Service) observe(artifact string, start time.Time) {
	s.metrics.RenderDuration.WithLabelValues(artifact).Observe(time.Since(start).Seconds())
}
