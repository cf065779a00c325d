// Package dataset reads the THOR CSV sources into typed, read-only tables.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/cache"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
)

// Loader reads datasets from an fs.FS and memoizes each table by source name
// for the lifetime of the Loader.
type Loader struct {
	fsys    fs.FS
	geo     *cache.Memo[string, *domain.GeoTable]
	ops     *cache.Memo[string, *domain.OpsTable]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader over fsys. Source identifiers are paths within fsys.
func NewLoader(fsys fs.FS, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fsys:    fsys,
		geo:     cache.New[string, *domain.GeoTable](),
		ops:     cache.New[string, *domain.OpsTable](),
		logger:  logger,
		metrics: metrics,
	}
}

// LoadGeo returns the geographic table for source, reading it on first use.
// Errors are *domain.LoadError.
func (l *Loader) LoadGeo(source string) (*domain.GeoTable, error) {
	table, hit, err := l.geo.GetOrCompute(source, func() (*domain.GeoTable, error) {
		return l.readGeo(source)
	})
	l.observeLoad("geo", hit, err)
	if err != nil {
		return nil, err
	}
	if !hit {
		l.metrics.DatasetRows.WithLabelValues("geo").Set(float64(len(table.Records)))
		l.logger.Info("dataset loaded", "dataset", "geo", "source", source, "rows", len(table.Records))
	}
	return table, nil
}

// LoadOps returns the operations table for source, reading it on first use.
// Errors are *domain.LoadError.
func (l *Loader) LoadOps(source string) (*domain.OpsTable, error) {
	table, hit, err := l.ops.GetOrCompute(source, func() (*domain.OpsTable, error) {
		return l.readOps(source)
	})
	l.observeLoad("ops", hit, err)
	if err != nil {
		return nil, err
	}
	if !hit {
		l.metrics.DatasetRows.WithLabelValues("ops").Set(float64(len(table.Records)))
		l.logger.Info("dataset loaded", "dataset", "ops", "source", source, "rows", len(table.Records))
	}
	return table, nil
}

// Invalidate drops any cached table for source so the next load re-reads it.
func (l *Loader) Invalidate(source string) {
	l.geo.Invalidate(source)
	l.ops.Invalidate(source)
}

func (l *Loader) observeLoad(dataset string, hit bool, err error) {
	l.metrics.CacheLookups.WithLabelValues("loader", observability.CacheResult(hit)).Inc()
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues(dataset, "error").Inc()
		return
	}
	if !hit {
		l.metrics.DatasetLoads.WithLabelValues(dataset, "success").Inc()
	}
}

// Geographic dataset columns.
const (
	colLat  = "lat"
	colLon  = "lon"
	colDate = "DATE"
)

// Operations dataset columns, excluding the statistic columns from the catalog.
const (
	colUnit         = "UNIT"
	colAircraftType = "AC_TYPE"
	colDispatched   = "AC_DISPATCHED"
)

func (l *Loader) readGeo(source string) (*domain.GeoTable, error) {
	table := &domain.GeoTable{Source: source, LoadedAt: domain.Now()}
	err := l.readCSV(source, []string{colLat, colLon, colDate}, func(r row) error {
		lat, err := r.float(colLat)
		if err != nil {
			return err
		}
		lon, err := r.float(colLon)
		if err != nil {
			return err
		}
		date, err := r.date()
		if err != nil {
			return err
		}
		table.Records = append(table.Records, domain.GeoRecord{
			Coord: domain.Coord{Lat: lat, Lon: lon},
			Date:  date,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (l *Loader) readOps(source string) (*domain.OpsTable, error) {
	required := []string{colUnit, colDate, colAircraftType, colDispatched}
	for _, s := range domain.Statistics() {
		required = append(required, s.Column)
	}

	table := &domain.OpsTable{Source: source, LoadedAt: domain.Now()}
	err := l.readCSV(source, required, func(r row) error {
		date, err := r.date()
		if err != nil {
			return err
		}
		rec := domain.OpsRecord{
			Unit:         domain.FillString(r.get(colUnit), domain.MissingUnit),
			Date:         date,
			AircraftType: domain.FillString(r.get(colAircraftType), domain.MissingAircraftType),
		}

		numeric := []struct {
			column string
			dst    *float64
		}{
			{colDispatched, &rec.AircraftDispatched},
			{domain.ColMunitionsLbs, &rec.MunitionsLbs},
			{domain.ColBullets, &rec.Bullets},
			{domain.ColRockets, &rec.Rockets},
			{domain.ColAircraftDestroyed, &rec.AircraftDestroyed},
			{domain.ColCasualties, &rec.Casualties},
			{domain.ColAircraftLost, &rec.AircraftLost},
			{domain.ColAircraftDamaged, &rec.AircraftDamaged},
			{domain.ColAircraftEffective, &rec.AircraftEffective},
		}
		for _, n := range numeric {
			v, err := r.fillFloat(n.column)
			if err != nil {
				return err
			}
			*n.dst = v
		}

		table.Records = append(table.Records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// readCSV opens source, checks the header for required columns, and calls fn
// for each data row. Any failure is returned as a *domain.LoadError.
func (l *Loader) readCSV(source string, required []string, fn func(row) error) error {
	f, err := l.fsys.Open(source)
	if err != nil {
		return &domain.LoadError{Source: source, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header row")
		}
		return &domain.LoadError{Source: source, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return &domain.LoadError{Source: source, Column: col, Err: errors.New("required column missing")}
		}
	}

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return &domain.LoadError{Source: source, Line: pe.Line, Err: pe.Err}
			}
			return &domain.LoadError{Source: source, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if err := fn(row{fields: fields, index: index}); err != nil {
			var ce *cellError
			if errors.As(err, &ce) {
				return &domain.LoadError{Source: source, Line: line, Column: ce.column, Err: ce.err}
			}
			return &domain.LoadError{Source: source, Line: line, Err: err}
		}
	}
}

// row is a view over one CSV record keyed by header name.
type row struct {
	fields []string
	index  map[string]int
}

// get returns the raw cell for column, or "" when the row is short.
func (r row) get(column string) string {
	i := r.index[column]
	if i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r row) date() (time.Time, error) {
	t, err := domain.ParseDate(r.get(colDate))
	if err != nil {
		return time.Time{}, &cellError{column: colDate, err: err}
	}
	return t, nil
}

// float parses a required numeric cell; a missing-value marker is an error.
func (r row) float(column string) (float64, error) {
	s := strings.TrimSpace(r.get(column))
	if domain.IsMissing(s) {
		return 0, &cellError{column: column, err: fmt.Errorf("missing value %q", s)}
	}
	v, err := domain.FillFloat(s, math.NaN())
	if err != nil {
		return 0, &cellError{column: column, err: err}
	}
	if math.IsNaN(v) {
		return 0, &cellError{column: column, err: fmt.Errorf("missing value %q", s)}
	}
	return v, nil
}

// fillFloat parses an optional numeric cell, filling missing values with 0.
func (r row) fillFloat(column string) (float64, error) {
	v, err := domain.FillFloat(r.get(column), 0)
	if err != nil {
		return 0, &cellError{column: column, err: err}
	}
	return v, nil
}

type cellError struct {
	column string
	err    error
}

func (e *cellError) Error() string { return fmt.Sprintf("%s: %v", e.column, e.err) }
