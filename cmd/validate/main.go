// Command validate runs data integrity checks over the two THOR CSV sources
// using the production loader: coordinate and date sanity, non-negative
// statistics, catalog coverage, and aggregation consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data-dir data \
//	  -geo-file GeoData.csv \
//	  -ops-file KoreanWarOps.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/dataset"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/geo"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
)

// Korean War dates; records outside are reported but not failed.
var (
	warStart = time.Date(1950, time.June, 25, 0, 0, 0, 0, time.UTC)
	warEnd   = time.Date(1953, time.July, 27, 0, 0, 0, 0, time.UTC)
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing the CSV sources")
	geoFile := flag.String("geo-file", "GeoData.csv", "geographic dataset file name")
	opsFile := flag.String("ops-file", "KoreanWarOps.csv", "operations dataset file name")
	flag.Parse()

	os.Exit(run(os.Stdout, *dataDir, *geoFile, *opsFile))
}

func run(out io.Writer, dataDir, geoFile, opsFile string) int {
	fmt.Fprintln(out, "=== THOR Data Integrity Validation ===")
	fmt.Fprintln(out)

	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := dataset.NewLoader(os.DirFS(dataDir), logger, metrics)

	geoTable, err := loader.LoadGeo(geoFile)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}
	opsTable, err := loader.LoadOps(opsFile)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateGeo(geoTable),
		validateOps(opsTable),
		validateCatalog(),
		validateConsistency(geoTable, opsTable, geo.NewFilter(nil, metrics)),
	}

	return report(out, phases, len(geoTable.Records), len(opsTable.Records))
}

func report(out io.Writer, phases []*phase, geoRows, opsRows int) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d geographic, %d operations\n", geoRows, opsRows)

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(out, "  Note (%s): %s\n", p.name, n)
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Geographic Integrity ──

func validateGeo(table *domain.GeoTable) *phase {
	p := &phase{name: "Phase 1: Geographic Integrity"}
	if len(table.Records) == 0 {
		p.errorf("%s has no rows", table.Source)
	}

	outsideWar := 0
	for i, r := range table.Records {
		if math.IsNaN(r.Lat) || r.Lat < -90 || r.Lat > 90 {
			p.errorf("row %d: latitude %g out of range", i+1, r.Lat)
		}
		if math.IsNaN(r.Lon) || r.Lon < -180 || r.Lon > 180 {
			p.errorf("row %d: longitude %g out of range", i+1, r.Lon)
		}
		if r.Date.Before(warStart) || r.Date.After(warEnd) {
			outsideWar++
		}
	}
	if outsideWar > 0 {
		p.notef("%d row(s) dated outside %s..%s", outsideWar, warStart.Format(time.DateOnly), warEnd.Format(time.DateOnly))
	}
	return p
}

// ── Phase 2: Operations Integrity ──

func validateOps(table *domain.OpsTable) *phase {
	p := &phase{name: "Phase 2: Operations Integrity"}
	if len(table.Records) == 0 {
		p.errorf("%s has no rows", table.Source)
	}

	missingUnit := 0
	for i, r := range table.Records {
		if r.AircraftDispatched < 0 {
			p.errorf("row %d: AC_DISPATCHED is negative (%g)", i+1, r.AircraftDispatched)
		}
		for _, s := range domain.Statistics() {
			if v := s.Value(r); v < 0 {
				p.errorf("row %d: %s is negative (%g)", i+1, s.Column, v)
			}
		}
		if r.Unit == domain.MissingUnit {
			missingUnit++
		}
	}
	if missingUnit > 0 {
		p.notef("%d row(s) have no UNIT and are grouped under %q", missingUnit, domain.MissingUnit)
	}
	return p
}

// ── Phase 3: Catalog Coverage ──

func validateCatalog() *phase {
	p := &phase{name: "Phase 3: Statistic Catalog"}

	columns := map[string]string{}
	for _, s := range domain.Statistics() {
		if prev, dup := columns[s.Column]; dup {
			p.errorf("%q and %q both map to %s", prev, s.Name, s.Column)
		}
		columns[s.Column] = s.Name

		resolved, err := domain.LookupStatistic(s.Name)
		if err != nil {
			p.errorf("%q does not resolve: %v", s.Name, err)
		} else if resolved.Column != s.Column {
			p.errorf("%q resolves to %s, want %s", s.Name, resolved.Column, s.Column)
		}
	}
	if len(columns) != 8 {
		p.errorf("catalog has %d distinct columns, want 8", len(columns))
	}
	return p
}

// ── Phase 4: Aggregation Consistency ──

func validateConsistency(geoTable *domain.GeoTable, opsTable *domain.OpsTable, filter *geo.Filter) *phase {
	p := &phase{name: "Phase 4: Aggregation Consistency"}

	for _, unit := range viz.UnitOptions(opsTable.Records) {
		var want float64
		for _, r := range viz.FilterUnit(opsTable.Records, unit) {
			want += r.AircraftDispatched
		}
		var got float64
		for _, b := range viz.SortiesByAircraft(opsTable.Records, unit) {
			got += b.TotalSorties
		}
		if math.Abs(want-got) > 1e-6 {
			p.errorf("unit %q: bar total %g != dispatched total %g", unit, got, want)
		}
	}

	all, err := filter.FilterByDate(geoTable, nil)
	if err != nil {
		p.errorf("unfiltered map: %v", err)
	} else if len(all) != len(geoTable.Records) {
		p.errorf("unfiltered map has %d points, table has %d", len(all), len(geoTable.Records))
	}

	picked := domain.DatePickerDefault
	coords, err := filter.FilterByDate(geoTable, &picked)
	if err != nil {
		p.errorf("default date map: %v", err)
	} else {
		p.notef("default picker date %s matches %d point(s)", picked.Format(time.DateOnly), len(coords))
	}
	return p
}
