// Command genmock writes deterministic sample THOR datasets for local runs and
// tests. The generated files are read back through the production loader so
// the fixtures are guaranteed to match what the dashboard accepts.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out-dir data \
//	  -geo-rows 500 \
//	  -ops-rows 300
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/dataset"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
	"github.com/jonboulle/clockwork"
)

// Sample window covers the date picker range once shifted back 100 years.
var (
	windowStart = time.Date(1951, time.June, 1, 0, 0, 0, 0, time.UTC)
	windowDays  = 579
)

var (
	units = []string{
		"3 BW", "452 BW", "18 FBW", "49 FBW", "4 FIW", "51 FIW", "19 BG", "98 BG",
	}
	aircraftTypes = []string{"B-26", "B-29", "F-51", "F-80", "F-84", "F-86"}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory to write the CSV files into")
	geoFile := flag.String("geo-file", "GeoData.csv", "geographic dataset file name")
	opsFile := flag.String("ops-file", "KoreanWarOps.csv", "operations dataset file name")
	geoRows := flag.Int("geo-rows", 500, "number of geographic rows")
	opsRows := flag.Int("ops-rows", 300, "number of operations rows")
	seed := flag.Uint64("seed", 1951, "random seed")
	flag.Parse()

	if *geoRows < 1 || *opsRows < 1 {
		flag.Usage()
		return fmt.Errorf("row counts must be positive")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	if err := writeCSV(filepath.Join(*outDir, *geoFile), geoHeader(), geoRecords(rng, *geoRows)); err != nil {
		return fmt.Errorf("writing geo fixture: %w", err)
	}
	log.Printf("wrote %s: %d rows", *geoFile, *geoRows)

	if err := writeCSV(filepath.Join(*outDir, *opsFile), opsHeader(), opsRecords(rng, *opsRows)); err != nil {
		return fmt.Errorf("writing ops fixture: %w", err)
	}
	log.Printf("wrote %s: %d rows", *opsFile, *opsRows)

	// Fixed clock for reproducible LoadedAt stamps in the summary.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(1953, time.July, 27, 10, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	loader := dataset.NewLoader(os.DirFS(*outDir), slog.Default(), observability.NewMetricsForTesting())
	geoTable, err := loader.LoadGeo(*geoFile)
	if err != nil {
		return fmt.Errorf("reading back geo fixture: %w", err)
	}
	opsTable, err := loader.LoadOps(*opsFile)
	if err != nil {
		return fmt.Errorf("reading back ops fixture: %w", err)
	}

	printStats(geoTable, opsTable)
	return nil
}

func geoHeader() []string { return []string{"lat", "lon", "DATE"} }

func opsHeader() []string {
	h := []string{"UNIT", "DATE", "AC_TYPE", "AC_DISPATCHED"}
	for _, s := range domain.Statistics() {
		h = append(h, s.Column)
	}
	return h
}

func geoRecords(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := range n {
		date := windowStart.AddDate(0, 0, rng.IntN(windowDays))
		// Every tenth row lands on the picker's default date so the initial map is populated.
		if i%10 == 0 {
			date = time.Date(1951, time.June, 2, 0, 0, 0, 0, time.UTC)
		}
		lat := 37.0 + rng.Float64()*4.0
		lon := 124.5 + rng.Float64()*4.0
		rows = append(rows, []string{
			strconv.FormatFloat(lat, 'f', 4, 64),
			strconv.FormatFloat(lon, 'f', 4, 64),
			date.Format("1/2/2006"),
		})
	}
	return rows
}

func opsRecords(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := range n {
		unit := units[rng.IntN(len(units))]
		acType := aircraftTypes[rng.IntN(len(aircraftTypes))]
		// Sprinkle blank cells so the fill rules are exercised.
		switch i % 17 {
		case 3:
			unit = ""
		case 7:
			acType = ""
		}
		date := windowStart.AddDate(0, 0, rng.IntN(windowDays))
		dispatched := 1 + rng.IntN(48)

		row := []string{unit, date.Format(time.DateOnly), acType, strconv.Itoa(dispatched)}
		for j := range domain.Statistics() {
			if (i+j)%13 == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.Itoa(sampleValue(rng, j, dispatched)))
		}
		rows = append(rows, row)
	}
	return rows
}

// sampleValue scales each catalog column to a plausible magnitude.
func sampleValue(rng *rand.Rand, column, dispatched int) int {
	switch domain.Statistics()[column].Column {
	case domain.ColMunitionsLbs:
		return dispatched * (500 + rng.IntN(4000))
	case domain.ColBullets:
		return dispatched * rng.IntN(2000)
	case domain.ColRockets:
		return rng.IntN(dispatched*8 + 1)
	case domain.ColAircraftEffective:
		return dispatched - rng.IntN(dispatched/4+1)
	default:
		return rng.IntN(3)
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(geoTable *domain.GeoTable, opsTable *domain.OpsTable) {
	fmt.Printf("\n=== Fixture Summary (loaded %s) ===\n", opsTable.LoadedAt.Format(time.RFC3339))
	fmt.Printf("Geographic rows: %d\n", len(geoTable.Records))
	fmt.Printf("Operations rows: %d\n", len(opsTable.Records))

	options := viz.UnitOptions(opsTable.Records)
	fmt.Printf("\nUnit options (%d):\n", len(options))
	for _, u := range options {
		fmt.Printf("  %-10s %d rows\n", u, len(viz.FilterUnit(opsTable.Records, u)))
	}

	fmt.Printf("\nSorties by aircraft (%s):\n", domain.AllUnits)
	for _, b := range viz.SortiesByAircraft(opsTable.Records, domain.AllUnits) {
		fmt.Printf("  %-6s %g\n", b.Aircraft, b.TotalSorties)
	}

	dates := map[string]int{}
	for _, r := range geoTable.Records {
		dates[r.Date.Format(time.DateOnly)]++
	}
	busiest := make([]string, 0, len(dates))
	for d := range dates {
		busiest = append(busiest, d)
	}
	sort.Slice(busiest, func(i, j int) bool {
		if dates[busiest[i]] != dates[busiest[j]] {
			return dates[busiest[i]] > dates[busiest[j]]
		}
		return busiest[i] < busiest[j]
	})
	if len(busiest) > 0 {
		fmt.Printf("\nBusiest bombing date: %s (%d points)\n", busiest[0], dates[busiest[0]])
	}
}
