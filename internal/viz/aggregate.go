package viz

import (
	"sort"

	"github.com/couchcryptid/thor-dashboard/internal/domain"
)

// Bar is one aircraft type and its total dispatched sorties.
type Bar struct {
	Aircraft     string  `json:"Aircraft"`
	TotalSorties float64 `json:"Total Sorties"`
}

// SortiesByAircraft groups unit's records by aircraft type and sums dispatched
// aircraft per group. Every type present gets a bar, including zero totals.
// Bars are ordered by aircraft type.
func SortiesByAircraft(records []domain.OpsRecord, unit string) []Bar {
	totals := make(map[string]float64)
	for _, r := range records {
		if !r.MatchesUnit(unit) {
			continue
		}
		totals[r.AircraftType] += r.AircraftDispatched
	}

	bars := make([]Bar, 0, len(totals))
	for aircraft, total := range totals {
		bars = append(bars, Bar{Aircraft: aircraft, TotalSorties: total})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Aircraft < bars[j].Aircraft })
	return bars
}
