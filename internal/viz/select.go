// Package viz builds the dashboard's map and chart specifications from loaded tables.
package viz

import (
	"sort"

	"github.com/couchcryptid/thor-dashboard/internal/domain"
)

// FilterUnit returns the records for unit in source order. AllUnits passes every
// record through. The result never aliases records.
func FilterUnit(records []domain.OpsRecord, unit string) []domain.OpsRecord {
	out := make([]domain.OpsRecord, 0, len(records))
	for _, r := range records {
		if r.MatchesUnit(unit) {
			out = append(out, r)
		}
	}
	return out
}

// SelectSeries filters records to unit and resolves statisticName against the
// catalog. Missing values were filled to zero at load time, so the returned
// rows are ready to project onto DATE and the statistic's column. An unknown
// name returns *domain.UnknownStatisticError.
func SelectSeries(records []domain.OpsRecord, unit, statisticName string) ([]domain.OpsRecord, domain.Statistic, error) {
	stat, err := domain.LookupStatistic(statisticName)
	if err != nil {
		return nil, domain.Statistic{}, err
	}
	return FilterUnit(records, unit), stat, nil
}

// UnitOptions returns the unit selector entries: AllUnits, then every distinct
// unit sorted lexicographically.
func UnitOptions(records []domain.OpsRecord) []string {
	seen := make(map[string]struct{})
	units := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Unit]; ok {
			continue
		}
		seen[r.Unit] = struct{}{}
		units = append(units, r.Unit)
	}
	sort.Strings(units)
	return append([]string{domain.AllUnits}, units...)
}
