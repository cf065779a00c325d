package viz

import "github.com/couchcryptid/thor-dashboard/internal/domain"

const (
	aircraftField     = "Aircraft"
	totalSortiesField = "Total Sorties"
)

// BuildBarChart plots total sorties per aircraft type for unit, with the total
// in the tooltip.
func BuildBarChart(table *domain.OpsTable, unit string) ChartSpec {
	bars := SortiesByAircraft(table.Records, unit)

	values := make([]map[string]any, len(bars))
	for i, b := range bars {
		values[i] = map[string]any{
			aircraftField:     b.Aircraft,
			totalSortiesField: b.TotalSorties,
		}
	}

	total := Channel{Field: totalSortiesField, Type: FieldQuantitative}
	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  "Total Sorties for " + unit,
		Mark:   "bar",
		Data:   ChartData{Values: values},
		Encoding: Encoding{
			X:       Channel{Field: aircraftField, Type: FieldNominal},
			Y:       total,
			Tooltip: []Channel{total},
		},
	}
}
