package viz

import (
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/domain"
)

// dateField is the x field of the line chart.
const dateField = "DATE"

// BuildLineChart plots statisticName over time for unit, one point per
// retained record in source order. The y field is the statistic's column.
func BuildLineChart(table *domain.OpsTable, unit, statisticName string) (ChartSpec, error) {
	rows, stat, err := SelectSeries(table.Records, unit, statisticName)
	if err != nil {
		return ChartSpec{}, err
	}

	values := make([]map[string]any, len(rows))
	for i, r := range rows {
		values[i] = map[string]any{
			dateField:   formatDate(r.Date),
			stat.Column: stat.Value(r),
		}
	}

	return ChartSpec{
		Schema: vegaLiteSchema,
		Title:  stat.Name + " for " + unit,
		Mark:   "line",
		Data:   ChartData{Values: values},
		Encoding: Encoding{
			X: Channel{Field: dateField, Type: FieldTemporal},
			Y: Channel{Field: stat.Column, Type: FieldQuantitative},
		},
	}, nil
}

// formatDate renders midnight as a bare ISO date and anything else as RFC 3339.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
