package domain

// Statistic pairs a display name with its operations column and accessor.
type Statistic struct {
	Name   string
	Column string
	value  func(OpsRecord) float64
}

// Value extracts the statistic from a record.
func (s Statistic) Value(r OpsRecord) float64 {
	return s.value(r)
}

// Statistic column names in the operations dataset.
const (
	ColMunitionsLbs      = "TOTAL_MUNITIONS_LBS"
	ColBullets           = "BULLETS"
	ColRockets           = "ROCKETS"
	ColAircraftDestroyed = "AC_DESTROYED"
	ColCasualties        = "CASUALTIES"
	ColAircraftLost      = "AC_LOST"
	ColAircraftDamaged   = "AC_DAMAGED"
	ColAircraftEffective = "AC_EFFECTIVE"
)

var catalog = []Statistic{
	{Name: "Pounds of Munitions Used", Column: ColMunitionsLbs, value: func(r OpsRecord) float64 { return r.MunitionsLbs }},
	{Name: "Bullets Used", Column: ColBullets, value: func(r OpsRecord) float64 { return r.Bullets }},
	{Name: "Rockets Used", Column: ColRockets, value: func(r OpsRecord) float64 { return r.Rockets }},
	{Name: "Enemy Aircraft Destroyed", Column: ColAircraftDestroyed, value: func(r OpsRecord) float64 { return r.AircraftDestroyed }},
	{Name: "Casualties", Column: ColCasualties, value: func(r OpsRecord) float64 { return r.Casualties }},
	{Name: "Aircraft Lost", Column: ColAircraftLost, value: func(r OpsRecord) float64 { return r.AircraftLost }},
	{Name: "Aircraft Damaged", Column: ColAircraftDamaged, value: func(r OpsRecord) float64 { return r.AircraftDamaged }},
	{Name: "Effective Aircraft on Mission", Column: ColAircraftEffective, value: func(r OpsRecord) float64 { return r.AircraftEffective }},
}

var (
	byName   = make(map[string]Statistic, len(catalog))
	byColumn = make(map[string]Statistic, len(catalog))
)

func init() {
	for _, s := range catalog {
		byName[s.Name] = s
		byColumn[s.Column] = s
	}
}

// Statistics returns the catalog in selector order.
func Statistics() []Statistic {
	out := make([]Statistic, len(catalog))
	copy(out, catalog)
	return out
}

// StatisticNames returns the catalog display names in selector order.
func StatisticNames() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

// LookupStatistic resolves a display name. Unknown names return *UnknownStatisticError.
func LookupStatistic(name string) (Statistic, error) {
	s, ok := byName[name]
	if !ok {
		return Statistic{}, &UnknownStatisticError{Name: name}
	}
	return s, nil
}

// StatisticForColumn is the reverse lookup, from column name to catalog entry.
func StatisticForColumn(column string) (Statistic, bool) {
	s, ok := byColumn[column]
	return s, ok
}
