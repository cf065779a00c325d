package domain

import "time"

// AllUnits is the unit selector sentinel that disables unit filtering.
const AllUnits = "All Units"

// Fill values for empty cells in the operations dataset.
const (
	MissingUnit         = "NA"
	MissingAircraftType = "N/A"
)

// Coord is a WGS-84 latitude/longitude pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoRecord is one bombing event from the geographic dataset.
type GeoRecord struct {
	Coord
	Date time.Time `json:"date"`
}

// OpsRecord is one unit activity observation from the operations dataset.
// Missing cells have already been filled by the time a record exists.
type OpsRecord struct {
	Unit               string    `json:"unit"`
	Date               time.Time `json:"date"`
	AircraftType       string    `json:"aircraft_type"`
	AircraftDispatched float64   `json:"aircraft_dispatched"`

	MunitionsLbs      float64 `json:"total_munitions_lbs"`
	Bullets           float64 `json:"bullets"`
	Rockets           float64 `json:"rockets"`
	AircraftDestroyed float64 `json:"ac_destroyed"`
	Casualties        float64 `json:"casualties"`
	AircraftLost      float64 `json:"ac_lost"`
	AircraftDamaged   float64 `json:"ac_damaged"`
	AircraftEffective float64 `json:"ac_effective"`
}

// GeoTable is a loaded geographic dataset. Source identifies the table for caching.
type GeoTable struct {
	Source   string
	LoadedAt time.Time
	Records  []GeoRecord
}

// OpsTable is a loaded operations dataset. Source identifies the table for caching.
type OpsTable struct {
	Source   string
	LoadedAt time.Time
	Records  []OpsRecord
}

// MatchesUnit reports whether r belongs to unit, treating AllUnits as a wildcard.
func (r OpsRecord) MatchesUnit(unit string) bool {
	return unit == AllUnits || r.Unit == unit
}
