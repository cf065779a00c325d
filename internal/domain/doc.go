// Package domain models the USAF Korean War records from the THOR
// (Theater History of Operations Reports) dataset.
//
// # Data Sources
//
// Two flat CSV files, both with a header row:
//
//	GeoData.csv        one row per bombing event: lat, lon, DATE
//	KoreanWarOps.csv   one row per unit activity report: UNIT, DATE, AC_TYPE,
//	                   AC_DISPATCHED and the eight statistic columns
//
// Columns are located by header name, so extra columns and column order do not
// matter.
//
// # Date Format
//
// DATE values appear as ISO dates ("1951-06-02"), ISO date-times, or US-style
// "6/2/1951". All parse to UTC. See [ParseDate].
//
// # Missing Values
//
// Empty cells are filled exactly once, where rows enter the system:
//
//	UNIT           "NA"
//	AC_TYPE        "N/A"
//	numeric cells  0
//
// No code past the loader sees a missing value. See [FillString] and [FillFloat].
//
// # Date Picker Offset
//
// The dashboard's date picker runs 100 years ahead of the data (2051-06-01
// through 2052-12-30). Query dates are shifted back by exactly 100 years in the
// year component before matching. See [ShiftQueryDate].
//
// # Statistic Catalog
//
// Eight display names map one-to-one onto operations columns, for example
// "Bullets Used" -> BULLETS. See [Statistics].
package domain
