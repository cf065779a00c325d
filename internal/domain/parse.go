package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// queryYearOffset is how far the date picker runs ahead of the data.
const queryYearOffset = 100

// Date picker domain, in picker (offset) years.
var (
	DatePickerMin     = time.Date(2051, time.June, 1, 0, 0, 0, 0, time.UTC)
	DatePickerMax     = time.Date(2052, time.December, 30, 0, 0, 0, 0, time.UTC)
	DatePickerDefault = time.Date(2051, time.June, 2, 0, 0, 0, 0, time.UTC)
)

// dateLayouts are tried in order. US-style layouts accept unpadded month and day.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"20060102",
}

// ParseDate parses a DATE cell into a UTC time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// naTokens are the cell values that mean "missing", matching the default
// missing-value markers of common CSV tooling. Matching is case-sensitive.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a cell, after trimming, is a missing-value marker.
func IsMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// FillString returns def when s is a missing-value marker, otherwise the trimmed s.
func FillString(s, def string) string {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return def
	}
	return s
}

// FillFloat parses s as a float, returning def for a missing-value marker.
// Any other cell that does not parse is an error.
func FillFloat(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) {
		return def, nil
	}
	return v, nil
}

// ShiftQueryDate converts a date picker value into a data date by subtracting
// 100 from the year. Month and day are kept, time of day is dropped. A result
// that does not exist (Feb 29 in a non-leap year) returns ErrInvalidDate.
func ShiftQueryDate(d time.Time) (time.Time, error) {
	year, month, day := d.Date()
	shifted := time.Date(year-queryYearOffset, month, day, 0, 0, 0, 0, time.UTC)
	if shifted.Month() != month || shifted.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year-queryYearOffset, month, day)
	}
	return shifted, nil
}

// InDatePickerRange reports whether d falls within the picker domain, inclusive.
func InDatePickerRange(d time.Time) bool {
	return !d.Before(DatePickerMin) && !d.After(DatePickerMax)
}
