package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned when a shifted query date is not a real calendar date.
var ErrInvalidDate = errors.New("invalid query date")

// LoadError reports a dataset that could not be read or parsed.
// Line is 1-based and counts the header; zero means the error is not tied to a row.
type LoadError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d, column %s: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Source, e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %s: %v", e.Source, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnknownStatisticError reports a statistic name that is not in the catalog.
type UnknownStatisticError struct {
	Name string
}

func (e *UnknownStatisticError) Error() string {
	return fmt.Sprintf("unknown statistic %q", e.Name)
}
