// Package dates converts between free-text Moroccan dates, ISO dates and
// the canonical (day, month index, year) triple.
package dates

import (
	"fmt"
	"time"

	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
)

// CanonicalDate is a calendar date with a 0-based calendar month index.
// The month index is independent of which catalog names are displayed.
type CanonicalDate struct {
	Day        int `json:"day"`
	MonthIndex int `json:"monthIndex"`
	Year       int `json:"year"`
}

// Valid reports whether every field is within range
func (d CanonicalDate) Valid() bool {
	return d.Day >= 1 && d.Day <= 31 &&
		d.MonthIndex >= 0 && d.MonthIndex <= 11 &&
		d.Year >= 1 && d.Year <= 9999
}

// Compare orders dates chronologically by (year, month, day)
func (d CanonicalDate) Compare(o CanonicalDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.MonthIndex != o.MonthIndex:
		return cmpInt(d.MonthIndex, o.MonthIndex)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Time returns the date at noon UTC on the proleptic Gregorian calendar
func (d CanonicalDate) Time() time.Time {
	// Use noon to avoid timezone issues when formatting
	return time.Date(d.Year, time.Month(d.MonthIndex+1), d.Day, 12, 0, 0, 0, time.UTC)
}

// AcademicYearStart returns the year the school year containing d began in.
// September to December belong to their own year, January to August to the
// previous one.
func AcademicYearStart(d CanonicalDate) int {
	if d.MonthIndex >= months.AcademicStartIndex {
		return d.Year
	}
	return d.Year - 1
}

// AcademicYearLabel formats a school year label: "2025-2026"
func AcademicYearLabel(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
