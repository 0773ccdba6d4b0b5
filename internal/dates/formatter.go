package dates

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
)

// ErrInvalidDate is returned when formatting a triple that is out of range
var ErrInvalidDate = errors.New("invalid canonical date")

// Weekdays holds the Arabic day names, indexed by time.Weekday (Sunday first)
var Weekdays = [7]string{
	"الأحد",
	"الاثنين",
	"الثلاثاء",
	"الأربعاء",
	"الخميس",
	"الجمعة",
	"السبت",
}

var weekdayIndex = func() map[string]int {
	idx := make(map[string]int, len(Weekdays)+1)
	for i, name := range Weekdays {
		idx[norm.NFC.String(name)] = i
	}
	idx[norm.NFC.String("الإثنين")] = 1
	return idx
}()

// Formatter renders canonical dates with the active month names
type Formatter struct {
	months months.Resolver
}

// NewFormatter creates a formatter resolving month names through r
func NewFormatter(r months.Resolver) *Formatter {
	return &Formatter{months: r}
}

// Format renders "<dayName> <day> <monthName> <year>" with Latin digits
func (f *Formatter) Format(d CanonicalDate) (string, error) {
	name, err := f.monthName(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d %s %d", DayName(d), d.Day, name, d.Year), nil
}

// FormatCompact renders "<day> <monthName> <year>", the data entry form
func (f *Formatter) FormatCompact(d CanonicalDate) (string, error) {
	name, err := f.monthName(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %d", d.Day, name, d.Year), nil
}

// MonthLabel renders "<monthName> <year>"
func (f *Formatter) MonthLabel(monthIndex, year int) (string, error) {
	name, ok := f.months.NameForCalendarIndex(monthIndex)
	if !ok {
		return "", fmt.Errorf("%w: month index %d", ErrInvalidDate, monthIndex)
	}
	return fmt.Sprintf("%s %d", name, year), nil
}

func (f *Formatter) monthName(d CanonicalDate) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("%w: %+v", ErrInvalidDate, d)
	}
	name, ok := f.months.NameForCalendarIndex(d.MonthIndex)
	if !ok {
		return "", fmt.Errorf("%w: month index %d", ErrInvalidDate, d.MonthIndex)
	}
	return name, nil
}

// ToISO renders "YYYY-MM-DD"
func ToISO(d CanonicalDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.MonthIndex+1, d.Day)
}

// DayName returns the Arabic weekday of d on the Gregorian calendar
func DayName(d CanonicalDate) string {
	return Weekdays[d.Time().Weekday()]
}
