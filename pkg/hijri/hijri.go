// Package hijri converts legacy Hijri-labelled dates to Gregorian month/year
// pairs.
//
// The conversion is a fixed linear approximation, NOT an astronomical one.
// It reproduces what the legacy data entry screens did and is only meant
// for migrating those legacy strings. Never use it for new dates.
package hijri

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/laaraari2/theatre-management-system-sub001/pkg/digits"
)

const (
	yearScale  = 0.970229
	yearOffset = 621.5643

	// monthShift maps a Hijri month position onto a Gregorian month (Safar -> August).
	monthShift = 6
)

// Months lists the canonical Hijri month names, Muharram first.
var Months = []string{
	"محرم",
	"صفر",
	"ربيع الأول",
	"ربيع الآخر",
	"جمادى الأولى",
	"جمادى الآخرة",
	"رجب",
	"شعبان",
	"رمضان",
	"شوال",
	"ذو القعدة",
	"ذو الحجة",
}

// spelling variants seen in legacy data, 1-based month
var monthVariants = map[string]int{
	"ربيع الاول":    3,
	"ربيع الثاني":   4,
	"ربيع الاخر":    4,
	"جمادى الاولى":  5,
	"جمادى الأول":   5,
	"جمادى الثانية": 6,
	"جمادى الاخرة":  6,
	"ذي القعدة":     11,
	"ذي الحجة":      12,
}

var markers = []string{"هـ", "ه", "هـ.", "ھ"}

// Date is a Hijri date read from a legacy string. Day is zero when absent.
type Date struct {
	Day   int
	Month int
	Year  int
}

// HasDay reports whether the legacy string carried a day
func (d Date) HasDay() bool {
	return d.Day > 0
}

// GregorianYear approximates the Gregorian year of a Hijri year
func GregorianYear(hijriYear int) int {
	return int(math.Round(float64(hijriYear)*yearScale + yearOffset))
}

// HijriYear approximates the Hijri year of a Gregorian year
func HijriYear(gregorianYear int) int {
	return int(math.Round((float64(gregorianYear) - yearOffset) / yearScale))
}

// GregorianMonth maps a Hijri month (1-12) to a Gregorian month (1-12)
func GregorianMonth(hijriMonth int) int {
	return wrapMonth(hijriMonth + monthShift)
}

// HijriMonth maps a Gregorian month (1-12) to a Hijri month (1-12)
func HijriMonth(gregorianMonth int) int {
	return wrapMonth(gregorianMonth - monthShift)
}

func wrapMonth(m int) int {
	if m > 12 {
		m -= 12
	}
	if m < 1 {
		m += 12
	}
	return m
}

// MonthIndex resolves a Hijri month name (or a known variant) to 1-12
func MonthIndex(name string) (int, bool) {
	name = norm.NFC.String(name)
	for i, m := range Months {
		if norm.NFC.String(m) == name {
			return i + 1, true
		}
	}
	if m, ok := monthVariants[name]; ok {
		return m, true
	}
	return 0, false
}

// ToGregorian converts a Hijri date into (year, month 1-12, day).
// A missing day becomes the first of the month.
func ToGregorian(d Date) (year, month, day int) {
	day = d.Day
	if day == 0 {
		day = 1
	}
	return GregorianYear(d.Year), GregorianMonth(d.Month), day
}

// IsLegacy reports whether text carries a Hijri epoch marker or a Hijri month name
func IsLegacy(text string) bool {
	tokens, marked := tokenize(text)
	if marked {
		return true
	}
	_, _, found := findMonth(tokens)
	return found
}

// HasMarker reports whether text carries a Hijri epoch marker such as "هـ",
// standalone or glued to the year
func HasMarker(text string) bool {
	_, marked := tokenize(text)
	return marked
}

// Parse reads "[day] <hijriMonth> <year> [هـ]" with Latin or Arabic-Indic digits
func Parse(text string) (Date, bool) {
	tokens, _ := tokenize(text)

	pos, width, found := findMonth(tokens)
	if !found {
		return Date{}, false
	}
	month, _ := MonthIndex(strings.Join(tokens[pos:pos+width], " "))

	after := pos + width
	if after >= len(tokens) {
		return Date{}, false
	}
	year, err := strconv.Atoi(tokens[after])
	if err != nil || year <= 0 {
		return Date{}, false
	}

	d := Date{Month: month, Year: year}
	if pos > 0 {
		day, err := strconv.Atoi(tokens[pos-1])
		if err == nil {
			if day < 1 || day > 30 {
				return Date{}, false
			}
			d.Day = day
		}
	}

	return d, true
}

// tokenize normalizes digits and splits text, dropping epoch markers
func tokenize(text string) ([]string, bool) {
	fields := strings.Fields(digits.ToASCII(norm.NFC.String(text)))

	tokens := make([]string, 0, len(fields))
	marked := false
	for _, f := range fields {
		if isMarker(f) {
			marked = true
			continue
		}
		// year with the marker glued on, e.g. "1447هـ"
		for _, m := range markers {
			if trimmed := strings.TrimSuffix(f, m); trimmed != f && isNumber(trimmed) {
				f = trimmed
				marked = true
				break
			}
		}
		tokens = append(tokens, f)
	}

	return tokens, marked
}

func findMonth(tokens []string) (pos, width int, found bool) {
	for i := range tokens {
		if i+1 < len(tokens) {
			if _, ok := MonthIndex(tokens[i] + " " + tokens[i+1]); ok {
				return i, 2, true
			}
		}
		if _, ok := MonthIndex(tokens[i]); ok {
			return i, 1, true
		}
	}
	return 0, 0, false
}

func isMarker(token string) bool {
	for _, m := range markers {
		if token == m {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}
