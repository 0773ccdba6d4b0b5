// Package grouping buckets dated records by "<month> <year>" and orders the
// buckets along the school year.
package grouping

import (
	"fmt"
	"sort"

	"github.com/laaraari2/theatre-management-system-sub001/internal/dates"
	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
)

// Reserved bucket keys
const (
	BucketInvalidDate = "invalid date"
	BucketNoDate      = "no date"
)

// Kind separates month buckets from the reserved ones
type Kind string

const (
	KindDated       Kind = "dated"
	KindNoDate      Kind = "no_date"
	KindInvalidDate Kind = "invalid_date"
)

// Bucket is one display group. MonthIndex, Year and AcademicYear are only
// set for KindDated.
type Bucket[R any] struct {
	Key          string `json:"key"`
	Kind         Kind   `json:"kind"`
	MonthIndex   int    `json:"monthIndex"`
	Year         int    `json:"year"`
	AcademicYear string `json:"academicYear,omitempty"`
	Records      []R    `json:"records"`
}

type dated[R any] struct {
	record R
	date   dates.CanonicalDate
}

type monthKey struct {
	month int
	year  int
}

// Group places every record in exactly one bucket. Month buckets come
// first, ordered by year and then by position in the school year
// (September first); records inside a month are chronological, ties keep
// input order. Unparseable and missing dates follow in the reserved
// "invalid date" and "no date" buckets. Empty buckets are omitted.
//
// Pass a frozen view (months.Catalog.Snapshot) to keep one call consistent
// while the catalog is being edited.
func Group[R models.Dated](r months.Resolver, records []R) []Bucket[R] {
	names := r.ActiveMonths()
	parser := dates.NewParser(r)

	byMonth := make(map[monthKey][]dated[R])
	var invalid, absent []R

	for _, rec := range records {
		res := parser.Parse(rec.DateText())
		switch res.Status {
		case dates.StatusParsed:
			k := monthKey{month: res.Date.MonthIndex, year: res.Date.Year}
			byMonth[k] = append(byMonth[k], dated[R]{record: rec, date: res.Date})
		case dates.StatusAbsent:
			absent = append(absent, rec)
		default:
			invalid = append(invalid, rec)
		}
	}

	keys := make([]monthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return months.AcademicPosition(keys[i].month) < months.AcademicPosition(keys[j].month)
	})

	buckets := make([]Bucket[R], 0, len(keys)+2)
	for _, k := range keys {
		items := byMonth[k]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].date.Compare(items[j].date) < 0
		})

		recs := make([]R, len(items))
		for i, it := range items {
			recs[i] = it.record
		}

		buckets = append(buckets, Bucket[R]{
			Key:          BucketKey(names, k.month, k.year),
			Kind:         KindDated,
			MonthIndex:   k.month,
			Year:         k.year,
			AcademicYear: dates.AcademicYearLabel(dates.AcademicYearStart(dates.CanonicalDate{Day: 1, MonthIndex: k.month, Year: k.year})),
			Records:      recs,
		})
	}

	if len(invalid) > 0 {
		buckets = append(buckets, Bucket[R]{Key: BucketInvalidDate, Kind: KindInvalidDate, MonthIndex: -1, Records: invalid})
	}
	if len(absent) > 0 {
		buckets = append(buckets, Bucket[R]{Key: BucketNoDate, Kind: KindNoDate, MonthIndex: -1, Records: absent})
	}

	return buckets
}

// BucketKey renders "<monthName> <year>" with the given calendar-ordered names
func BucketKey(names []string, monthIndex, year int) string {
	return fmt.Sprintf("%s %d", names[monthIndex], year)
}

// Option is an entry of the month picker
type Option struct {
	Key          string `json:"key"`
	MonthIndex   int    `json:"monthIndex"`
	Year         int    `json:"year"`
	AcademicYear string `json:"academicYear"`
	Count        int    `json:"count"`
}

// MonthOptions lists the month buckets for the month picker, in display order
func MonthOptions[R any](buckets []Bucket[R]) []Option {
	opts := make([]Option, 0, len(buckets))
	for _, b := range buckets {
		if b.Kind != KindDated {
			continue
		}
		opts = append(opts, Option{
			Key:          b.Key,
			MonthIndex:   b.MonthIndex,
			Year:         b.Year,
			AcademicYear: b.AcademicYear,
			Count:        len(b.Records),
		})
	}
	return opts
}

// Select keeps the buckets whose keys were picked for a multi-month export,
// in display order. Unknown keys are ignored.
func Select[R any](buckets []Bucket[R], keys []string) []Bucket[R] {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	selected := make([]Bucket[R], 0, len(keys))
	for _, b := range buckets {
		if wanted[b.Key] {
			selected = append(selected, b)
		}
	}
	return selected
}

// Counts tallies records per bucket kind
func Counts[R any](buckets []Bucket[R]) map[Kind]int {
	counts := make(map[Kind]int, 3)
	for _, b := range buckets {
		counts[b.Kind] += len(b.Records)
	}
	return counts
}
