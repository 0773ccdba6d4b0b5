// Package migration rewrites legacy date strings (Hijri labelled, or typed
// with Arabic-Indic digits) into the Gregorian data entry form. It is a
// one-time pass over stored records and is never used for new input.
package migration

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/laaraari2/theatre-management-system-sub001/internal/dates"
	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/digits"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/hijri"
)

// safar1447 is the known correction for legacy "صفر 1447 هـ" entries,
// which were all meant as 9 August 2025
var safar1447 = dates.CanonicalDate{Day: 9, MonthIndex: 7, Year: 2025}

// Change describes one rewritten date
type Change struct {
	Index int    `json:"index"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Result summarizes a migration run. Skipped records needed migration but
// could not be converted with confidence; they are left untouched.
type Result[R any] struct {
	Scanned        int      `json:"scanned"`
	UpdatedCount   int      `json:"updatedCount"`
	Skipped        int      `json:"skipped"`
	UpdatedRecords []R      `json:"updatedRecords"`
	Changes        []Change `json:"changes"`
}

// Migrator converts legacy strings with the active month names
type Migrator struct {
	parser    *dates.Parser
	formatter *dates.Formatter
	log       logrus.FieldLogger
}

// NewMigrator creates a migrator resolving month names through r
func NewMigrator(r months.Resolver, log logrus.FieldLogger) *Migrator {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.ErrorLevel)
		log = l
	}
	return &Migrator{
		parser:    dates.NewParser(r),
		formatter: dates.NewFormatter(r),
		log:       log,
	}
}

// NeedsMigration reports whether raw still has to be rewritten: it carries
// Arabic-Indic digits or a Hijri epoch marker, or it names a Hijri month and
// does not already parse as a Gregorian date under the active catalog. The
// last rule keeps custom month names that match Hijri ones from being
// converted again.
func (m *Migrator) NeedsMigration(raw string) bool {
	if digits.ContainsArabic(raw) || hijri.HasMarker(raw) {
		return true
	}
	return hijri.IsLegacy(raw) && !m.parser.Parse(raw).OK()
}

// Run scans records and returns copies of the ones whose date was
// rewritten. Input records are never modified. Running it again on the
// output finds nothing to change.
func Run[R models.Redatable[R]](m *Migrator, records []R) Result[R] {
	res := Result[R]{
		Scanned:        len(records),
		UpdatedRecords: make([]R, 0),
		Changes:        make([]Change, 0),
	}

	for i, rec := range records {
		raw := rec.DateText()
		if !m.NeedsMigration(raw) {
			continue
		}

		out, ok := m.Rewrite(raw)
		if !ok {
			res.Skipped++
			m.log.WithFields(logrus.Fields{"index": i, "date": raw}).Debug("Legacy date skipped")
			continue
		}
		if out == raw {
			continue
		}

		res.UpdatedCount++
		res.UpdatedRecords = append(res.UpdatedRecords, rec.WithDate(out))
		res.Changes = append(res.Changes, Change{Index: i, From: raw, To: out})
	}

	return res
}

// Rewrite converts one legacy string. ok is false when it cannot be
// converted with confidence. Unmarked strings that parse as Gregorian dates
// keep their date and only get Latin digits.
func (m *Migrator) Rewrite(raw string) (string, bool) {
	if !hijri.HasMarker(raw) {
		if parsed := m.parser.Parse(raw); parsed.OK() {
			return m.rewriteGregorian(raw, parsed.Date)
		}
	}
	if hijri.IsLegacy(raw) {
		return m.rewriteHijri(raw)
	}
	return "", false
}

func (m *Migrator) rewriteGregorian(raw string, d dates.CanonicalDate) (string, bool) {
	if isISO(digits.ToASCII(raw)) {
		return dates.ToISO(d), true
	}
	out, err := m.formatter.FormatCompact(d)
	if err != nil {
		return "", false
	}
	return out, true
}

func (m *Migrator) rewriteHijri(raw string) (string, bool) {
	hd, ok := hijri.Parse(raw)
	if !ok {
		return "", false
	}

	var d dates.CanonicalDate
	if hd.Month == 2 && hd.Year == 1447 && !hd.HasDay() {
		d = safar1447
	} else {
		year, month, day := hijri.ToGregorian(hd)
		if day > daysIn(year, month) {
			return "", false
		}
		d = dates.CanonicalDate{Day: day, MonthIndex: month - 1, Year: year}
	}

	out, err := m.formatter.FormatCompact(d)
	if err != nil {
		return "", false
	}
	return out, true
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

func isISO(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}
