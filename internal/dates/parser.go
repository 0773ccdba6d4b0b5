package dates

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/digits"
)

// Status tells how a raw date string was understood
type Status int

const (
	// StatusParsed means Result.Date holds a valid date
	StatusParsed Status = iota
	// StatusAbsent means the string was empty or blank
	StatusAbsent
	// StatusInvalid means the string could not be resolved
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusAbsent:
		return "absent"
	default:
		return "invalid"
	}
}

// Result is the outcome of Parse. Date is only meaningful when Status is StatusParsed.
type Result struct {
	Date   CanonicalDate
	Status Status
}

// OK reports whether the string was parsed
func (r Result) OK() bool {
	return r.Status == StatusParsed
}

// Parser reads dates against a month catalog
type Parser struct {
	months months.Resolver
}

// NewParser creates a parser resolving month names through r
func NewParser(r months.Resolver) *Parser {
	return &Parser{months: r}
}

// Parse reads "YYYY-MM-DD" or "[dayName] <day> <monthName> <year>" with
// Latin or Arabic-Indic digits. It never guesses: anything it cannot
// resolve is reported as StatusInvalid.
func (p *Parser) Parse(raw string) Result {
	s := strings.TrimSpace(digits.ToASCII(raw))
	if s == "" {
		return Result{Status: StatusAbsent}
	}

	if isISOShape(s) {
		return parseISO(s)
	}

	tokens := strings.Fields(s)
	if len(tokens) > 0 && isWeekday(tokens[0]) {
		tokens = tokens[1:]
	}
	if len(tokens) < 3 {
		return Result{Status: StatusInvalid}
	}

	day, ok := number(tokens[0])
	if !ok {
		return Result{Status: StatusInvalid}
	}
	monthIndex, ok := p.months.CalendarIndexForName(tokens[1])
	if !ok {
		return Result{Status: StatusInvalid}
	}
	year, ok := number(tokens[2])
	if !ok {
		return Result{Status: StatusInvalid}
	}

	return checked(CanonicalDate{Day: day, MonthIndex: monthIndex, Year: year})
}

// isISOShape matches ten characters split by hyphens at 4 and 7
func isISOShape(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}

func parseISO(s string) Result {
	year, okY := number(s[0:4])
	month, okM := number(s[5:7])
	day, okD := number(s[8:10])
	if !okY || !okM || !okD {
		return Result{Status: StatusInvalid}
	}
	return checked(CanonicalDate{Day: day, MonthIndex: month - 1, Year: year})
}

// number accepts ASCII digits only; signs and spaces are rejected
func number(token string) (int, bool) {
	if token == "" || len(token) > 9 {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(token)
	return n, err == nil
}

func checked(d CanonicalDate) Result {
	if !d.Valid() {
		return Result{Status: StatusInvalid}
	}
	return Result{Date: d, Status: StatusParsed}
}

func isWeekday(token string) bool {
	_, ok := weekdayIndex[norm.NFC.String(token)]
	return ok
}
