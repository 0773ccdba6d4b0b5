// Package months holds the Moroccan month names and the user-editable
// custom month catalog that overrides them.
package months

// CalendarOrder is the built-in catalog, January first
var CalendarOrder = [12]string{
	"يناير",
	"فبراير",
	"مارس",
	"أبريل",
	"ماي",
	"يونيو",
	"يوليوز",
	"غشت",
	"شتنبر",
	"أكتوبر",
	"نونبر",
	"دجنبر",
}

// AcademicOrder is the school year sequence, September first
var AcademicOrder = [12]string{
	"شتنبر",
	"أكتوبر",
	"نونبر",
	"دجنبر",
	"يناير",
	"فبراير",
	"مارس",
	"أبريل",
	"ماي",
	"يونيو",
	"يوليوز",
	"غشت",
}

// AcademicStartIndex is the calendar index of the first school month (September)
const AcademicStartIndex = 8

// AcademicPosition returns where a calendar month index (0-11) falls in the
// school year, September being 0 and August 11
func AcademicPosition(monthIndex int) int {
	return ((monthIndex-AcademicStartIndex)%12 + 12) % 12
}

// CalendarIndexAt is the inverse of AcademicPosition
func CalendarIndexAt(position int) int {
	return ((position+AcademicStartIndex)%12 + 12) % 12
}
