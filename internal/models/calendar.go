package models

import (
	"fmt"
	"time"
)

// Dated is the only capability the calendar core needs from a record.
// DateText returns "" when the record has no date.
type Dated interface {
	DateText() string
}

// Redatable records can produce a copy of themselves carrying a new date
type Redatable[R any] interface {
	Dated
	WithDate(date string) R
}

// CustomMonthEntry is one user-editable month of the custom catalog
type CustomMonthEntry struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required,month_name"`
	Order     int       `json:"order" validate:"min=1,max=12"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity represents a theater activity of the school program
type Activity struct {
	ID          uint64    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	Date        *string   `db:"date" json:"date"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// DateText implements Dated
func (a Activity) DateText() string {
	if a.Date == nil {
		return ""
	}
	return *a.Date
}

// WithDate implements Redatable
func (a Activity) WithDate(date string) Activity {
	a.Date = &date
	return a
}

// Record is an opaque JSON object with a "date" field.
// Every other field is passed through untouched.
type Record map[string]any

// DateText implements Dated. A missing or null date is absent; any other
// non-string value is rendered as text so it is reported as invalid.
func (r Record) DateText() string {
	switch v := r["date"].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// WithDate implements Redatable; the receiver is left unchanged
func (r Record) WithDate(date string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	out["date"] = date
	return out
}
