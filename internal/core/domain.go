package core

import (
	"errors"
	"time"
)

const (
	FY23 FiscalYear = "FY23"
	FY24 FiscalYear = "FY24"
	FY25 FiscalYear = "FY25"
	FY26 FiscalYear = "FY26"

	// FYUnknown labels encounters without a usable date.
	FYUnknown FiscalYear = "UNKNOWN"
)

const dateLayout = "2006-01-02"

type (
	// FiscalYear is an Oct-Sep accounting year label such as "FY24".
	FiscalYear string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Encounter is one coerced export row. A zero Date means the source
	// value was missing or unparseable.
	Encounter struct {
		Date        Date
		Code        string
		DurationMin float64
		Billable    string // trimmed, lowercase
		Status      string // trimmed, lowercase
		Facility    string
		Type        string
	}

	// DerivedEncounter is an Encounter with its billing applied.
	DerivedEncounter struct {
		Encounter
		FiscalYear FiscalYear
		Month      Date // first day of the encounter's month
		Units      int
		Rate       Money
		Revenue    Money
	}
)

var ErrInvalidAmount = errors.New("invalid amount")

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty reports whether the date is missing.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MonthStart returns the first day of the date's calendar month.
// A missing date stays missing.
func (d Date) MonthStart() Date {
	if d.IsZero() {
		return Date{}
	}
	return NewDate(d.Year(), d.Month(), 1)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// String renders the date as YYYY-MM-DD, or "" when missing.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// ParseISODate parses a YYYY-MM-DD value.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when missing.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("date must be a JSON string")
	}
	parsed, err := ParseISODate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
