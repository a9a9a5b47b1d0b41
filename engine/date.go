package engine

import (
	"time"
)

// =============================================================================
// DATE - Calendar date without time-of-day semantics
// =============================================================================

// Date is a day-granularity calendar date. All policy and receipt dates are
// calendar dates: "2024-01-31" means the same receipt due day everywhere,
// with no timezone shift. The zero value is the invalid/absent sentinel.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
// Malformed input returns the zero Date; callers check IsZero before use.
// Date math never fails for business logic reasons.
func ParseDate(s string) Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// FromTime truncates a full timestamp to its calendar date.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.normalize().AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.normalize().AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.normalize().AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// DaysBetween returns the whole days from `from` to `to`, both normalized to
// midnight before subtraction. Negative means `to` is in the past relative
// to `from`. Leap days fall out of the subtraction; nothing re-derives them.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
