package deliverables

import (
	"fmt"
	"time"
)

// =============================================================================
// BUSINESS DATE - Date-only value pinned to the reference timezone
// =============================================================================

// ReferenceZoneName pins all week-boundary math to a single operator
// timezone. Every operator sees identical week boundaries regardless of
// where they are; the executing machine's local timezone is never used.
const ReferenceZoneName = "America/New_York"

var referenceZone = mustZone(ReferenceZoneName)

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load reference timezone %q: %v", name, err))
	}
	return loc
}

// BusinessDate is a calendar date with no time-of-day component.
// Completion events and week boundaries are keyed by BusinessDate so a
// completion logged at 11pm Friday in one office and 2am Saturday in
// another never lands in different weeks.
type BusinessDate struct {
	Time time.Time // always midnight UTC; the date fields are what matter
}

func NewDate(year int, month time.Month, day int) BusinessDate {
	return BusinessDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf converts an instant to the business date it falls on when viewed
// in the reference timezone.
func DateOf(t time.Time) BusinessDate {
	y, m, d := t.In(referenceZone).Date()
	return NewDate(y, m, d)
}

// Today returns the current business date in the reference timezone.
func Today() BusinessDate {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (BusinessDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return BusinessDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return BusinessDate{Time: t}, nil
}

// Comparison
func (d BusinessDate) Before(other BusinessDate) bool        { return d.Time.Before(other.Time) }
func (d BusinessDate) After(other BusinessDate) bool         { return d.Time.After(other.Time) }
func (d BusinessDate) Equal(other BusinessDate) bool         { return d.Time.Equal(other.Time) }
func (d BusinessDate) BeforeOrEqual(other BusinessDate) bool { return !d.After(other) }
func (d BusinessDate) AfterOrEqual(other BusinessDate) bool  { return !d.Before(other) }
func (d BusinessDate) IsZero() bool                          { return d.Time.IsZero() }

// Arithmetic
func (d BusinessDate) AddDays(n int) BusinessDate { return BusinessDate{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d BusinessDate) Weekday() time.Weekday { return d.Time.Weekday() }
func (d BusinessDate) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d BusinessDate) String() string { return d.Time.Format("2006-01-02") }

// MarshalJSON renders the date as a bare YYYY-MM-DD string.
func (d BusinessDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *BusinessDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: want a quoted YYYY-MM-DD string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the signed number of calendar days from -> to.
func DaysBetween(from, to BusinessDate) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// =============================================================================
// BUSINESS WEEK - Monday through Friday, exactly five days
// =============================================================================

// MondayOf rounds a date down to the Monday of its ISO week.
func MondayOf(d BusinessDate) BusinessDate {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}

// FridayOf returns the Friday of a week given its Monday. The business
// week is exactly Monday through Friday; Saturday and Sunday are not
// covered by any weekly window.
func FridayOf(monday BusinessDate) BusinessDate {
	return monday.AddDays(4)
}

func PriorMonday(monday BusinessDate) BusinessDate { return monday.AddDays(-7) }

func AddWeeks(monday BusinessDate, n int) BusinessDate { return monday.AddDays(7 * n) }

// DaysLeftInWeek returns the number of workdays remaining in the week of
// selectedMonday as seen from today.
//
//   - Fully future week: 5 (nothing has elapsed yet).
//   - Fully past week: 1. Not a literal count; callers divide remaining
//     work by this value and a past week must not divide by zero.
//   - Otherwise: weekday distance from today to that Friday, inclusive,
//     with a floor of 1.
func DaysLeftInWeek(selectedMonday, today BusinessDate) int {
	if today.Before(selectedMonday) {
		return 5
	}
	friday := FridayOf(selectedMonday)
	if today.After(friday) {
		return 1
	}
	left := DaysBetween(today, friday) + 1
	if left < 1 {
		left = 1
	}
	return left
}

// RemainingWeekdays returns the unelapsed weekdays of the week anchored at
// monday, as seen from today. If the whole week has elapsed it returns the
// five weekdays of the following week, so a plan always has somewhere to
// land.
func RemainingWeekdays(monday, today BusinessDate) []BusinessDate {
	var days []BusinessDate
	for i := 0; i < 5; i++ {
		d := monday.AddDays(i)
		if d.AfterOrEqual(today) {
			days = append(days, d)
		}
	}
	if len(days) > 0 {
		return days
	}
	next := AddWeeks(monday, 1)
	for i := 0; i < 5; i++ {
		days = append(days, next.AddDays(i))
	}
	return days
}
