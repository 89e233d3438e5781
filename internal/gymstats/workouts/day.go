package workouts

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// Day is a calendar day, independent of any time zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day [%s]: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Noon is the instant a record logged for this day is stamped with.
// Twelve hours of slack keep the day stable when read back in a nearby zone.
func (d Day) Noon(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.utc().AddDate(0, 0, n), time.UTC)
}

func (d Day) Before(other Day) bool {
	return d.utc().Before(other.utc())
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b Day) int {
	return int(b.utc().Sub(a.utc()).Hours() / 24)
}

func (d Day) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
