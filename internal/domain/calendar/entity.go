package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// CalendarDate is a canonical Gregorian date with no time-of-day or zone.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// ClockTime is a time-of-day within a single calendar day.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// YearMonth is the bucket key used for monthly aggregation.
type YearMonth struct {
	Year  int
	Month int
}

const dateLayout = "2006-01-02"

// FromTime takes the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ClockFromTime takes the time-of-day of t in t's own location.
func ClockFromTime(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d == o }

func (d CalendarDate) AddDays(n int) CalendarDate {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the inclusive number of days from d to end, or 0 when end is before d.
func (d CalendarDate) DaysUntil(end CalendarDate) int {
	if end.Before(d) {
		return 0
	}
	return int(end.Time().Sub(d.Time()).Hours()/24) + 1
}

func (d CalendarDate) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// Weekday uses Sakamoto's method on the proleptic Gregorian calendar.
func (d CalendarDate) Weekday() time.Weekday {
	offsets := [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}
	y := d.Year
	if d.Month < 3 {
		y--
	}
	w := (y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) + offsets[d.Month-1] + d.Day) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts every shape NormalizeDate accepts.
func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := NormalizeDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c ClockTime) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

func (c ClockTime) Compare(o ClockTime) int {
	return sign(c.Seconds() - o.Seconds())
}

func (c ClockTime) Before(o ClockTime) bool { return c.Compare(o) < 0 }
func (c ClockTime) After(o ClockTime) bool  { return c.Compare(o) > 0 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := NormalizeTime(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
