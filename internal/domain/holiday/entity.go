package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

const (
	DefaultType     = "national"
	DefaultCoverage = "all"
)

// Holiday entity. DayOfWeek is derived from Date and never trusted from storage.
type Holiday struct {
	ID        int
	Name      string
	Date      calendar.CalendarDate
	DayOfWeek string
	Type      string
	Coverage  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayOfWeek returns the English weekday name (Sunday..Saturday) of date.
func DayOfWeek(date calendar.CalendarDate) string {
	return date.Weekday().String()
}

// Derive recomputes the fields that depend on Date.
func (h Holiday) Derive() Holiday {
	h.DayOfWeek = DayOfWeek(h.Date)
	return h
}

// Calendar is an immutable snapshot of holiday dates.
type Calendar struct {
	dates map[calendar.CalendarDate]struct{}
}

func NewCalendar(holidays []Holiday) Calendar {
	dates := make(map[calendar.CalendarDate]struct{}, len(holidays))
	for _, h := range holidays {
		dates[h.Date] = struct{}{}
	}
	return Calendar{dates: dates}
}

func (c Calendar) IsNonWorkingDay(date calendar.CalendarDate) bool {
	_, ok := c.dates[date]
	return ok
}

func (c Calendar) Len() int {
	return len(c.dates)
}
