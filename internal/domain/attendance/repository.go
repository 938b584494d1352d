package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil without error when the day has no record yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.CalendarDate) (*AttendanceRecord, error)

	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	Update(ctx context.Context, record AttendanceRecord) error

	// ListByEmployee returns records with from <= date <= to, ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, from, to calendar.CalendarDate) ([]AttendanceRecord, error)

	// WithDayLock runs fn while no other mutation of the same employee-day can run.
	// Repository calls made with the ctx passed to fn take part in the same unit of work.
	WithDayLock(ctx context.Context, employeeID string, date calendar.CalendarDate, fn func(ctx context.Context) error) error
}
