package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	LeaveType    string
	StartDate    calendar.CalendarDate
	EndDate      calendar.CalendarDate
	// NumberOfDays is the inclusive day count unless HalfDay overrides it to 1.
	NumberOfDays int
	HalfDay      bool
	Status       LeaveRequestStatus
	Reason       string

	// Decision
	DecisionComment *string
	DecidedBy       *string
	DecidedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

type QuotaSeverity string

const (
	QuotaSeverityOK        QuotaSeverity = "ok"
	QuotaSeverityWarn      QuotaSeverity = "warn"
	QuotaSeverityViolation QuotaSeverity = "violation"
)

// QuotaSignal is the advisory result of evaluating a candidate request
// against the employee's approved history.
type QuotaSignal struct {
	MonthlyCount int           `json:"monthly_count"`
	Severity     QuotaSeverity `json:"severity"`
	Message      string        `json:"message"`
}

// NonWorkingDays reports dates that do not count towards leave usage.
type NonWorkingDays interface {
	IsNonWorkingDay(date calendar.CalendarDate) bool
}

// HolidayCalendar loads the non-working days of a date range.
type HolidayCalendar interface {
	NonWorkingDays(ctx context.Context, from, to calendar.CalendarDate) (NonWorkingDays, error)
}
