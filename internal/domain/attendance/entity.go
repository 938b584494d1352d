package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusHalfDay AttendanceStatus = "half-day"
	AttendanceStatusLate    AttendanceStatus = "late"
)

type WorkLocation string

const (
	WorkLocationHeadOffice   WorkLocation = "head_office"
	WorkLocationBranchOffice WorkLocation = "branch_office"
	WorkLocationRemote       WorkLocation = "remote"
)

var WorkLocationValues = []string{
	string(WorkLocationHeadOffice),
	string(WorkLocationBranchOffice),
	string(WorkLocationRemote),
}

// AttendanceRecord is one employee's attendance for one calendar day.
// CheckOut is only ever set together with CheckIn, and WorkHours is derived.
type AttendanceRecord struct {
	ID           string
	EmployeeID   string
	Date         calendar.CalendarDate
	CheckIn      *calendar.ClockTime
	CheckOut     *calendar.ClockTime
	WorkLocation *WorkLocation
	Status       AttendanceStatus
	WorkHours    float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AttendancePolicy holds the thresholds status derivation depends on.
type AttendancePolicy struct {
	// LateThreshold is the time-of-day after which a check-in counts as late.
	LateThreshold calendar.ClockTime
	// HalfDayThreshold is in hours; closed sessions shorter than it are half-days.
	HalfDayThreshold float64
}

func DefaultPolicy() AttendancePolicy {
	return AttendancePolicy{
		LateThreshold:    calendar.ClockTime{Hour: 9, Minute: 30},
		HalfDayThreshold: 4.5,
	}
}
