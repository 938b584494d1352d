package attendance

import "errors"

// Attendance domain errors
var (
	// Session errors
	ErrAlreadyCheckedIn      = errors.New("you have already checked in today")
	ErrNoOpenSession         = errors.New("there is no open attendance session for this day")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is earlier than check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
)
