package attendance

import (
	"math"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

// DeriveStatus maps a day's check-in/check-out pair to a status.
// Lateness is decided at check-in and survives check-out, so a late
// short day stays late rather than half-day.
func DeriveStatus(checkIn, checkOut *calendar.ClockTime, policy attendance.AttendancePolicy) attendance.AttendanceStatus {
	if checkIn == nil {
		return attendance.AttendanceStatusAbsent
	}
	if checkIn.After(policy.LateThreshold) {
		return attendance.AttendanceStatusLate
	}
	if checkOut != nil && closedHours(*checkIn, *checkOut) < policy.HalfDayThreshold {
		return attendance.AttendanceStatusHalfDay
	}
	return attendance.AttendanceStatusPresent
}

// ComputeWorkHours returns the worked hours of a session.
// A closed session is rounded to whole minutes. An open session only
// accrues time while its day is today; a past day left open counts 0.
func ComputeWorkHours(checkIn, checkOut *calendar.ClockTime, now calendar.ClockTime, isToday bool) float64 {
	switch {
	case checkIn == nil:
		return 0
	case checkOut != nil:
		return closedHours(*checkIn, *checkOut)
	case !isToday:
		return 0
	}

	elapsed := now.Seconds() - checkIn.Seconds()
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / 3600
}

func closedHours(checkIn, checkOut calendar.ClockTime) float64 {
	minutes := math.Round(float64(checkOut.Seconds()-checkIn.Seconds()) / 60)
	if minutes < 0 {
		return 0
	}
	return minutes / 60
}

// RecordCheckIn opens the day's session at the given time.
func RecordCheckIn(rec attendance.AttendanceRecord, at calendar.ClockTime, loc *attendance.WorkLocation, policy attendance.AttendancePolicy) (attendance.AttendanceRecord, error) {
	if rec.CheckIn != nil {
		return rec, attendance.ErrAlreadyCheckedIn
	}

	rec.CheckIn = &at
	rec.CheckOut = nil
	if loc != nil {
		l := *loc
		rec.WorkLocation = &l
	}
	rec.Status = DeriveStatus(rec.CheckIn, nil, policy)
	rec.WorkHours = 0
	return rec, nil
}

// RecordCheckOut closes the open session of the day.
func RecordCheckOut(rec attendance.AttendanceRecord, at calendar.ClockTime, policy attendance.AttendancePolicy) (attendance.AttendanceRecord, error) {
	if rec.CheckIn == nil || rec.CheckOut != nil {
		return rec, attendance.ErrNoOpenSession
	}
	if at.Before(*rec.CheckIn) {
		return rec, attendance.ErrCheckOutBeforeCheckIn
	}

	rec.CheckOut = &at
	rec.Status = keepLate(rec, DeriveStatus(rec.CheckIn, rec.CheckOut, policy))
	rec.WorkHours = ComputeWorkHours(rec.CheckIn, rec.CheckOut, at, false)
	return rec, nil
}

// Refresh re-derives status and work hours for display.
func Refresh(rec attendance.AttendanceRecord, now calendar.ClockTime, isToday bool, policy attendance.AttendancePolicy) attendance.AttendanceRecord {
	rec.Status = keepLate(rec, DeriveStatus(rec.CheckIn, rec.CheckOut, policy))
	rec.WorkHours = ComputeWorkHours(rec.CheckIn, rec.CheckOut, now, isToday)
	return rec
}

// keepLate stops a stored late mark from being cleared when the
// threshold has since moved.
func keepLate(rec attendance.AttendanceRecord, derived attendance.AttendanceStatus) attendance.AttendanceStatus {
	if rec.CheckIn != nil && rec.Status == attendance.AttendanceStatusLate {
		return attendance.AttendanceStatusLate
	}
	return derived
}
