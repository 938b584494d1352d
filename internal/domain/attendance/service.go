package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetDay returns the record of one employee-day with live work hours.
	// Asking for today with no record creates an absent record.
	GetDay(ctx context.Context, employeeID string, date any) (AttendanceResponse, error)

	// ListRange returns the employee's records between two dates (inclusive).
	ListRange(ctx context.Context, req ListAttendanceRequest) ([]AttendanceResponse, error)

	// CheckIn opens the day's session
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the day's session
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
}
