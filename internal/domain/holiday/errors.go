package holiday

import "errors"

var (
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrInvalidDateRange = errors.New("to must not be before from")
)
