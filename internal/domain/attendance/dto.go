package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// Date and Time accept any encoding the calendar normalizer understands
// ("2024-06-01", [2024,6,1], "20240601", "09:05", "0905", ...). Empty means now.
type CheckInRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Date         any     `json:"date,omitempty"`
	Time         any     `json:"time,omitempty"`
	WorkLocation *string `json:"work_location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.WorkLocation != nil && !validator.IsInSlice(*r.WorkLocation, WorkLocationValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_location",
			Message: "work_location must be one of: head_office, branch_office, remote",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       any    `json:"date,omitempty"`
	Time       any    `json:"time,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	From       any    `json:"from"`
	To         any    `json:"to"`
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if IsBlank(r.From) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from is required",
		})
	}
	if IsBlank(r.To) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsBlank reports whether a raw date/time value was left out.
func IsBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && validator.IsEmpty(s)
}

type AttendanceResponse struct {
	ID           string                `json:"id,omitempty"`
	EmployeeID   string                `json:"employee_id"`
	Date         calendar.CalendarDate `json:"date"`
	CheckInTime  *string               `json:"check_in_time"`
	CheckOutTime *string               `json:"check_out_time"`
	WorkLocation *string               `json:"work_location,omitempty"`
	Status       string                `json:"status"`
	WorkHours    float64               `json:"work_hours"`
	CreatedAt    string                `json:"created_at,omitempty"`
	UpdatedAt    string                `json:"updated_at,omitempty"`
}

func NewAttendanceResponse(rec AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date,
		Status:     string(rec.Status),
		WorkHours:  rec.WorkHours,
	}
	if rec.CheckIn != nil {
		s := rec.CheckIn.String()
		resp.CheckInTime = &s
	}
	if rec.CheckOut != nil {
		s := rec.CheckOut.String()
		resp.CheckOutTime = &s
	}
	if rec.WorkLocation != nil {
		s := string(*rec.WorkLocation)
		resp.WorkLocation = &s
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
