package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

var LeaveRequestStatusValues = []string{
	string(LeaveRequestStatusPending),
	string(LeaveRequestStatusApproved),
	string(LeaveRequestStatusRejected),
}

// isBlank reports whether a raw date value was left out.
func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && validator.IsEmpty(s)
}

// Dates accept any encoding the calendar normalizer understands.
type CreateLeaveRequestRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	LeaveType    string `json:"leave_type"`
	StartDate    any    `json:"start_date"`
	EndDate      any    `json:"end_date"`
	HalfDay      bool   `json:"half_day"`
	Reason       string `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if isBlank(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}

	if isBlank(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}

	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, LeaveRequestStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveLeaveRequestRequest struct {
	ID        string  `json:"-"`
	Comment   *string `json:"comment,omitempty"`
	DecidedBy *string `json:"-"`
}

type RejectLeaveRequestRequest struct {
	ID        string  `json:"-"`
	Comment   string  `json:"comment"`
	DecidedBy *string `json:"-"`
}

// LeaveRequestPayload is a leave request as an upstream caller sends it,
// with dates in any raw encoding.
type LeaveRequestPayload struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	LeaveType       string  `json:"leave_type"`
	StartDate       any     `json:"start_date"`
	EndDate         any     `json:"end_date"`
	NumberOfDays    *int    `json:"number_of_days,omitempty"`
	HalfDay         bool    `json:"half_day"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason"`
	DecisionComment *string `json:"decision_comment,omitempty"`
}

// ToEntity normalizes the payload. Normalization failures keep their raw value.
func (p LeaveRequestPayload) ToEntity() (LeaveRequest, error) {
	start, err := calendar.NormalizeDate(p.StartDate)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("start_date of leave request %q: %w", p.ID, err)
	}
	end, err := calendar.NormalizeDate(p.EndDate)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("end_date of leave request %q: %w", p.ID, err)
	}
	if end.Before(start) {
		return LeaveRequest{}, ErrInvalidDateRange
	}

	status := LeaveRequestStatus(p.Status)
	if p.Status == "" {
		status = LeaveRequestStatusPending
	} else if !validator.IsInSlice(p.Status, LeaveRequestStatusValues) {
		return LeaveRequest{}, validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		}}
	}

	days := start.DaysUntil(end)
	if p.HalfDay {
		days = 1
	}
	if p.NumberOfDays != nil {
		days = *p.NumberOfDays
	}

	return LeaveRequest{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.EmployeeName,
		LeaveType:       p.LeaveType,
		StartDate:       start,
		EndDate:         end,
		NumberOfDays:    days,
		HalfDay:         p.HalfDay,
		Status:          status,
		Reason:          p.Reason,
		DecisionComment: p.DecisionComment,
	}, nil
}

type EvaluateRequest struct {
	Candidate       LeaveRequestPayload   `json:"candidate"`
	EmployeeHistory []LeaveRequestPayload `json:"employee_history"`
}

func (r *EvaluateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Candidate.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "candidate.employee_id",
			Message: "candidate employee_id is required",
		})
	}

	if isBlank(r.Candidate.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "candidate.start_date",
			Message: "candidate start_date is required",
		})
	}

	if isBlank(r.Candidate.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "candidate.end_date",
			Message: "candidate end_date is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID              string                `json:"id"`
	EmployeeID      string                `json:"employee_id"`
	EmployeeName    string                `json:"employee_name"`
	LeaveType       string                `json:"leave_type"`
	StartDate       calendar.CalendarDate `json:"start_date"`
	EndDate         calendar.CalendarDate `json:"end_date"`
	NumberOfDays    int                   `json:"number_of_days"`
	HalfDay         bool                  `json:"half_day"`
	Status          string                `json:"status"`
	Reason          string                `json:"reason"`
	DecisionComment *string               `json:"decision_comment,omitempty"`
	DecidedBy       *string               `json:"decided_by,omitempty"`
	DecidedAt       *string               `json:"decided_at,omitempty"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		NumberOfDays:    r.NumberOfDays,
		HalfDay:         r.HalfDay,
		Status:          string(r.Status),
		Reason:          r.Reason,
		DecisionComment: r.DecisionComment,
		DecidedBy:       r.DecidedBy,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}
