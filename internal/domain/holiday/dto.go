package holiday

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && validator.IsEmpty(s)
}

type CreateHolidayRequest struct {
	Name     string `json:"name"`
	Date     any    `json:"date"`
	Type     string `json:"type"`
	Coverage string `json:"coverage"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if isBlank(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateHolidayRequest struct {
	ID       int     `json:"-"`
	Name     *string `json:"name,omitempty"`
	Date     any     `json:"date,omitempty"`
	Type     *string `json:"type,omitempty"`
	Coverage *string `json:"coverage,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a positive number",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HolidayFilter bounds are optional and accept any raw date encoding.
type HolidayFilter struct {
	From any `json:"from,omitempty"`
	To   any `json:"to,omitempty"`
}

// Bounds normalizes the filter. Blank bounds come back nil.
func (f HolidayFilter) Bounds() (from, to *calendar.CalendarDate, err error) {
	if !isBlank(f.From) {
		d, err := calendar.NormalizeDate(f.From)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if !isBlank(f.To) {
		d, err := calendar.NormalizeDate(f.To)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrInvalidDateRange
	}
	return from, to, nil
}

type HolidayResponse struct {
	ID        int                   `json:"id"`
	Name      string                `json:"name"`
	Date      calendar.CalendarDate `json:"date"`
	DayOfWeek string                `json:"day_of_week"`
	Type      string                `json:"type"`
	Coverage  string                `json:"coverage"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID,
		Name:      h.Name,
		Date:      h.Date,
		DayOfWeek: DayOfWeek(h.Date),
		Type:      h.Type,
		Coverage:  h.Coverage,
	}
}
