package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

// Registry owns holiday CRUD. Every holiday it writes or returns has its
// DayOfWeek recomputed from its Date.
type Registry struct {
	repo holiday.HolidayRepository
}

// Add implements holiday.HolidayService.
func (r *Registry) Add(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := calendar.NormalizeDate(req.Date)
	if err != nil {
		slog.Warn("Failed to normalize holiday date", "raw", req.Date, "error", err)
		return holiday.HolidayResponse{}, err
	}

	h := holiday.Holiday{
		Name:     strings.TrimSpace(req.Name),
		Date:     date,
		Type:     orDefault(req.Type, holiday.DefaultType),
		Coverage: orDefault(req.Coverage, holiday.DefaultCoverage),
	}

	created, err := r.repo.Create(ctx, h.Derive())
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday.NewHolidayResponse(created), nil
}

// Update implements holiday.HolidayService.
func (r *Registry) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	h, err := r.repo.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		date, err := calendar.NormalizeDate(req.Date)
		if err != nil {
			slog.Warn("Failed to normalize holiday date", "raw", req.Date, "error", err)
			return holiday.HolidayResponse{}, err
		}
		h.Date = date
	}
	if req.Type != nil {
		h.Type = orDefault(*req.Type, holiday.DefaultType)
	}
	if req.Coverage != nil {
		h.Coverage = orDefault(*req.Coverage, holiday.DefaultCoverage)
	}

	updated, err := r.repo.Update(ctx, h.Derive())
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	return holiday.NewHolidayResponse(updated), nil
}

// Remove implements holiday.HolidayService.
func (r *Registry) Remove(ctx context.Context, id int) error {
	return r.repo.Delete(ctx, id)
}

// Get implements holiday.HolidayService.
func (r *Registry) Get(ctx context.Context, id int) (holiday.HolidayResponse, error) {
	h, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return holiday.NewHolidayResponse(h), nil
}

// List implements holiday.HolidayService.
func (r *Registry) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	from, to, err := filter.Bounds()
	if err != nil {
		return nil, err
	}

	holidays, err := r.repo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// ListRange implements holiday.HolidayService.
func (r *Registry) ListRange(ctx context.Context, from, to calendar.CalendarDate) ([]holiday.Holiday, error) {
	if to.Before(from) {
		return nil, holiday.ErrInvalidDateRange
	}

	holidays, err := r.repo.List(ctx, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	for i := range holidays {
		holidays[i] = holidays[i].Derive()
	}
	return holidays, nil
}

// IsNonWorkingDay implements holiday.HolidayService.
func (r *Registry) IsNonWorkingDay(ctx context.Context, date calendar.CalendarDate) (bool, error) {
	cal, err := r.Calendar(ctx, date, date)
	if err != nil {
		return false, err
	}
	return cal.IsNonWorkingDay(date), nil
}

// Calendar implements holiday.HolidayService.
func (r *Registry) Calendar(ctx context.Context, from, to calendar.CalendarDate) (holiday.Calendar, error) {
	holidays, err := r.ListRange(ctx, from, to)
	if err != nil {
		return holiday.Calendar{}, err
	}
	return holiday.NewCalendar(holidays), nil
}

// NonWorkingDays implements leave.HolidayCalendar.
func (r *Registry) NonWorkingDays(ctx context.Context, from, to calendar.CalendarDate) (leave.NonWorkingDays, error) {
	return r.Calendar(ctx, from, to)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func NewRegistry(repo holiday.HolidayRepository) *Registry {
	return &Registry{repo: repo}
}

var (
	_ holiday.HolidayService = (*Registry)(nil)
	_ leave.HolidayCalendar  = (*Registry)(nil)
)
