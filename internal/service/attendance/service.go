package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock    clockwork.Clock
	location *time.Location
	policy   attendance.AttendancePolicy
}

// now returns today's date and the current time-of-day in the configured zone.
func (a *AttendanceServiceImpl) now() (calendar.CalendarDate, calendar.ClockTime) {
	t := a.clock.Now().In(a.location)
	return calendar.FromTime(t), calendar.ClockFromTime(t)
}

func (a *AttendanceServiceImpl) resolveDate(raw any, today calendar.CalendarDate) (calendar.CalendarDate, error) {
	if attendance.IsBlank(raw) {
		return today, nil
	}
	date, err := calendar.NormalizeDate(raw)
	if err != nil {
		slog.Warn("Failed to normalize attendance date", "raw", raw, "error", err)
		return calendar.CalendarDate{}, err
	}
	return date, nil
}

func (a *AttendanceServiceImpl) resolveTime(raw any, now calendar.ClockTime) (calendar.ClockTime, error) {
	if attendance.IsBlank(raw) {
		return now, nil
	}
	at, err := calendar.NormalizeTime(raw)
	if err != nil {
		slog.Warn("Failed to normalize attendance time", "raw", raw, "error", err)
		return calendar.ClockTime{}, err
	}
	return at, nil
}

func (a *AttendanceServiceImpl) newRecord(employeeID string, date calendar.CalendarDate) attendance.AttendanceRecord {
	now := a.clock.Now().UTC()
	return attendance.AttendanceRecord{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.AttendanceStatusAbsent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// GetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID string, rawDate any) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}

	today, nowClock := a.now()
	date, err := a.resolveDate(rawDate, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if rec == nil {
		if date != today {
			blank := attendance.AttendanceRecord{
				EmployeeID: employeeID,
				Date:       date,
				Status:     attendance.AttendanceStatusAbsent,
			}
			return attendance.NewAttendanceResponse(blank), nil
		}

		// First query of the day materializes the absent record.
		err = a.AttendanceRepository.WithDayLock(ctx, employeeID, date, func(ctx context.Context) error {
			existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
			if err != nil {
				return err
			}
			if existing != nil {
				rec = existing
				return nil
			}
			created, err := a.AttendanceRepository.Create(ctx, a.newRecord(employeeID, date))
			if err != nil {
				return err
			}
			rec = &created
			return nil
		})
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create today's attendance: %w", err)
		}
	}

	refreshed := Refresh(*rec, nowClock, date == today, a.policy)
	return attendance.NewAttendanceResponse(refreshed), nil
}

// ListRange implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRange(ctx context.Context, req attendance.ListAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	today, nowClock := a.now()
	from, err := a.resolveDate(req.From, today)
	if err != nil {
		return nil, err
	}
	to, err := a.resolveDate(req.To, today)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, attendance.ErrInvalidDateRange
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, req.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		refreshed := Refresh(rec, nowClock, rec.Date == today, a.policy)
		responses = append(responses, attendance.NewAttendanceResponse(refreshed))
	}
	return responses, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	today, nowClock := a.now()
	date, err := a.resolveDate(req.Date, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	at, err := a.resolveTime(req.Time, nowClock)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var location *attendance.WorkLocation
	if req.WorkLocation != nil {
		l := attendance.WorkLocation(*req.WorkLocation)
		location = &l
	}

	var result attendance.AttendanceRecord
	err = a.AttendanceRepository.WithDayLock(ctx, req.EmployeeID, date, func(ctx context.Context) error {
		current, exists, err := a.load(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		updated, err := RecordCheckIn(current, at, location, a.policy)
		if err != nil {
			return err
		}
		updated.UpdatedAt = a.clock.Now().UTC()

		result, err = a.save(ctx, updated, exists)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked in",
		"employee_id", req.EmployeeID,
		"date", date.String(),
		"time", at.String(),
		"status", result.Status,
	)

	return attendance.NewAttendanceResponse(Refresh(result, nowClock, date == today, a.policy)), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	today, nowClock := a.now()
	date, err := a.resolveDate(req.Date, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	at, err := a.resolveTime(req.Time, nowClock)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var result attendance.AttendanceRecord
	err = a.AttendanceRepository.WithDayLock(ctx, req.EmployeeID, date, func(ctx context.Context) error {
		current, exists, err := a.load(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		updated, err := RecordCheckOut(current, at, a.policy)
		if err != nil {
			return err
		}
		updated.UpdatedAt = a.clock.Now().UTC()

		result, err = a.save(ctx, updated, exists)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked out",
		"employee_id", req.EmployeeID,
		"date", date.String(),
		"time", at.String(),
		"status", result.Status,
		"work_hours", result.WorkHours,
	)

	return attendance.NewAttendanceResponse(result), nil
}

// load returns the stored record of the day, or a fresh absent one.
func (a *AttendanceServiceImpl) load(ctx context.Context, employeeID string, date calendar.CalendarDate) (attendance.AttendanceRecord, bool, error) {
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceRecord{}, false, fmt.Errorf("failed to get attendance: %w", err)
	}
	if rec == nil {
		return a.newRecord(employeeID, date), false, nil
	}
	return *rec, true, nil
}

func (a *AttendanceServiceImpl) save(ctx context.Context, rec attendance.AttendanceRecord, exists bool) (attendance.AttendanceRecord, error) {
	if !exists {
		created, err := a.AttendanceRepository.Create(ctx, rec)
		if err != nil {
			return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance: %w", err)
		}
		return created, nil
	}

	if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return rec, nil
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	clock clockwork.Clock,
	location *time.Location,
	policy attendance.AttendancePolicy,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		clock:                clock,
		location:             location,
		policy:               policy,
	}
}
