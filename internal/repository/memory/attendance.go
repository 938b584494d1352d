package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

type dayKey struct {
	employeeID string
	date       calendar.CalendarDate
}

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[dayKey]attendance.AttendanceRecord
	locks   *keyedMutex[dayKey]
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.CalendarDate) (*attendance.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[dayKey{employeeID, date}]
	if !ok {
		return nil, nil
	}
	return cloneAttendance(rec), nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{rec.EmployeeID, rec.Date}
	if _, exists := r.records[key]; exists {
		return attendance.AttendanceRecord{}, ErrDuplicateKey
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.records[key] = *cloneAttendance(rec)
	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.AttendanceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{rec.EmployeeID, rec.Date}
	stored, ok := r.records[key]
	if !ok || stored.ID != rec.ID {
		return attendance.ErrAttendanceNotFound
	}

	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	r.records[key] = *cloneAttendance(rec)
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to calendar.CalendarDate) ([]attendance.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.AttendanceRecord
	for key, rec := range r.records {
		if key.employeeID != employeeID || key.date.Before(from) || key.date.After(to) {
			continue
		}
		out = append(out, *cloneAttendance(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// WithDayLock implements attendance.AttendanceRepository.
func (r *attendanceRepository) WithDayLock(ctx context.Context, employeeID string, date calendar.CalendarDate, fn func(ctx context.Context) error) error {
	unlock := r.locks.Lock(dayKey{employeeID, date})
	defer unlock()
	return fn(ctx)
}

func cloneAttendance(rec attendance.AttendanceRecord) *attendance.AttendanceRecord {
	if rec.CheckIn != nil {
		c := *rec.CheckIn
		rec.CheckIn = &c
	}
	if rec.CheckOut != nil {
		c := *rec.CheckOut
		rec.CheckOut = &c
	}
	if rec.WorkLocation != nil {
		l := *rec.WorkLocation
		rec.WorkLocation = &l
	}
	return &rec
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[dayKey]attendance.AttendanceRecord),
		locks:   newKeyedMutex[dayKey](),
	}
}
