package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, date,
	to_char(check_in, 'HH24:MI:SS'), to_char(check_out, 'HH24:MI:SS'),
	work_location, status, work_hours, created_at, updated_at`

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.CalendarDate) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in, check_out, work_location, status, work_hours
		) VALUES (
			$1, $2, $3, $4::time, $5::time, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date.Time(),
		clockParam(rec.CheckIn),
		clockParam(rec.CheckOut),
		locationParam(rec.WorkLocation),
		string(rec.Status),
		rec.WorkHours,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_in = $2::time,
			check_out = $3::time,
			work_location = $4,
			status = $5,
			work_hours = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := q.Exec(ctx, query,
		rec.ID,
		clockParam(rec.CheckIn),
		clockParam(rec.CheckOut),
		locationParam(rec.WorkLocation),
		string(rec.Status),
		rec.WorkHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to calendar.CalendarDate) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return records, nil
}

// WithDayLock implements attendance.AttendanceRepository.
func (a *attendanceRepository) WithDayLock(ctx context.Context, employeeID string, date calendar.CalendarDate, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, a.db, func(txCtx context.Context, tx pgx.Tx) error {
		if err := lockKey(txCtx, tx, "attendance|"+employeeID+"|"+date.String()); err != nil {
			return err
		}
		return fn(txCtx)
	})
}

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var (
		rec      attendance.AttendanceRecord
		date     time.Time
		checkIn  *string
		checkOut *string
		location *string
		status   string
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &date,
		&checkIn, &checkOut,
		&location, &status, &rec.WorkHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	rec.Date = calendar.FromTime(date)
	rec.Status = attendance.AttendanceStatus(status)
	if rec.CheckIn, err = clockValue(checkIn); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if rec.CheckOut, err = clockValue(checkOut); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if location != nil {
		l := attendance.WorkLocation(*location)
		rec.WorkLocation = &l
	}

	return rec, nil
}

func clockParam(c *calendar.ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

func clockValue(s *string) (*calendar.ClockTime, error) {
	if s == nil {
		return nil, nil
	}
	c, err := calendar.NormalizeTime(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func locationParam(l *attendance.WorkLocation) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
