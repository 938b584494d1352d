package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

const leaveRequestColumns = `
	id, employee_id, employee_name, leave_type, start_date, end_date, number_of_days, half_day,
	status, reason, decision_comment, decided_by, decided_at, created_at, updated_at`

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, employee_name, leave_type, start_date, end_date,
			number_of_days, half_day, status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.EmployeeName,
		request.LeaveType,
		request.StartDate.Time(),
		request.EndDate.Time(),
		request.NumberOfDays,
		request.HalfDay,
		string(request.Status),
		request.Reason,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return request, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY start_date ASC, created_at ASC
	`

	var statusParam *string
	if status != nil {
		s := string(*status)
		statusParam = &s
	}

	rows, err := q.Query(ctx, query, employeeID, statusParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, comment *string, decidedBy *string, decidedAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	// The status guard makes the transition happen at most once.
	query := `
		UPDATE leave_requests
		SET status = $2,
			decision_comment = $3,
			decided_by = $4,
			decided_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING` + leaveRequestColumns

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id, string(status), comment, decidedBy, decidedAt))
	if err == nil {
		return request, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check leave request: %w", err)
	}
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		request   leave.LeaveRequest
		startDate time.Time
		endDate   time.Time
		status    string
	)

	err := row.Scan(
		&request.ID,
		&request.EmployeeID,
		&request.EmployeeName,
		&request.LeaveType,
		&startDate,
		&endDate,
		&request.NumberOfDays,
		&request.HalfDay,
		&status,
		&request.Reason,
		&request.DecisionComment,
		&request.DecidedBy,
		&request.DecidedAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.StartDate = calendar.FromTime(startDate)
	request.EndDate = calendar.FromTime(endDate)
	request.Status = leave.LeaveRequestStatus(status)
	return request, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
