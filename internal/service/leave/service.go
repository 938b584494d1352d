package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	evaluator *QuotaEvaluator
	holidays  leave.HolidayCalendar
	clock     clockwork.Clock
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, err := calendar.NormalizeDate(req.StartDate)
	if err != nil {
		slog.Warn("Failed to normalize leave start date", "raw", req.StartDate, "error", err)
		return leave.LeaveRequestResponse{}, err
	}
	end, err := calendar.NormalizeDate(req.EndDate)
	if err != nil {
		slog.Warn("Failed to normalize leave end date", "raw", req.EndDate, "error", err)
		return leave.LeaveRequestResponse{}, err
	}

	if end.Before(start) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	days := start.DaysUntil(end)
	if req.HalfDay {
		if start != end {
			return leave.LeaveRequestResponse{}, leave.ErrInvalidHalfDay
		}
		days = 1
	}

	now := s.clock.Now().UTC()
	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		ID:           uuid.New().String(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		LeaveType:    req.LeaveType,
		StartDate:    start,
		EndDate:      end,
		NumberOfDays: days,
		HalfDay:      req.HalfDay,
		Status:       leave.LeaveRequestStatusPending,
		Reason:       req.Reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request created",
		"leave_request_id", created.ID,
		"employee_id", created.EmployeeID,
		"start_date", created.StartDate.String(),
		"end_date", created.EndDate.String(),
		"number_of_days", created.NumberOfDays,
	)

	return leave.NewLeaveRequestResponse(created), nil
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	req, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(req), nil
}

// ListByEmployee implements leave.LeaveService.
func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var status *leave.LeaveRequestStatus
	if filter.Status != nil {
		st := leave.LeaveRequestStatus(*filter.Status)
		status = &st
	}

	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	var comment *string
	if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
		c := strings.TrimSpace(*req.Comment)
		comment = &c
	}
	return s.decide(ctx, req.ID, leave.LeaveRequestStatusApproved, comment, req.DecidedBy)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return leave.LeaveRequestResponse{}, leave.ErrDecisionCommentRequired
	}
	return s.decide(ctx, req.ID, leave.LeaveRequestStatusRejected, &comment, req.DecidedBy)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, id string, status leave.LeaveRequestStatus, comment, decidedBy *string) (leave.LeaveRequestResponse, error) {
	current, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !current.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	decided, err := s.LeaveRequestRepository.Decide(ctx, id, status, comment, decidedBy, s.clock.Now().UTC())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request decided",
		"leave_request_id", id,
		"status", status,
		"decided_by", decidedBy,
	)

	return leave.NewLeaveRequestResponse(decided), nil
}

// EvaluateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) EvaluateRequest(ctx context.Context, id string) (leave.QuotaSignal, error) {
	candidate, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.QuotaSignal{}, err
	}

	approved := leave.LeaveRequestStatusApproved
	history, err := s.LeaveRequestRepository.ListByEmployee(ctx, candidate.EmployeeID, &approved)
	if err != nil {
		return leave.QuotaSignal{}, fmt.Errorf("failed to load leave history: %w", err)
	}

	return s.evaluate(ctx, candidate, history)
}

// Evaluate implements leave.LeaveService.
func (s *LeaveServiceImpl) Evaluate(ctx context.Context, req leave.EvaluateRequest) (leave.QuotaSignal, error) {
	if err := req.Validate(); err != nil {
		return leave.QuotaSignal{}, err
	}

	candidate, err := req.Candidate.ToEntity()
	if err != nil {
		slog.Warn("Failed to normalize leave candidate", "error", err)
		return leave.QuotaSignal{}, err
	}

	history := make([]leave.LeaveRequest, 0, len(req.EmployeeHistory))
	for _, payload := range req.EmployeeHistory {
		entry, err := payload.ToEntity()
		if err != nil {
			slog.Warn("Failed to normalize leave history entry", "leave_request_id", payload.ID, "error", err)
			return leave.QuotaSignal{}, err
		}
		history = append(history, entry)
	}

	return s.evaluate(ctx, candidate, history)
}

func (s *LeaveServiceImpl) evaluate(ctx context.Context, candidate leave.LeaveRequest, history []leave.LeaveRequest) (leave.QuotaSignal, error) {
	evaluator := s.evaluator
	if s.holidays != nil {
		// Only the candidate's month is counted, so only its holidays matter.
		from := calendar.CalendarDate{Year: candidate.StartDate.Year, Month: candidate.StartDate.Month, Day: 1}
		to := calendar.FromTime(from.Time().AddDate(0, 1, -1))

		days, err := s.holidays.NonWorkingDays(ctx, from, to)
		if err != nil {
			return leave.QuotaSignal{}, fmt.Errorf("failed to load holidays: %w", err)
		}
		evaluator = NewQuotaEvaluator(WithNonWorkingDays(days))
	}

	return evaluator.Evaluate(candidate, history), nil
}

// NewLeaveService builds the service. holidays may be nil, in which case
// holidays count towards the monthly quota like any other day.
func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	holidays leave.HolidayCalendar,
	clock clockwork.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		evaluator:              NewQuotaEvaluator(),
		holidays:               holidays,
		clock:                  clock,
	}
}
