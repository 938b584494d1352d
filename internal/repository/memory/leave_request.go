package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
)

type leaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[request.ID]; exists {
		return leave.LeaveRequest{}, ErrDuplicateKey
	}
	r.requests[request.ID] = cloneLeaveRequest(request)
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneLeaveRequest(request), nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, request := range r.requests {
		if request.EmployeeID != employeeID {
			continue
		}
		if status != nil && request.Status != *status {
			continue
		}
		out = append(out, cloneLeaveRequest(request))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, comment *string, decidedBy *string, decidedAt time.Time) (leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return leave.LeaveRequest{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !request.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	at := decidedAt
	request.Status = status
	request.DecisionComment = comment
	request.DecidedBy = decidedBy
	request.DecidedAt = &at
	request.UpdatedAt = decidedAt

	r.requests[id] = cloneLeaveRequest(request)
	return cloneLeaveRequest(request), nil
}

func cloneLeaveRequest(request leave.LeaveRequest) leave.LeaveRequest {
	if request.DecisionComment != nil {
		c := *request.DecisionComment
		request.DecisionComment = &c
	}
	if request.DecidedBy != nil {
		b := *request.DecidedBy
		request.DecidedBy = &b
	}
	if request.DecidedAt != nil {
		t := *request.DecidedAt
		request.DecidedAt = &t
	}
	return request
}

func NewLeaveRequestRepository() leave.LeaveRequestRepository {
	return &leaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}
