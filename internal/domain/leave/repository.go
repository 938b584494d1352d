package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// ListByEmployee returns every request of the employee, oldest start date first.
	ListByEmployee(ctx context.Context, employeeID string, status *LeaveRequestStatus) ([]LeaveRequest, error)
	// Decide moves a pending request to a terminal status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Decide(ctx context.Context, id string, status LeaveRequestStatus, comment *string, decidedBy *string, decidedAt time.Time) (LeaveRequest, error)
}
