package leave

import (
	"context"
)

type LeaveService interface {
	// Request
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	// Decision
	Approve(ctx context.Context, req ApproveLeaveRequestRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)
	// Quota
	EvaluateRequest(ctx context.Context, id string) (QuotaSignal, error)
	Evaluate(ctx context.Context, req EvaluateRequest) (QuotaSignal, error)
}
