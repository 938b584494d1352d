package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrInvalidDateRange             = errors.New("End date must not be before start date")
	ErrInvalidHalfDay               = errors.New("Half-day leave must start and end on the same date")
	ErrDecisionCommentRequired      = errors.New("A comment is required to reject a leave request")
)
