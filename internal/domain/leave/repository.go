package leave

import (
	"context"
)

// ListQuery narrows a leave_requests read. Empty fields do not filter.
type ListQuery struct {
	Statuses   []Status
	Site       string
	Departemen string
	NIK        string
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, query ListQuery) ([]LeaveRequest, error)
	// TransitionStatus moves id from `from` to `to` only if the stored status
	// still equals `from`. Returns ErrStaleStatus otherwise.
	TransitionStatus(ctx context.Context, id string, from, to Status) error
	UpdateBooking(ctx context.Context, id string, booking Booking, allowed []Status) error
}

// ApprovalHistoryRepository - interface for approval_history table (append only)
type ApprovalHistoryRepository interface {
	Create(ctx context.Context, entry ApprovalHistory) (ApprovalHistory, error)
	ListByRequestID(ctx context.Context, requestID string) ([]ApprovalHistory, error)
}
