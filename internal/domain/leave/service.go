package leave

import (
	"context"
	"io"
)

type WorkflowService interface {
	// Create
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// Transition
	ValidateAccess(ctx context.Context, req AccessRequest) (AccessResult, error)
	Execute(ctx context.Context, cmd TransitionCommand) (TransitionResult, error)
	Approve(ctx context.Context, req TransitionRequest) (TransitionResult, error)
	Reject(ctx context.Context, req TransitionRequest) (TransitionResult, error)
	UpdateBooking(ctx context.Context, req UpdateBookingRequest) (LeaveRequestResponse, error)

	// Query
	ListPending(ctx context.Context, scope ScopeFilter) ([]LeaveRequestResponse, error)
	ListAll(ctx context.Context, scope ScopeFilter) ([]LeaveRequestResponse, error)
	ListByNIK(ctx context.Context, nik string) ([]LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetHistory(ctx context.Context, id string) ([]ApprovalHistoryResponse, error)
	GetStats(ctx context.Context, scope ScopeFilter) (Stats, error)

	// Export writes the ListAll view for scope as an xlsx workbook.
	Export(ctx context.Context, scope ScopeFilter, w io.Writer) error
}
