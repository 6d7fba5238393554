package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

// pendingQuery returns the queue a role acts on. ok is false when the role has
// no queue or its scope is incomplete; the caller then returns an empty list.
func pendingQuery(scope leave.ScopeFilter) (leave.ListQuery, bool) {
	site := strings.TrimSpace(scope.Site)
	dept := strings.TrimSpace(scope.Departemen)

	level, ok := leave.LevelFromRole(scope.Role)
	if !ok {
		return leave.ListQuery{}, false
	}
	transition, _ := leave.TransitionFor(level)
	q := leave.ListQuery{Statuses: []leave.Status{transition.Current}}

	switch level {
	case leave.LevelDIC:
		if site == "" || dept == "" {
			return leave.ListQuery{}, false
		}
		q.Site = site
		q.Departemen = dept
	case leave.LevelPJOSite:
		if site == "" {
			return leave.ListQuery{}, false
		}
		q.Site = site
	}
	return q, true
}

// allQuery returns the read-only view a role may see.
func allQuery(scope leave.ScopeFilter) (leave.ListQuery, bool) {
	site := strings.TrimSpace(scope.Site)
	dept := strings.TrimSpace(scope.Departemen)

	switch employee.Role(strings.TrimSpace(scope.Role)) {
	case employee.RoleHRSite, employee.RolePJOSite, employee.RoleAdminSite:
		if site == "" {
			return leave.ListQuery{}, false
		}
		return leave.ListQuery{Site: site}, true
	case employee.RoleDIC:
		if site == "" || dept == "" {
			return leave.ListQuery{}, false
		}
		return leave.ListQuery{Site: site, Departemen: dept}, true
	case employee.RoleHRHO, employee.RoleHRTicketing, employee.RoleSuperAdmin:
		return leave.ListQuery{}, true
	default:
		return leave.ListQuery{}, false
	}
}

func (s *workflowService) list(ctx context.Context, q leave.ListQuery, ok bool) ([]leave.LeaveRequest, error) {
	if !ok {
		return []leave.LeaveRequest{}, nil
	}
	return s.leaveRequestRepo.List(ctx, q)
}

// ListPending implements leave.WorkflowService.
func (s *workflowService) ListPending(ctx context.Context, scope leave.ScopeFilter) ([]leave.LeaveRequestResponse, error) {
	q, ok := pendingQuery(scope)
	requests, err := s.list(ctx, q, ok)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return leave.ToResponses(requests), nil
}

// ListAll implements leave.WorkflowService.
func (s *workflowService) ListAll(ctx context.Context, scope leave.ScopeFilter) ([]leave.LeaveRequestResponse, error) {
	q, ok := allQuery(scope)
	requests, err := s.list(ctx, q, ok)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.ToResponses(requests), nil
}

// ListByNIK implements leave.WorkflowService.
func (s *workflowService) ListByNIK(ctx context.Context, nik string) ([]leave.LeaveRequestResponse, error) {
	nik = strings.TrimSpace(nik)
	if nik == "" {
		return []leave.LeaveRequestResponse{}, nil
	}
	requests, err := s.leaveRequestRepo.List(ctx, leave.ListQuery{NIK: nik})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by nik: %w", err)
	}
	return leave.ToResponses(requests), nil
}

// GetLeaveRequest implements leave.WorkflowService.
func (s *workflowService) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.leaveRequestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return request.ToResponse(), nil
}

// GetHistory implements leave.WorkflowService.
func (s *workflowService) GetHistory(ctx context.Context, id string) ([]leave.ApprovalHistoryResponse, error) {
	history, err := s.historyRepo.ListByRequestID(ctx, id)
	if err != nil {
		return nil, err
	}
	return leave.HistoryToResponses(history), nil
}

// GetStats counts the caller's views. The all and pending reads run in parallel.
func (s *workflowService) GetStats(ctx context.Context, scope leave.ScopeFilter) (leave.Stats, error) {
	var (
		all     []leave.LeaveRequest
		pending []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, ok := allQuery(scope)
		requests, err := s.list(gCtx, q, ok)
		if err != nil {
			return err
		}
		all = requests
		return nil
	})

	g.Go(func() error {
		q, ok := pendingQuery(scope)
		requests, err := s.list(gCtx, q, ok)
		if err != nil {
			return err
		}
		pending = requests
		return nil
	})

	if err := g.Wait(); err != nil {
		return leave.Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats := leave.Stats{Total: len(all), Pending: len(pending)}
	for _, r := range all {
		switch {
		case r.Status.IsApprovedGroup():
			stats.Approved++
		case r.Status.IsRejected():
			stats.Rejected++
		}
	}
	return stats, nil
}
