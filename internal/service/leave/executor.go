package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/sse"
)

// Approve implements leave.WorkflowService.
func (s *workflowService) Approve(ctx context.Context, req leave.TransitionRequest) (leave.TransitionResult, error) {
	req.Action = leave.ActionApproved
	return s.transition(ctx, req)
}

// Reject implements leave.WorkflowService.
func (s *workflowService) Reject(ctx context.Context, req leave.TransitionRequest) (leave.TransitionResult, error) {
	req.Action = leave.ActionRejected
	return s.transition(ctx, req)
}

func (s *workflowService) transition(ctx context.Context, req leave.TransitionRequest) (leave.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return leave.TransitionResult{}, err
	}

	site := strings.TrimSpace(req.ApproverSite)
	dept := strings.TrimSpace(req.ApproverDepartemen)
	if site == "" || dept == "" {
		approver, err := s.employeeRepo.GetByNIK(ctx, req.ApproverNIK)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.TransitionResult{}, err
		}
		if err == nil {
			if site == "" {
				site = approver.Site
			}
			if dept == "" {
				dept = approver.DepartemenOrEmpty()
			}
		}
	}

	access, err := s.ValidateAccess(ctx, leave.AccessRequest{
		Role:       req.ApproverRole,
		Site:       site,
		Departemen: dept,
		RequestID:  req.RequestID,
	})
	if err != nil {
		return leave.TransitionResult{}, err
	}
	if !access.Valid {
		metrics.RecordTransition(metrics.EntityLeave, strings.TrimSpace(req.ApproverRole), string(req.Action), metrics.ResultDenied)
		return leave.TransitionResult{}, fmt.Errorf("%w: %s", leave.ErrAccessDenied, access.Reason)
	}

	return s.Execute(ctx, leave.TransitionCommand{
		RequestID:   req.RequestID,
		ApproverNIK: strings.TrimSpace(req.ApproverNIK),
		Action:      req.Action,
		Notes:       strings.TrimSpace(req.Notes),
		Level:       access.Level,
	})
}

// Execute applies one approval transition. The status update and the history
// row commit together or not at all. The update only succeeds while the stored
// status still equals the level's current status.
func (s *workflowService) Execute(ctx context.Context, cmd leave.TransitionCommand) (leave.TransitionResult, error) {
	transition, ok := leave.TransitionFor(cmd.Level)
	if !ok {
		return leave.TransitionResult{}, leave.ErrUnknownLevel
	}
	if !cmd.Action.IsValid() {
		return leave.TransitionResult{}, leave.ErrInvalidAction
	}

	approver, err := s.employeeRepo.GetByNIK(ctx, cmd.ApproverNIK)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.TransitionResult{}, leave.ErrApproverNotFound
		}
		return leave.TransitionResult{}, fmt.Errorf("failed to get approver: %w", err)
	}

	request, err := s.leaveRequestRepo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return leave.TransitionResult{}, err
	}

	next, err := leave.NextStatus(cmd.Level, cmd.Action, request.JenisPengajuan)
	if err != nil {
		return leave.TransitionResult{}, err
	}

	var notes *string
	if cmd.Notes != "" {
		notes = &cmd.Notes
	}

	start := time.Now()
	var entry leave.ApprovalHistory
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaveRequestRepo.TransitionStatus(txCtx, request.ID, transition.Current, next); err != nil {
			return err
		}
		created, err := s.historyRepo.Create(txCtx, leave.ApprovalHistory{
			ID:             newID(),
			LeaveRequestID: request.ID,
			ApproverNIK:    approver.NIK,
			ApproverName:   approver.Name,
			ApproverRole:   string(cmd.Level),
			Action:         cmd.Action,
			Notes:          notes,
		})
		if err != nil {
			return err
		}
		entry = created
		return nil
	})
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, leave.ErrStaleStatus) {
			result = metrics.ResultConflict
		} else {
			slog.Error("leave transition failed", "request_id", request.ID, "level", cmd.Level, "error", err)
		}
		metrics.RecordTransition(metrics.EntityLeave, string(cmd.Level), string(cmd.Action), result)
		metrics.ObserveTransitionDuration(metrics.EntityLeave, result, time.Since(start))
		if result == metrics.ResultConflict {
			return leave.TransitionResult{}, err
		}
		return leave.TransitionResult{}, fmt.Errorf("failed to apply transition: %w", err)
	}
	metrics.RecordTransition(metrics.EntityLeave, string(cmd.Level), string(cmd.Action), metrics.ResultSuccess)
	metrics.ObserveTransitionDuration(metrics.EntityLeave, metrics.ResultSuccess, time.Since(start))

	processedAt := entry.CreatedAt
	if processedAt.IsZero() {
		processedAt = s.now()
	}
	result := leave.TransitionResult{
		RequestID:      request.ID,
		PreviousStatus: transition.Current,
		NewStatus:      next,
		HistoryID:      entry.ID,
		Action:         cmd.Action,
		Level:          cmd.Level,
		ProcessedAt:    processedAt,
	}

	slog.Info("leave request transitioned",
		"request_id", request.ID,
		"level", cmd.Level,
		"action", cmd.Action,
		"from", transition.Current,
		"to", next,
	)

	if s.publisher != nil {
		s.publisher.PublishToMany([]string{request.NIK, request.SubmittedBy}, sse.Event{
			Name: EventLeaveTransition,
			Data: result,
		})
	}

	return result, nil
}
