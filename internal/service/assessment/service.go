package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/assessment"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/metrics"
	"github.com/google/uuid"
)

type AssessmentServiceImpl struct {
	transactor     database.Transactor
	assessmentRepo assessment.AssessmentRepository
	approvalRepo   assessment.ApprovalRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAssessmentService(
	transactor database.Transactor,
	assessmentRepo assessment.AssessmentRepository,
	approvalRepo assessment.ApprovalRepository,
	employeeRepo employee.EmployeeRepository,
) assessment.AssessmentService {
	return &AssessmentServiceImpl{
		transactor:     transactor,
		assessmentRepo: assessmentRepo,
		approvalRepo:   approvalRepo,
		employeeRepo:   employeeRepo,
	}
}

// Create implements assessment.AssessmentService.
func (s *AssessmentServiceImpl) Create(ctx context.Context, req assessment.CreateAssessmentRequest) (assessment.AssessmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assessment.AssessmentResponse{}, err
	}

	a := req.ToAssessment()
	a.ID = uuid.Must(uuid.NewV7()).String()
	assessment.Score(&a)

	created, err := s.assessmentRepo.Create(ctx, a)
	if err != nil {
		slog.Error("Create assessment failed", "employee_nik", a.EmployeeNIK, "error", err)
		return assessment.AssessmentResponse{}, err
	}
	metrics.RecordCreated(metrics.EntityAssessment)

	return created.ToResponse(nil), nil
}

// Get implements assessment.AssessmentService.
func (s *AssessmentServiceImpl) Get(ctx context.Context, id string) (assessment.AssessmentResponse, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return assessment.AssessmentResponse{}, err
	}
	history, err := s.approvalRepo.ListByAssessmentID(ctx, id)
	if err != nil {
		return assessment.AssessmentResponse{}, err
	}
	return a.ToResponse(history), nil
}

// List implements assessment.AssessmentService. History rows are fetched in one batch.
func (s *AssessmentServiceImpl) List(ctx context.Context, filter assessment.AssessmentFilter) ([]assessment.AssessmentResponse, error) {
	items, err := s.assessmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}
	history, err := s.approvalRepo.ListByAssessmentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]assessment.AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, a.ToResponse(history[a.ID]))
	}
	return out, nil
}

// Approve implements assessment.AssessmentService.
func (s *AssessmentServiceImpl) Approve(ctx context.Context, req assessment.TransitionAssessmentRequest) (assessment.TransitionAssessmentResponse, error) {
	req.Action = assessment.ActionApproved
	return s.transition(ctx, req)
}

// Reject implements assessment.AssessmentService.
func (s *AssessmentServiceImpl) Reject(ctx context.Context, req assessment.TransitionAssessmentRequest) (assessment.TransitionAssessmentResponse, error) {
	req.Action = assessment.ActionRejected
	return s.transition(ctx, req)
}

func (s *AssessmentServiceImpl) transition(ctx context.Context, req assessment.TransitionAssessmentRequest) (assessment.TransitionAssessmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionAssessmentResponse{}, err
	}
	role := strings.TrimSpace(req.ApproverRole)

	current, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		return assessment.TransitionAssessmentResponse{}, err
	}

	next, err := assessment.ResolveTransition(current.Status, role, req.Action)
	if err != nil {
		metrics.RecordTransition(metrics.EntityAssessment, role, string(req.Action), metrics.ResultDenied)
		return assessment.TransitionAssessmentResponse{}, err
	}

	approverName := strings.TrimSpace(req.ApproverName)
	if approverName == "" {
		approver, err := s.employeeRepo.GetByNIK(ctx, req.ApproverNIK)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return assessment.TransitionAssessmentResponse{}, assessment.ErrApproverNotFound
			}
			return assessment.TransitionAssessmentResponse{}, fmt.Errorf("failed to get approver: %w", err)
		}
		approverName = approver.Name
	}

	start := time.Now()
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.assessmentRepo.TransitionStatus(txCtx, current.ID, current.Status, next); err != nil {
			return err
		}
		_, err := s.approvalRepo.Create(txCtx, assessment.Approval{
			ID:           uuid.Must(uuid.NewV7()).String(),
			AssessmentID: current.ID,
			ApproverNIK:  strings.TrimSpace(req.ApproverNIK),
			ApproverName: approverName,
			ApproverRole: role,
			Action:       req.Action,
			Notes:        req.Notes,
		})
		return err
	})
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, assessment.ErrStaleStatus) {
			result = metrics.ResultConflict
		} else {
			slog.Error("assessment transition failed", "assessment_id", current.ID, "role", role, "error", err)
		}
		metrics.RecordTransition(metrics.EntityAssessment, role, string(req.Action), result)
		metrics.ObserveTransitionDuration(metrics.EntityAssessment, result, time.Since(start))
		return assessment.TransitionAssessmentResponse{}, err
	}
	metrics.RecordTransition(metrics.EntityAssessment, role, string(req.Action), metrics.ResultSuccess)
	metrics.ObserveTransitionDuration(metrics.EntityAssessment, metrics.ResultSuccess, time.Since(start))

	message := "Assessment approved"
	if req.Action == assessment.ActionRejected {
		message = "Assessment rejected"
	}
	return assessment.TransitionAssessmentResponse{
		AssessmentID: current.ID,
		NewStatus:    next,
		Message:      message,
	}, nil
}
