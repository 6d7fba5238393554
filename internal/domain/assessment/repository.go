package assessment

import "context"

type AssessmentRepository interface {
	Create(ctx context.Context, a Assessment) (Assessment, error)
	GetByID(ctx context.Context, id string) (Assessment, error)
	List(ctx context.Context, filter AssessmentFilter) ([]Assessment, error)
	// TransitionStatus is a compare-and-swap on the stored status.
	TransitionStatus(ctx context.Context, id string, from, to Status) error
}

// ApprovalRepository - interface for assessment_approvals table (append only)
type ApprovalRepository interface {
	Create(ctx context.Context, approval Approval) (Approval, error)
	ListByAssessmentID(ctx context.Context, assessmentID string) ([]Approval, error)
	// ListByAssessmentIDs groups history rows per assessment in one query.
	ListByAssessmentIDs(ctx context.Context, assessmentIDs []string) (map[string][]Approval, error)
}
