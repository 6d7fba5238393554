package assessment

import "context"

type AssessmentService interface {
	Create(ctx context.Context, req CreateAssessmentRequest) (AssessmentResponse, error)
	Get(ctx context.Context, id string) (AssessmentResponse, error)
	List(ctx context.Context, filter AssessmentFilter) ([]AssessmentResponse, error)
	Approve(ctx context.Context, req TransitionAssessmentRequest) (TransitionAssessmentResponse, error)
	Reject(ctx context.Context, req TransitionAssessmentRequest) (TransitionAssessmentResponse, error)
}
