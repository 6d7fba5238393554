package assessment

import "errors"

var (
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrApproverNotFound    = errors.New("approver not found")
	ErrNotAwaitingApproval = errors.New("assessment is not awaiting approval")
	ErrRoleMismatch        = errors.New("role does not match the pending approval stage")
	ErrInvalidAction       = errors.New("invalid action")
	ErrStaleStatus         = errors.New("assessment status changed, reload and try again")
)
