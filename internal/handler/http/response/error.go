package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/assessment"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Assessment domain errors
	case errors.Is(err, assessment.ErrAssessmentNotFound):
		NotFound(w, "Assessment not found")
	case errors.Is(err, assessment.ErrApproverNotFound):
		NotFound(w, "Approver not found")
	case errors.Is(err, assessment.ErrRoleMismatch):
		Forbidden(w, err.Error())
	case errors.Is(err, assessment.ErrNotAwaitingApproval):
		Conflict(w, "Assessment is not awaiting approval")
	case errors.Is(err, assessment.ErrStaleStatus):
		Conflict(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrStaleStatus):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// HandleWorkflowError maps errors onto the /api/workflow envelope. Bad input
// is a 400; every other failure is a 200 carrying the error string.
func HandleWorkflowError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		WorkflowBadRequest(w, validationErrs.Error(), validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, leave.ErrApproverNotFound),
		errors.Is(err, leave.ErrAccessDenied),
		errors.Is(err, leave.ErrStaleStatus),
		errors.Is(err, leave.ErrBookingNotAllowed),
		errors.Is(err, leave.ErrUnknownLevel),
		errors.Is(err, leave.ErrInvalidAction):
		WorkflowFail(w, err.Error())
	default:
		slog.Error("workflow request failed", "error", err)
		WorkflowFail(w, err.Error())
	}
}
