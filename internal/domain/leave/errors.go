package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrApproverNotFound     = errors.New("approver not found")
	ErrUnknownLevel         = errors.New("role is not an approval level")
	ErrInvalidAction        = errors.New("invalid action")
	ErrStatusMismatch       = errors.New("request is not awaiting this approval level")
	ErrDepartmentRequired   = errors.New("department is required for dic approval")
	ErrOutOfScope           = errors.New("request belongs to another site or department")
	ErrStaleStatus          = errors.New("request status changed, reload and try again")
	ErrTerminalStatus       = errors.New("request is already final")
	ErrBookingNotAllowed    = errors.New("booking can only be updated after HR HO approval")
	ErrNotesRequired        = errors.New("notes are required when rejecting")
	ErrAccessDenied         = errors.New("access denied")
)
