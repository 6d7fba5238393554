package leave

import (
	"context"
	"errors"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
)

// ValidateAccess decides whether a caller may act on a request right now.
// It never mutates anything. A negative answer is returned as a result with a
// reason, not as an error; errors are reserved for storage failures.
func (s *workflowService) ValidateAccess(ctx context.Context, req leave.AccessRequest) (leave.AccessResult, error) {
	request, err := s.leaveRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return denied(leave.ErrLeaveRequestNotFound), nil
		}
		return leave.AccessResult{}, err
	}

	level, ok := leave.LevelFromRole(req.Role)
	if !ok {
		return denied(leave.ErrUnknownLevel), nil
	}

	if request.Status.IsTerminal() {
		return denied(leave.ErrTerminalStatus), nil
	}

	transition, _ := leave.TransitionFor(level)
	if request.Status != transition.Current {
		return denied(leave.ErrStatusMismatch), nil
	}

	site := strings.TrimSpace(req.Site)
	dept := strings.TrimSpace(req.Departemen)
	switch level {
	case leave.LevelDIC:
		if dept == "" {
			return denied(leave.ErrDepartmentRequired), nil
		}
		if !strings.EqualFold(site, request.Site) || !strings.EqualFold(dept, request.Departemen) {
			return denied(leave.ErrOutOfScope), nil
		}
	case leave.LevelPJOSite:
		if !strings.EqualFold(site, request.Site) {
			return denied(leave.ErrOutOfScope), nil
		}
	case leave.LevelHRHO, leave.LevelHRTicketing:
		// head office, every site
	}

	return leave.AccessResult{Valid: true, Level: level}, nil
}

func denied(reason error) leave.AccessResult {
	return leave.AccessResult{Valid: false, Reason: reason.Error()}
}
