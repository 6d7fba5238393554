package leave

import "strings"

type Status string

const (
	StatusPendingDIC  Status = "pending_dic"
	StatusPendingPJO  Status = "pending_pjo"
	StatusPendingHRHO Status = "pending_hr_ho"
	StatusDiProses    Status = "di_proses"
	StatusTiketIssued Status = "tiket_issued"
	StatusApproved    Status = "approved" // lokal leave, no ticket
	StatusDitolakDIC  Status = "ditolak_dic"
	StatusDitolakPJO  Status = "ditolak_pjo"
	StatusDitolakHRHO Status = "ditolak_hr_ho"
)

var allStatuses = []Status{
	StatusPendingDIC,
	StatusPendingPJO,
	StatusPendingHRHO,
	StatusDiProses,
	StatusTiketIssued,
	StatusApproved,
	StatusDitolakDIC,
	StatusDitolakPJO,
	StatusDitolakHRHO,
}

// Statuses returns every status a leave request can hold.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) IsValid() bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusTiketIssued || s == StatusApproved || s.IsRejected()
}

func (s Status) IsRejected() bool {
	return strings.HasPrefix(string(s), "ditolak")
}

// IsApprovedGroup reports whether the request cleared HR HO, with or without a ticket.
func (s Status) IsApprovedGroup() bool {
	return s == StatusDiProses || s == StatusTiketIssued || s == StatusApproved
}

// Level is an approval stage. The set is closed; see transitions.
type Level string

const (
	LevelDIC         Level = "dic"
	LevelPJOSite     Level = "pjo_site"
	LevelHRHO        Level = "hr_ho"
	LevelHRTicketing Level = "hr_ticketing"
)

var allLevels = []Level{LevelDIC, LevelPJOSite, LevelHRHO, LevelHRTicketing}

// Levels returns the approval levels in chain order.
func Levels() []Level {
	out := make([]Level, len(allLevels))
	copy(out, allLevels)
	return out
}

// Transition is the single edge an approval level owns.
type Transition struct {
	Current  Status
	Next     Status
	Rejected Status
	// NextWithoutTicket is the forward target for lokal leave. Equal to Next
	// for every level except hr_ho.
	NextWithoutTicket Status
}

var transitions = map[Level]Transition{
	LevelDIC: {
		Current:           StatusPendingDIC,
		Next:              StatusPendingPJO,
		Rejected:          StatusDitolakDIC,
		NextWithoutTicket: StatusPendingPJO,
	},
	LevelPJOSite: {
		Current:           StatusPendingPJO,
		Next:              StatusPendingHRHO,
		Rejected:          StatusDitolakPJO,
		NextWithoutTicket: StatusPendingHRHO,
	},
	LevelHRHO: {
		Current:           StatusPendingHRHO,
		Next:              StatusDiProses,
		Rejected:          StatusDitolakHRHO,
		NextWithoutTicket: StatusApproved,
	},
	LevelHRTicketing: {
		Current:           StatusDiProses,
		Next:              StatusTiketIssued,
		Rejected:          StatusDiProses,
		NextWithoutTicket: StatusTiketIssued,
	},
}

// TransitionFor returns the edge owned by l.
func TransitionFor(l Level) (Transition, bool) {
	t, ok := transitions[l]
	return t, ok
}

// LevelFromRole maps a caller role onto an approval level.
func LevelFromRole(role string) (Level, bool) {
	l := Level(strings.TrimSpace(role))
	if _, ok := transitions[l]; !ok {
		return "", false
	}
	return l, true
}

// LevelForStatus returns the level expected to act on a request in status s.
func LevelForStatus(s Status) (Level, bool) {
	for _, l := range allLevels {
		if transitions[l].Current == s {
			return l, true
		}
	}
	return "", false
}

type Action string

const (
	ActionApproved Action = "approved"
	ActionRejected Action = "rejected"
)

func (a Action) IsValid() bool {
	return a == ActionApproved || a == ActionRejected
}

// NextStatus resolves the status a request moves to when level l takes action a.
func NextStatus(l Level, a Action, jenis JenisPengajuan) (Status, error) {
	t, ok := transitions[l]
	if !ok {
		return "", ErrUnknownLevel
	}
	switch a {
	case ActionApproved:
		if jenis == JenisPengajuanLokal {
			return t.NextWithoutTicket, nil
		}
		return t.Next, nil
	case ActionRejected:
		return t.Rejected, nil
	default:
		return "", ErrInvalidAction
	}
}
