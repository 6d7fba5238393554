package assessment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingPJO    Status = "pending_pjo"
	StatusPendingHRSite Status = "pending_hr_site"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingPJO, StatusPendingHRSite, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Stage is the approval step owned by one role.
type Stage struct {
	Current Status
	Role    string
	Next    Status
}

// DIC creates the assessment directly in pending_pjo.
var stages = map[Status]Stage{
	StatusPendingPJO:    {Current: StatusPendingPJO, Role: "pjo_site", Next: StatusPendingHRSite},
	StatusPendingHRSite: {Current: StatusPendingHRSite, Role: "hr_site", Next: StatusApproved},
}

// StageFor returns the stage waiting on an assessment in status s.
func StageFor(s Status) (Stage, bool) {
	st, ok := stages[s]
	return st, ok
}

type Action string

const (
	ActionApproved Action = "approved"
	ActionRejected Action = "rejected"
)

// ResolveTransition returns the status an assessment in `current` moves to
// when `role` takes `action`.
func ResolveTransition(current Status, role string, action Action) (Status, error) {
	st, ok := stages[current]
	if !ok {
		return "", ErrNotAwaitingApproval
	}
	if st.Role != role {
		return "", ErrRoleMismatch
	}
	switch action {
	case ActionApproved:
		return st.Next, nil
	case ActionRejected:
		return StatusRejected, nil
	default:
		return "", ErrInvalidAction
	}
}

// ScoreItem is one weighted criterion. Nilai = Score * Weight unless given.
type ScoreItem struct {
	Code   string          `json:"code"`
	Label  string          `json:"label"`
	Score  decimal.Decimal `json:"score"`
	Weight decimal.Decimal `json:"weight"`
	Nilai  decimal.Decimal `json:"nilai"`
}

type Kehadiran struct {
	Sakit int             `json:"sakit"`
	Izin  int             `json:"izin"`
	Alpa  int             `json:"alpa"`
	Score decimal.Decimal `json:"score"`
}

type Indisipliner struct {
	SP1   int             `json:"sp1"`
	SP2   int             `json:"sp2"`
	SP3   int             `json:"sp3"`
	Score decimal.Decimal `json:"score"`
}

type RecommendationType string

const (
	RecommendationPerpanjanganKontrak RecommendationType = "perpanjangan_kontrak"
	RecommendationPengangkatanTetap   RecommendationType = "pengangkatan_tetap"
	RecommendationPromosi             RecommendationType = "promosi"
	RecommendationPerubahanGaji       RecommendationType = "perubahan_gaji"
	RecommendationEndKontrak          RecommendationType = "end_kontrak"
)

var recommendationTypes = []RecommendationType{
	RecommendationPerpanjanganKontrak,
	RecommendationPengangkatanTetap,
	RecommendationPromosi,
	RecommendationPerubahanGaji,
	RecommendationEndKontrak,
}

type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Selected bool               `json:"selected"`
	Months   *int               `json:"months,omitempty"`
}

// Criteria labels, in form order.
var (
	KepribadianCriteria = []string{"Tanggung Jawab", "Kerja Sama", "Inisiatif", "Disiplin"}
	PrestasiCriteria    = []string{
		"Kualitas Kerja", "Kuantitas Kerja", "Pengetahuan Kerja", "Keandalan", "Kehadiran",
		"Komunikasi", "Pemecahan Masalah", "Kepemimpinan", "Pengembangan Diri", "Loyalitas",
	}
)

type Assessment struct {
	ID string

	EmployeeNIK          string
	EmployeeName         string
	EmployeeJabatan      *string
	EmployeeDepartemen   *string
	EmployeeSite         string
	EmployeeTanggalMasuk *time.Time
	EmployeeStatus       *string

	Kepribadian      []ScoreItem
	KepribadianTotal decimal.Decimal
	Prestasi         []ScoreItem
	PrestasiTotal    decimal.Decimal
	Kehadiran        Kehadiran
	Indisipliner     Indisipliner

	Subtotal   decimal.Decimal
	TotalScore decimal.Decimal
	Grade      *string
	Penalties  map[string]decimal.Decimal

	Kelebihan       *string
	Kekurangan      *string
	Recommendations []Recommendation

	Status        Status
	CreatedByNIK  string
	CreatedByName string
	CreatedByRole string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Approval is an append-only row of assessment_approvals.
type Approval struct {
	ID           string
	AssessmentID string
	ApproverNIK  string
	ApproverName string
	ApproverRole string
	Action       Action
	Notes        string
	CreatedAt    time.Time
}
