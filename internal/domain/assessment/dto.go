package assessment

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ScoreInput struct {
	Score           decimal.Decimal  `json:"score"`
	Weight          decimal.Decimal  `json:"weight"`
	CalculatedScore *decimal.Decimal `json:"calculatedScore,omitempty"`
}

type CreateAssessmentRequest struct {
	EmployeeNIK          string  `json:"employeeNik"`
	EmployeeName         string  `json:"employeeName"`
	EmployeeJabatan      *string `json:"employeeJabatan"`
	EmployeeDepartemen   *string `json:"employeeDepartemen"`
	EmployeeSite         string  `json:"employeeSite"`
	EmployeeTanggalMasuk *string `json:"employeeTanggalMasuk"`
	EmployeeStatus       *string `json:"employeeStatus"`

	Kepribadian  []ScoreInput `json:"kepribadian"`
	Prestasi     []ScoreInput `json:"prestasi"`
	Kehadiran    Kehadiran    `json:"kehadiran"`
	Indisipliner Indisipliner `json:"indisipliner"`

	TotalScore *decimal.Decimal           `json:"totalScore"`
	Grade      *string                    `json:"grade"`
	Penalties  map[string]decimal.Decimal `json:"penalties"`

	Strengths       *string          `json:"strengths"`
	Weaknesses      *string          `json:"weaknesses"`
	Recommendations []Recommendation `json:"recommendations"`

	CreatedByNIK  string `json:"createdByNik"`
	CreatedByName string `json:"createdByName"`
	CreatedByRole string `json:"createdByRole"`
}

func (r *CreateAssessmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeNIK) {
		errs = append(errs, validator.ValidationError{Field: "employeeNik", Message: "employeeNik is required"})
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employeeName", Message: "employeeName is required"})
	}
	if validator.IsEmpty(r.EmployeeSite) {
		errs = append(errs, validator.ValidationError{Field: "employeeSite", Message: "employeeSite is required"})
	}
	if r.EmployeeTanggalMasuk != nil && !validator.IsEmpty(*r.EmployeeTanggalMasuk) {
		if _, ok := validator.IsValidDate(*r.EmployeeTanggalMasuk); !ok {
			errs = append(errs, validator.ValidationError{Field: "employeeTanggalMasuk", Message: "employeeTanggalMasuk must be in YYYY-MM-DD format"})
		}
	}

	if len(r.Kepribadian) != len(KepribadianCriteria) {
		errs = append(errs, validator.ValidationError{Field: "kepribadian", Message: fmt.Sprintf("kepribadian must have %d items", len(KepribadianCriteria))})
	}
	if len(r.Prestasi) != len(PrestasiCriteria) {
		errs = append(errs, validator.ValidationError{Field: "prestasi", Message: fmt.Sprintf("prestasi must have %d items", len(PrestasiCriteria))})
	}
	errs = append(errs, validateScores("kepribadian", r.Kepribadian)...)
	errs = append(errs, validateScores("prestasi", r.Prestasi)...)

	if r.Kehadiran.Sakit < 0 || r.Kehadiran.Izin < 0 || r.Kehadiran.Alpa < 0 {
		errs = append(errs, validator.ValidationError{Field: "kehadiran", Message: "kehadiran counts must not be negative"})
	}
	if r.Indisipliner.SP1 < 0 || r.Indisipliner.SP2 < 0 || r.Indisipliner.SP3 < 0 {
		errs = append(errs, validator.ValidationError{Field: "indisipliner", Message: "indisipliner counts must not be negative"})
	}

	for i, rec := range r.Recommendations {
		field := fmt.Sprintf("recommendations[%d]", i)
		if !isRecommendationType(rec.Type) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "unknown recommendation type"})
			continue
		}
		if rec.Months != nil && *rec.Months <= 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: "months must be positive"})
		}
	}

	if validator.IsEmpty(r.CreatedByNIK) {
		errs = append(errs, validator.ValidationError{Field: "createdByNik", Message: "createdByNik is required"})
	}
	if r.CreatedByRole != "dic" {
		errs = append(errs, validator.ValidationError{Field: "createdByRole", Message: "assessments are created by dic"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateScores(section string, items []ScoreInput) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, it := range items {
		if it.Score.IsNegative() || it.Weight.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("%s[%d]", section, i),
				Message: "score and weight must not be negative",
			})
		}
	}
	return errs
}

func isRecommendationType(t RecommendationType) bool {
	for _, rt := range recommendationTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// ToAssessment builds the entity; Score must run afterwards.
func (r CreateAssessmentRequest) ToAssessment() Assessment {
	a := Assessment{
		EmployeeNIK:        r.EmployeeNIK,
		EmployeeName:       r.EmployeeName,
		EmployeeJabatan:    r.EmployeeJabatan,
		EmployeeDepartemen: r.EmployeeDepartemen,
		EmployeeSite:       r.EmployeeSite,
		EmployeeStatus:     r.EmployeeStatus,
		Kepribadian:        toItems("A", KepribadianCriteria, r.Kepribadian),
		Prestasi:           toItems("B", PrestasiCriteria, r.Prestasi),
		Kehadiran:          r.Kehadiran,
		Indisipliner:       r.Indisipliner,
		Grade:              r.Grade,
		Penalties:          r.Penalties,
		Kelebihan:          r.Strengths,
		Kekurangan:         r.Weaknesses,
		Recommendations:    r.Recommendations,
		Status:             StatusPendingPJO,
		CreatedByNIK:       r.CreatedByNIK,
		CreatedByName:      r.CreatedByName,
		CreatedByRole:      r.CreatedByRole,
	}
	if r.EmployeeTanggalMasuk != nil {
		if t, ok := validator.IsValidDate(*r.EmployeeTanggalMasuk); ok {
			a.EmployeeTanggalMasuk = &t
		}
	}
	if r.TotalScore != nil {
		a.TotalScore = *r.TotalScore
	}
	if a.Penalties == nil {
		a.Penalties = map[string]decimal.Decimal{}
	}
	return a
}

func toItems(prefix string, labels []string, in []ScoreInput) []ScoreItem {
	items := make([]ScoreItem, 0, len(in))
	for i, s := range in {
		item := ScoreItem{
			Code:   fmt.Sprintf("%s%d", prefix, i+1),
			Score:  s.Score,
			Weight: s.Weight,
		}
		if i < len(labels) {
			item.Label = labels[i]
		}
		if s.CalculatedScore != nil {
			item.Nilai = *s.CalculatedScore
		}
		items = append(items, item)
	}
	return items
}

type TransitionAssessmentRequest struct {
	AssessmentID string `json:"-"`
	ApproverNIK  string `json:"approverNik"`
	ApproverName string `json:"approverName"`
	ApproverRole string `json:"approverRole"`
	Notes        string `json:"notes"`
	Action       Action `json:"-"`
}

const defaultRejectNotes = "Ditolak"

func (r *TransitionAssessmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.ApproverNIK) {
		errs = append(errs, validator.ValidationError{Field: "approverNik", Message: "approverNik is required"})
	}
	if validator.IsEmpty(r.ApproverRole) {
		errs = append(errs, validator.ValidationError{Field: "approverRole", Message: "approverRole is required"})
	}
	if r.Action != ActionApproved && r.Action != ActionRejected {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must be 'approved' or 'rejected'"})
	}
	if r.Action == ActionRejected && validator.IsEmpty(r.Notes) {
		r.Notes = defaultRejectNotes
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssessmentFilter struct {
	Site         string
	Status       Status
	CreatedByNIK string
}

type ApprovalResponse struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessmentId"`
	ApproverNIK  string    `json:"approverNik"`
	ApproverName string    `json:"approverName"`
	ApproverRole string    `json:"approverRole"`
	Action       Action    `json:"action"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AssessmentResponse struct {
	ID                   string                     `json:"id"`
	EmployeeNIK          string                     `json:"employeeNik"`
	EmployeeName         string                     `json:"employeeName"`
	EmployeeJabatan      *string                    `json:"employeeJabatan"`
	EmployeeDepartemen   *string                    `json:"employeeDepartemen"`
	EmployeeSite         string                     `json:"employeeSite"`
	EmployeeTanggalMasuk *string                    `json:"employeeTanggalMasuk"`
	EmployeeStatus       *string                    `json:"employeeStatus"`
	Kepribadian          []ScoreItem                `json:"kepribadian"`
	KepribadianTotal     decimal.Decimal            `json:"kepribadianTotal"`
	Prestasi             []ScoreItem                `json:"prestasi"`
	PrestasiTotal        decimal.Decimal            `json:"prestasiTotal"`
	Kehadiran            Kehadiran                  `json:"kehadiran"`
	Indisipliner         Indisipliner               `json:"indisipliner"`
	Subtotal             decimal.Decimal            `json:"subtotal"`
	TotalScore           decimal.Decimal            `json:"totalScore"`
	Grade                *string                    `json:"grade"`
	Penalties            map[string]decimal.Decimal `json:"penalties"`
	Strengths            *string                    `json:"strengths"`
	Weaknesses           *string                    `json:"weaknesses"`
	Recommendations      []Recommendation           `json:"recommendations"`
	Status               Status                     `json:"status"`
	CreatedByNIK         string                     `json:"createdByNik"`
	CreatedByName        string                     `json:"createdByName"`
	CreatedByRole        string                     `json:"createdByRole"`
	CreatedAt            time.Time                  `json:"createdAt"`
	UpdatedAt            time.Time                  `json:"updatedAt"`
	ApprovalHistory      []ApprovalResponse         `json:"approvalHistory"`
}

type TransitionAssessmentResponse struct {
	AssessmentID string `json:"assessmentId"`
	NewStatus    Status `json:"newStatus"`
	Message      string `json:"message"`
}

func (a Assessment) ToResponse(history []Approval) AssessmentResponse {
	resp := AssessmentResponse{
		ID:                 a.ID,
		EmployeeNIK:        a.EmployeeNIK,
		EmployeeName:       a.EmployeeName,
		EmployeeJabatan:    a.EmployeeJabatan,
		EmployeeDepartemen: a.EmployeeDepartemen,
		EmployeeSite:       a.EmployeeSite,
		EmployeeStatus:     a.EmployeeStatus,
		Kepribadian:        a.Kepribadian,
		KepribadianTotal:   a.KepribadianTotal,
		Prestasi:           a.Prestasi,
		PrestasiTotal:      a.PrestasiTotal,
		Kehadiran:          a.Kehadiran,
		Indisipliner:       a.Indisipliner,
		Subtotal:           a.Subtotal,
		TotalScore:         a.TotalScore,
		Grade:              a.Grade,
		Penalties:          a.Penalties,
		Strengths:          a.Kelebihan,
		Weaknesses:         a.Kekurangan,
		Recommendations:    a.Recommendations,
		Status:             a.Status,
		CreatedByNIK:       a.CreatedByNIK,
		CreatedByName:      a.CreatedByName,
		CreatedByRole:      a.CreatedByRole,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		ApprovalHistory:    make([]ApprovalResponse, 0, len(history)),
	}
	if a.EmployeeTanggalMasuk != nil {
		s := a.EmployeeTanggalMasuk.Format("2006-01-02")
		resp.EmployeeTanggalMasuk = &s
	}
	for _, h := range history {
		resp.ApprovalHistory = append(resp.ApprovalHistory, ApprovalResponse{
			ID:           h.ID,
			AssessmentID: h.AssessmentID,
			ApproverNIK:  h.ApproverNIK,
			ApproverName: h.ApproverName,
			ApproverRole: h.ApproverRole,
			Action:       h.Action,
			Notes:        h.Notes,
			CreatedAt:    h.CreatedAt,
		})
	}
	return resp
}
