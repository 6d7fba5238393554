package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/assessment"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type assessmentRepositoryImpl struct {
	db *database.DB
}

func NewAssessmentRepository(db *database.DB) assessment.AssessmentRepository {
	return &assessmentRepositoryImpl{db: db}
}

const selectAssessment = `
	SELECT id, employee_nik, employee_name, employee_jabatan, employee_departemen, employee_site,
		   employee_tanggal_masuk, employee_status,
		   kepribadian, kepribadian_total, prestasi, prestasi_total, kehadiran, indisipliner,
		   subtotal, total_score, grade, penalties, kelebihan, kekurangan, recommendations,
		   status, created_by_nik, COALESCE(created_by_name, ''), COALESCE(created_by_role, ''),
		   created_at, updated_at
	FROM employee_assessments
`

func scanAssessment(row pgx.Row) (assessment.Assessment, error) {
	var a assessment.Assessment
	var kepribadianBytes, prestasiBytes, kehadiranBytes, indisiplinerBytes, penaltiesBytes, recommendationsBytes []byte
	err := row.Scan(
		&a.ID, &a.EmployeeNIK, &a.EmployeeName, &a.EmployeeJabatan, &a.EmployeeDepartemen, &a.EmployeeSite,
		&a.EmployeeTanggalMasuk, &a.EmployeeStatus,
		&kepribadianBytes, &a.KepribadianTotal, &prestasiBytes, &a.PrestasiTotal, &kehadiranBytes, &indisiplinerBytes,
		&a.Subtotal, &a.TotalScore, &a.Grade, &penaltiesBytes, &a.Kelebihan, &a.Kekurangan, &recommendationsBytes,
		&a.Status, &a.CreatedByNIK, &a.CreatedByName, &a.CreatedByRole,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return assessment.Assessment{}, err
	}

	_ = json.Unmarshal(kepribadianBytes, &a.Kepribadian)
	_ = json.Unmarshal(prestasiBytes, &a.Prestasi)
	_ = json.Unmarshal(kehadiranBytes, &a.Kehadiran)
	_ = json.Unmarshal(indisiplinerBytes, &a.Indisipliner)
	_ = json.Unmarshal(penaltiesBytes, &a.Penalties)
	_ = json.Unmarshal(recommendationsBytes, &a.Recommendations)

	return a, nil
}

func (r *assessmentRepositoryImpl) Create(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	kepribadianJSON, _ := json.Marshal(a.Kepribadian)
	prestasiJSON, _ := json.Marshal(a.Prestasi)
	kehadiranJSON, _ := json.Marshal(a.Kehadiran)
	indisiplinerJSON, _ := json.Marshal(a.Indisipliner)
	penaltiesJSON, _ := json.Marshal(a.Penalties)
	recommendationsJSON, _ := json.Marshal(a.Recommendations)

	query := `
		INSERT INTO employee_assessments (
			id, employee_nik, employee_name, employee_jabatan, employee_departemen, employee_site,
			employee_tanggal_masuk, employee_status,
			kepribadian, kepribadian_total, prestasi, prestasi_total, kehadiran, indisipliner,
			subtotal, total_score, grade, penalties, kelebihan, kekurangan, recommendations,
			status, created_by_nik, created_by_name, created_by_role
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25
		) RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeNIK, a.EmployeeName, a.EmployeeJabatan, a.EmployeeDepartemen, a.EmployeeSite,
		a.EmployeeTanggalMasuk, a.EmployeeStatus,
		kepribadianJSON, a.KepribadianTotal, prestasiJSON, a.PrestasiTotal, kehadiranJSON, indisiplinerJSON,
		a.Subtotal, a.TotalScore, a.Grade, penaltiesJSON, a.Kelebihan, a.Kekurangan, recommendationsJSON,
		string(a.Status), a.CreatedByNIK, a.CreatedByName, a.CreatedByRole,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("failed to create assessment: %w", err)
	}
	return a, nil
}

func (r *assessmentRepositoryImpl) GetByID(ctx context.Context, id string) (assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssessment(q.QueryRow(ctx, selectAssessment+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assessment.Assessment{}, assessment.ErrAssessmentNotFound
		}
		return assessment.Assessment{}, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

func (r *assessmentRepositoryImpl) List(ctx context.Context, filter assessment.AssessmentFilter) ([]assessment.Assessment, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.Site != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("employee_site = $%d", argIdx))
		args = append(args, filter.Site)
		argIdx++
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.CreatedByNIK != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("created_by_nik = $%d", argIdx))
		args = append(args, filter.CreatedByNIK)
		argIdx++
	}

	sql := selectAssessment
	if len(whereClauses) > 0 {
		sql += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	sql += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return out, nil
}

func (r *assessmentRepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to assessment.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_assessments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	commandTag, err := q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update assessment status: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return assessment.ErrStaleStatus
	}
	return nil
}

type assessmentApprovalRepositoryImpl struct {
	db *database.DB
}

func NewAssessmentApprovalRepository(db *database.DB) assessment.ApprovalRepository {
	return &assessmentApprovalRepositoryImpl{db: db}
}

func (r *assessmentApprovalRepositoryImpl) Create(ctx context.Context, approval assessment.Approval) (assessment.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO assessment_approvals (
			id, assessment_id, approver_nik, approver_name, approver_role, action, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		approval.ID, approval.AssessmentID, approval.ApproverNIK, approval.ApproverName, approval.ApproverRole,
		string(approval.Action), approval.Notes,
	).Scan(&approval.CreatedAt)
	if err != nil {
		return assessment.Approval{}, fmt.Errorf("failed to insert assessment approval: %w", err)
	}
	return approval, nil
}

func (r *assessmentApprovalRepositoryImpl) ListByAssessmentID(ctx context.Context, assessmentID string) ([]assessment.Approval, error) {
	grouped, err := r.ListByAssessmentIDs(ctx, []string{assessmentID})
	if err != nil {
		return nil, err
	}
	if approvals, ok := grouped[assessmentID]; ok {
		return approvals, nil
	}
	return []assessment.Approval{}, nil
}

func (r *assessmentApprovalRepositoryImpl) ListByAssessmentIDs(ctx context.Context, assessmentIDs []string) (map[string][]assessment.Approval, error) {
	grouped := make(map[string][]assessment.Approval, len(assessmentIDs))
	if len(assessmentIDs) == 0 {
		return grouped, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, assessment_id, approver_nik, approver_name, approver_role, action, notes, created_at
		FROM assessment_approvals
		WHERE assessment_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`
	rows, err := q.Query(ctx, query, assessmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment approvals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a assessment.Approval
		if err := rows.Scan(&a.ID, &a.AssessmentID, &a.ApproverNIK, &a.ApproverName, &a.ApproverRole, &a.Action, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment approval: %w", err)
		}
		grouped[a.AssessmentID] = append(grouped[a.AssessmentID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment approvals: %w", err)
	}
	return grouped, nil
}
