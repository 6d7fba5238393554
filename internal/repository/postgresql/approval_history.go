package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
)

type approvalHistoryRepositoryImpl struct {
	db *database.DB
}

func NewApprovalHistoryRepository(db *database.DB) leave.ApprovalHistoryRepository {
	return &approvalHistoryRepositoryImpl{db: db}
}

func (r *approvalHistoryRepositoryImpl) Create(ctx context.Context, entry leave.ApprovalHistory) (leave.ApprovalHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_history (
			id, leave_request_id, approver_nik, approver_name, approver_role, action, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		entry.ID, entry.LeaveRequestID, entry.ApproverNIK, entry.ApproverName, entry.ApproverRole,
		string(entry.Action), entry.Notes,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return leave.ApprovalHistory{}, fmt.Errorf("failed to insert approval history: %w", err)
	}
	return entry, nil
}

func (r *approvalHistoryRepositoryImpl) ListByRequestID(ctx context.Context, requestID string) ([]leave.ApprovalHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_request_id, approver_nik, approver_name, approver_role, action, notes, created_at
		FROM approval_history
		WHERE leave_request_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	defer rows.Close()

	history := make([]leave.ApprovalHistory, 0)
	for rows.Next() {
		var h leave.ApprovalHistory
		if err := rows.Scan(
			&h.ID, &h.LeaveRequestID, &h.ApproverNIK, &h.ApproverName, &h.ApproverRole, &h.Action, &h.Notes, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approval history: %w", err)
	}
	return history, nil
}
