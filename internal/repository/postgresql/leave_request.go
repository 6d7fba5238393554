package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Every read enriches the request with the submitter's users row.
const selectLeaveRequest = `
	SELECT lr.id, lr.nik, lr.site, lr.departemen, lr.jenis_cuti, lr.jenis_pengajuan,
		   lr.tanggal_pengajuan, lr.periode_awal, lr.periode_akhir, lr.jumlah_hari,
		   lr.berangkat_dari, lr.tujuan, lr.tanggal_keberangkatan, lr.cuti_periodik_berikutnya,
		   lr.catatan, lr.lama_onsite, lr.status, lr.submitted_by,
		   lr.booking_code, lr.nama_pesawat, lr.jam_keberangkatan, lr.booking_code_issued_at,
		   lr.created_at, lr.updated_at,
		   u.name, u.email, u.jabatan, u.departemen, u.poh, u.status_karyawan,
		   u.no_ktp, u.no_telp, u.tanggal_lahir, u.jenis_kelamin
	FROM leave_requests lr
	LEFT JOIN users u ON u.nik = lr.nik
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var emp leave.EmployeeSnapshot
	err := row.Scan(
		&lr.ID, &lr.NIK, &lr.Site, &lr.Departemen, &lr.JenisCuti, &lr.JenisPengajuan,
		&lr.TanggalPengajuan, &lr.PeriodeAwal, &lr.PeriodeAkhir, &lr.JumlahHari,
		&lr.BerangkatDari, &lr.Tujuan, &lr.TanggalKeberangkatan, &lr.CutiPeriodikBerikutnya,
		&lr.Catatan, &lr.LamaOnsite, &lr.Status, &lr.SubmittedBy,
		&lr.BookingCode, &lr.NamaPesawat, &lr.JamKeberangkatan, &lr.BookingCodeIssuedAt,
		&lr.CreatedAt, &lr.UpdatedAt,
		&emp.Name, &emp.Email, &emp.Jabatan, &emp.Departemen, &emp.POH, &emp.StatusKaryawan,
		&emp.NoKTP, &emp.NoTelp, &emp.TanggalLahir, &emp.JenisKelamin,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Employee = &emp
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, nik, site, departemen, jenis_cuti, jenis_pengajuan,
			tanggal_pengajuan, periode_awal, periode_akhir, jumlah_hari,
			berangkat_dari, tujuan, tanggal_keberangkatan, cuti_periodik_berikutnya,
			catatan, lama_onsite, status, submitted_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.NIK, request.Site, request.Departemen, request.JenisCuti, string(request.JenisPengajuan),
		request.TanggalPengajuan, request.PeriodeAwal, request.PeriodeAkhir, request.JumlahHari,
		request.BerangkatDari, request.Tujuan, request.TanggalKeberangkatan, request.CutiPeriodikBerikutnya,
		request.Catatan, request.LamaOnsite, string(request.Status), request.SubmittedBy,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, selectLeaveRequest+" WHERE lr.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, query leave.ListQuery) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if len(query.Statuses) > 0 {
		statuses := make([]string, 0, len(query.Statuses))
		for _, s := range query.Statuses {
			statuses = append(statuses, string(s))
		}
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if query.Site != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.site = $%d", argIdx))
		args = append(args, query.Site)
		argIdx++
	}
	if query.Departemen != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.departemen = $%d", argIdx))
		args = append(args, query.Departemen)
		argIdx++
	}
	if query.NIK != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.nik = $%d", argIdx))
		args = append(args, query.NIK)
		argIdx++
	}

	sql := selectLeaveRequest
	if len(whereClauses) > 0 {
		sql += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	sql += " ORDER BY lr.created_at DESC"

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

func (r *leaveRequestRepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to leave.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	commandTag, err := q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrStaleStatus
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) UpdateBooking(ctx context.Context, id string, booking leave.Booking, allowed []leave.Status) error {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, 0, len(allowed))
	for _, s := range allowed {
		statuses = append(statuses, string(s))
	}

	query := `
		UPDATE leave_requests
		SET booking_code = $2,
			nama_pesawat = COALESCE($3, nama_pesawat),
			jam_keberangkatan = COALESCE($4, jam_keberangkatan),
			booking_code_issued_at = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($6)
	`
	commandTag, err := q.Exec(ctx, query, id, booking.BookingCode, booking.NamaPesawat, booking.JamKeberangkatan, booking.IssuedAt, statuses)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrBookingNotAllowed
	}
	return nil
}
