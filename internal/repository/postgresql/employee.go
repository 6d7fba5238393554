package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByNIK implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByNIK(ctx context.Context, nik string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, nik, name, email, role, site, jabatan, departemen, poh, status_karyawan,
			   no_ktp, no_telp, tanggal_lahir, jenis_kelamin, created_at, updated_at
		FROM users
		WHERE nik = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, nik).Scan(
		&e.ID, &e.NIK, &e.Name, &e.Email, &e.Role, &e.Site, &e.Jabatan, &e.Departemen, &e.POH, &e.StatusKaryawan,
		&e.NoKTP, &e.NoTelp, &e.TanggalLahir, &e.JenisKelamin, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by nik: %w", err)
	}
	return e, nil
}
