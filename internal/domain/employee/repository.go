package employee

import "context"

type EmployeeRepository interface {
	GetByNIK(ctx context.Context, nik string) (Employee, error)
}
