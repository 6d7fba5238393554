package employee

import (
	"time"
)

type Role string

const (
	RoleUser        Role = "user"
	RoleDIC         Role = "dic"
	RolePJOSite     Role = "pjo_site"
	RoleHRSite      Role = "hr_site"
	RoleHRHO        Role = "hr_ho"
	RoleHRTicketing Role = "hr_ticketing"
	RoleAdminSite   Role = "admin_site"
	RoleSuperAdmin  Role = "super_admin"
)

// Employee is a row of the users table.
type Employee struct {
	ID             string
	NIK            string
	Name           string
	Email          *string
	Role           Role
	Site           string
	Jabatan        *string
	Departemen     *string
	POH            *string
	StatusKaryawan *string
	NoKTP          *string
	NoTelp         *string
	TanggalLahir   *time.Time
	JenisKelamin   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsHeadOffice reports whether the role acts across every site.
func (r Role) IsHeadOffice() bool {
	return r == RoleHRHO || r == RoleHRTicketing || r == RoleSuperAdmin
}

// DepartemenOrEmpty returns the department, or "" when unassigned.
func (e Employee) DepartemenOrEmpty() string {
	if e.Departemen == nil {
		return ""
	}
	return *e.Departemen
}
