package leave

import "time"

type JenisPengajuan string

const (
	JenisPengajuanDenganTiket JenisPengajuan = "dengan_tiket"
	JenisPengajuanLokal       JenisPengajuan = "lokal"
)

var JenisCutiOptions = []string{"Cuti Tahunan", "Cuti Sakit", "Cuti Periodik", "Cuti Khusus"}

// LeaveRequest entity
type LeaveRequest struct {
	ID             string
	NIK            string
	Site           string
	Departemen     string
	JenisCuti      string
	JenisPengajuan JenisPengajuan

	TanggalPengajuan       time.Time
	PeriodeAwal            time.Time
	PeriodeAkhir           time.Time
	JumlahHari             int
	BerangkatDari          *string
	Tujuan                 *string
	TanggalKeberangkatan   *time.Time
	CutiPeriodikBerikutnya *time.Time
	Catatan                *string
	LamaOnsite             *int

	Status      Status
	SubmittedBy string

	// Booking, filled by HR ticketing
	BookingCode         *string
	NamaPesawat         *string
	JamKeberangkatan    *string
	BookingCodeIssuedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join (users LEFT JOIN)
	Employee *EmployeeSnapshot
}

// EmployeeSnapshot holds the display fields joined from users. Every field
// is nullable because the join is a LEFT JOIN.
type EmployeeSnapshot struct {
	Name           *string
	Email          *string
	Jabatan        *string
	Departemen     *string
	POH            *string
	StatusKaryawan *string
	NoKTP          *string
	NoTelp         *string
	TanggalLahir   *time.Time
	JenisKelamin   *string
}

// ApprovalHistory is an append-only audit row.
type ApprovalHistory struct {
	ID             string
	LeaveRequestID string
	ApproverNIK    string
	ApproverName   string
	ApproverRole   string
	Action         Action
	Notes          *string
	CreatedAt      time.Time
}

// Booking holds the ticketing side-channel fields.
type Booking struct {
	BookingCode      string
	NamaPesawat      *string
	JamKeberangkatan *string
	IssuedAt         time.Time
}

// Stats are counted from status membership only.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
