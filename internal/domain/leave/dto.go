package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/validator"
)

const (
	minNIKLength         = 3
	minBookingCodeLength = 3
	maxJumlahHari        = 365
)

type CreateLeaveRequestRequest struct {
	NIK                    string         `json:"nik"`
	JenisCuti              string         `json:"jenisCuti"`
	JenisPengajuan         JenisPengajuan `json:"jenisPengajuan"`
	TanggalPengajuan       string         `json:"tanggalPengajuan"`
	PeriodeAwal            string         `json:"periodeAwal"`
	PeriodeAkhir           string         `json:"periodeAkhir"`
	JumlahHari             int            `json:"jumlahHari"`
	BerangkatDari          *string        `json:"berangkatDari"`
	Tujuan                 *string        `json:"tujuan"`
	TanggalKeberangkatan   *string        `json:"tanggalKeberangkatan"`
	CutiPeriodikBerikutnya *string        `json:"cutiPeriodikBerikutnya"`
	Catatan                *string        `json:"catatan"`
	LamaOnsite             *int           `json:"lamaOnsite"`
	Site                   string         `json:"site"`
	Departemen             string         `json:"departemen"`
	SubmittedBy            string         `json:"submittedBy"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.NIK) {
		errs = append(errs, validator.ValidationError{Field: "nik", Message: "nik is required"})
	} else if len(strings.TrimSpace(r.NIK)) < minNIKLength {
		errs = append(errs, validator.ValidationError{Field: "nik", Message: "nik must be at least 3 characters"})
	}

	if validator.IsEmpty(r.JenisCuti) {
		errs = append(errs, validator.ValidationError{Field: "jenisCuti", Message: "jenisCuti is required"})
	} else if !validator.IsInSlice(r.JenisCuti, JenisCutiOptions) {
		errs = append(errs, validator.ValidationError{Field: "jenisCuti", Message: "jenisCuti must be one of: " + strings.Join(JenisCutiOptions, ", ")})
	}

	if r.JenisPengajuan == "" {
		r.JenisPengajuan = JenisPengajuanDenganTiket
	}
	if r.JenisPengajuan != JenisPengajuanDenganTiket && r.JenisPengajuan != JenisPengajuanLokal {
		errs = append(errs, validator.ValidationError{Field: "jenisPengajuan", Message: "jenisPengajuan must be 'dengan_tiket' or 'lokal'"})
	}

	if r.TanggalPengajuan != "" {
		if _, ok := validator.IsValidDate(r.TanggalPengajuan); !ok {
			errs = append(errs, validator.ValidationError{Field: "tanggalPengajuan", Message: "tanggalPengajuan must be in YYYY-MM-DD format"})
		}
	}

	var start, end time.Time
	var startOK, endOK bool
	if validator.IsEmpty(r.PeriodeAwal) {
		errs = append(errs, validator.ValidationError{Field: "periodeAwal", Message: "periodeAwal is required"})
	} else if start, startOK = validator.IsValidDate(r.PeriodeAwal); !startOK {
		errs = append(errs, validator.ValidationError{Field: "periodeAwal", Message: "periodeAwal must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.PeriodeAkhir) {
		errs = append(errs, validator.ValidationError{Field: "periodeAkhir", Message: "periodeAkhir is required"})
	} else if end, endOK = validator.IsValidDate(r.PeriodeAkhir); !endOK {
		errs = append(errs, validator.ValidationError{Field: "periodeAkhir", Message: "periodeAkhir must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "periodeAkhir", Message: "periodeAkhir must not be before periodeAwal"})
	}

	if r.JumlahHari < 1 || r.JumlahHari > maxJumlahHari {
		errs = append(errs, validator.ValidationError{Field: "jumlahHari", Message: "jumlahHari must be between 1 and 365"})
	}

	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}
	if validator.IsEmpty(r.Departemen) {
		errs = append(errs, validator.ValidationError{Field: "departemen", Message: "departemen is required"})
	}
	if validator.IsEmpty(r.SubmittedBy) {
		errs = append(errs, validator.ValidationError{Field: "submittedBy", Message: "submittedBy is required"})
	}

	if r.JenisPengajuan == JenisPengajuanDenganTiket {
		if r.BerangkatDari == nil || validator.IsEmpty(*r.BerangkatDari) {
			errs = append(errs, validator.ValidationError{Field: "berangkatDari", Message: "berangkatDari is required for ticketed leave"})
		}
		if r.Tujuan == nil || validator.IsEmpty(*r.Tujuan) {
			errs = append(errs, validator.ValidationError{Field: "tujuan", Message: "tujuan is required for ticketed leave"})
		}
		if r.TanggalKeberangkatan == nil || validator.IsEmpty(*r.TanggalKeberangkatan) {
			errs = append(errs, validator.ValidationError{Field: "tanggalKeberangkatan", Message: "tanggalKeberangkatan is required for ticketed leave"})
		}
	}
	if r.TanggalKeberangkatan != nil && !validator.IsEmpty(*r.TanggalKeberangkatan) {
		if _, ok := validator.IsValidDate(*r.TanggalKeberangkatan); !ok {
			errs = append(errs, validator.ValidationError{Field: "tanggalKeberangkatan", Message: "tanggalKeberangkatan must be in YYYY-MM-DD format"})
		}
	}
	if r.CutiPeriodikBerikutnya != nil && !validator.IsEmpty(*r.CutiPeriodikBerikutnya) {
		if _, ok := validator.IsValidDate(*r.CutiPeriodikBerikutnya); !ok {
			errs = append(errs, validator.ValidationError{Field: "cutiPeriodikBerikutnya", Message: "cutiPeriodikBerikutnya must be in YYYY-MM-DD format"})
		}
	}

	if r.LamaOnsite != nil && *r.LamaOnsite < 0 {
		errs = append(errs, validator.ValidationError{Field: "lamaOnsite", Message: "lamaOnsite must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionRequest is the body of the approve and reject actions.
type TransitionRequest struct {
	RequestID          string `json:"requestId"`
	ApproverNIK        string `json:"approverNik"`
	ApproverRole       string `json:"approverRole"`
	ApproverSite       string `json:"approverSite,omitempty"`
	ApproverDepartemen string `json:"approverDepartemen,omitempty"`
	Notes              string `json:"notes"`
	Action             Action `json:"-"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{Field: "requestId", Message: "requestId is required"})
	}
	if validator.IsEmpty(r.ApproverNIK) {
		errs = append(errs, validator.ValidationError{Field: "approverNik", Message: "approverNik is required"})
	}
	if validator.IsEmpty(r.ApproverRole) {
		errs = append(errs, validator.ValidationError{Field: "approverRole", Message: "approverRole is required"})
	}
	if !r.Action.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must be 'approved' or 'rejected'"})
	}
	if r.Action == ActionRejected && validator.IsEmpty(r.Notes) {
		errs = append(errs, validator.ValidationError{Field: "notes", Message: ErrNotesRequired.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateBookingRequest struct {
	RequestID        string  `json:"requestId"`
	BookingCode      string  `json:"bookingCode"`
	NamaPesawat      *string `json:"namaPesawat"`
	JamKeberangkatan *string `json:"jamKeberangkatan"`
	UpdatedBy        string  `json:"updatedBy"`
}

func (r *UpdateBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{Field: "requestId", Message: "requestId is required"})
	}
	code := strings.TrimSpace(r.BookingCode)
	if code == "" {
		errs = append(errs, validator.ValidationError{Field: "bookingCode", Message: "bookingCode is required"})
	} else if len(code) < minBookingCodeLength {
		errs = append(errs, validator.ValidationError{Field: "bookingCode", Message: "bookingCode must be at least 3 characters"})
	}
	if r.JamKeberangkatan != nil && !validator.IsEmpty(*r.JamKeberangkatan) && !validator.IsValidClock(*r.JamKeberangkatan) {
		errs = append(errs, validator.ValidationError{Field: "jamKeberangkatan", Message: "jamKeberangkatan must be in HH:MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScopeFilter identifies the caller of a pending/all/stats query.
type ScopeFilter struct {
	Role       string
	Site       string
	Departemen string
}

type AccessRequest struct {
	Role       string
	Site       string
	Departemen string
	RequestID  string
}

type AccessResult struct {
	Valid  bool   `json:"valid"`
	Level  Level  `json:"level,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// TransitionCommand is what the executor applies once access is granted.
type TransitionCommand struct {
	RequestID   string
	ApproverNIK string
	Action      Action
	Notes       string
	Level       Level
}

type TransitionResult struct {
	RequestID      string    `json:"requestId"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	HistoryID      string    `json:"historyId"`
	Action         Action    `json:"action"`
	Level          Level     `json:"level"`
	ProcessedAt    time.Time `json:"processedAt"`
}

type LeaveRequestResponse struct {
	ID                     string         `json:"id"`
	NIK                    string         `json:"nik"`
	Site                   string         `json:"site"`
	Departemen             string         `json:"departemen"`
	JenisCuti              string         `json:"jenisCuti"`
	JenisPengajuan         JenisPengajuan `json:"jenisPengajuan"`
	TanggalPengajuan       string         `json:"tanggalPengajuan"`
	PeriodeAwal            string         `json:"periodeAwal"`
	PeriodeAkhir           string         `json:"periodeAkhir"`
	JumlahHari             int            `json:"jumlahHari"`
	BerangkatDari          *string        `json:"berangkatDari"`
	Tujuan                 *string        `json:"tujuan"`
	TanggalKeberangkatan   *string        `json:"tanggalKeberangkatan"`
	CutiPeriodikBerikutnya *string        `json:"cutiPeriodikBerikutnya"`
	Catatan                *string        `json:"catatan"`
	LamaOnsite             *int           `json:"lamaOnsite"`
	Status                 Status         `json:"status"`
	SubmittedBy            string         `json:"submittedBy"`
	BookingCode            *string        `json:"bookingCode"`
	NamaPesawat            *string        `json:"namaPesawat"`
	JamKeberangkatan       *string        `json:"jamKeberangkatan"`
	BookingCodeIssuedAt    *time.Time     `json:"bookingCodeIssuedAt"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`

	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Jabatan        *string `json:"jabatan"`
	POH            *string `json:"poh"`
	StatusKaryawan *string `json:"statusKaryawan"`
	NoKTP          *string `json:"noKtp"`
	NoTelp         *string `json:"noTelp"`
	TanggalLahir   *string `json:"tanggalLahir"`
	JenisKelamin   *string `json:"jenisKelamin"`
}

type ApprovalHistoryResponse struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leaveRequestId"`
	ApproverNIK    string    `json:"approverNik"`
	ApproverName   string    `json:"approverName"`
	ApproverRole   string    `json:"approverRole"`
	Action         Action    `json:"action"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func (lr LeaveRequest) ToResponse() LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                     lr.ID,
		NIK:                    lr.NIK,
		Site:                   lr.Site,
		Departemen:             lr.Departemen,
		JenisCuti:              lr.JenisCuti,
		JenisPengajuan:         lr.JenisPengajuan,
		TanggalPengajuan:       lr.TanggalPengajuan.Format(dateLayout),
		PeriodeAwal:            lr.PeriodeAwal.Format(dateLayout),
		PeriodeAkhir:           lr.PeriodeAkhir.Format(dateLayout),
		JumlahHari:             lr.JumlahHari,
		BerangkatDari:          lr.BerangkatDari,
		Tujuan:                 lr.Tujuan,
		TanggalKeberangkatan:   formatDate(lr.TanggalKeberangkatan),
		CutiPeriodikBerikutnya: formatDate(lr.CutiPeriodikBerikutnya),
		Catatan:                lr.Catatan,
		LamaOnsite:             lr.LamaOnsite,
		Status:                 lr.Status,
		SubmittedBy:            lr.SubmittedBy,
		BookingCode:            lr.BookingCode,
		NamaPesawat:            lr.NamaPesawat,
		JamKeberangkatan:       lr.JamKeberangkatan,
		BookingCodeIssuedAt:    lr.BookingCodeIssuedAt,
		CreatedAt:              lr.CreatedAt,
		UpdatedAt:              lr.UpdatedAt,
	}
	if e := lr.Employee; e != nil {
		resp.Name = e.Name
		resp.Email = e.Email
		resp.Jabatan = e.Jabatan
		resp.POH = e.POH
		resp.StatusKaryawan = e.StatusKaryawan
		resp.NoKTP = e.NoKTP
		resp.NoTelp = e.NoTelp
		resp.TanggalLahir = formatDate(e.TanggalLahir)
		resp.JenisKelamin = e.JenisKelamin
	}
	return resp
}

func ToResponses(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		out = append(out, lr.ToResponse())
	}
	return out
}

func (h ApprovalHistory) ToResponse() ApprovalHistoryResponse {
	return ApprovalHistoryResponse{
		ID:             h.ID,
		LeaveRequestID: h.LeaveRequestID,
		ApproverNIK:    h.ApproverNIK,
		ApproverName:   h.ApproverName,
		ApproverRole:   h.ApproverRole,
		Action:         h.Action,
		Notes:          h.Notes,
		CreatedAt:      h.CreatedAt,
	}
}

func HistoryToResponses(history []ApprovalHistory) []ApprovalHistoryResponse {
	out := make([]ApprovalHistoryResponse, 0, len(history))
	for _, h := range history {
		out = append(out, h.ToResponse())
	}
	return out
}
