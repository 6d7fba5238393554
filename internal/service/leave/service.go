package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// EventPublisher receives transition events after commit.
type EventPublisher interface {
	PublishToMany(keys []string, event sse.Event)
}

const EventLeaveTransition = "leave.transition"

// bookingStatuses are the statuses where the ticket booking may be edited.
var bookingStatuses = []leave.Status{leave.StatusDiProses, leave.StatusTiketIssued}

type workflowService struct {
	transactor       database.Transactor
	leaveRequestRepo leave.LeaveRequestRepository
	historyRepo      leave.ApprovalHistoryRepository
	employeeRepo     employee.EmployeeRepository
	publisher        EventPublisher
	now              func() time.Time
}

func NewWorkflowService(
	transactor database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	historyRepo leave.ApprovalHistoryRepository,
	employeeRepo employee.EmployeeRepository,
	publisher EventPublisher,
) leave.WorkflowService {
	return &workflowService{
		transactor:       transactor,
		leaveRequestRepo: leaveRequestRepo,
		historyRepo:      historyRepo,
		employeeRepo:     employeeRepo,
		publisher:        publisher,
		now:              time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// CreateLeaveRequest implements leave.WorkflowService.
func (s *workflowService) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	// Validate already proved these parse.
	periodeAwal, _ := time.Parse(dateLayout, req.PeriodeAwal)
	periodeAkhir, _ := time.Parse(dateLayout, req.PeriodeAkhir)
	tanggalPengajuan := s.now()
	if req.TanggalPengajuan != "" {
		tanggalPengajuan, _ = time.Parse(dateLayout, req.TanggalPengajuan)
	}

	request := leave.LeaveRequest{
		ID:                     newID(),
		NIK:                    strings.TrimSpace(req.NIK),
		Site:                   strings.TrimSpace(req.Site),
		Departemen:             strings.TrimSpace(req.Departemen),
		JenisCuti:              req.JenisCuti,
		JenisPengajuan:         req.JenisPengajuan,
		TanggalPengajuan:       tanggalPengajuan,
		PeriodeAwal:            periodeAwal,
		PeriodeAkhir:           periodeAkhir,
		JumlahHari:             req.JumlahHari,
		BerangkatDari:          req.BerangkatDari,
		Tujuan:                 req.Tujuan,
		TanggalKeberangkatan:   parseOptionalDate(req.TanggalKeberangkatan),
		CutiPeriodikBerikutnya: parseOptionalDate(req.CutiPeriodikBerikutnya),
		Catatan:                req.Catatan,
		LamaOnsite:             req.LamaOnsite,
		Status:                 leave.StatusPendingDIC,
		SubmittedBy:            strings.TrimSpace(req.SubmittedBy),
	}

	created, err := s.leaveRequestRepo.Create(ctx, request)
	if err != nil {
		slog.Error("CreateLeaveRequest failed", "nik", request.NIK, "error", err)
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	metrics.RecordCreated(metrics.EntityLeave)

	enriched, err := s.leaveRequestRepo.GetByID(ctx, created.ID)
	if err != nil {
		// The insert committed; fall back to what we wrote.
		slog.Warn("CreateLeaveRequest reload failed", "id", created.ID, "error", err)
		return created.ToResponse(), nil
	}
	return enriched.ToResponse(), nil
}

// UpdateBooking implements leave.WorkflowService.
func (s *workflowService) UpdateBooking(ctx context.Context, req leave.UpdateBookingRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.leaveRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusDiProses && request.Status != leave.StatusTiketIssued {
		metrics.RecordBookingUpdate(metrics.ResultDenied)
		return leave.LeaveRequestResponse{}, leave.ErrBookingNotAllowed
	}

	booking := leave.Booking{
		BookingCode:      strings.TrimSpace(req.BookingCode),
		NamaPesawat:      req.NamaPesawat,
		JamKeberangkatan: req.JamKeberangkatan,
		IssuedAt:         s.now(),
	}
	if err := s.leaveRequestRepo.UpdateBooking(ctx, req.RequestID, booking, bookingStatuses); err != nil {
		if errors.Is(err, leave.ErrBookingNotAllowed) {
			metrics.RecordBookingUpdate(metrics.ResultConflict)
			return leave.LeaveRequestResponse{}, err
		}
		metrics.RecordBookingUpdate(metrics.ResultError)
		slog.Error("UpdateBooking failed", "request_id", req.RequestID, "error", err)
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update booking: %w", err)
	}
	metrics.RecordBookingUpdate(metrics.ResultSuccess)

	updated, err := s.leaveRequestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to reload leave request: %w", err)
	}
	return updated.ToResponse(), nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
