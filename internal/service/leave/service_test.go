package leave

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

// ===== CREATE =====

func TestWorkflowService_CreateLeaveRequest_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	resp, err := f.svc.CreateLeaveRequest(ctx, leave.CreateLeaveRequestRequest{
		NIK:                  "EMP001",
		JenisCuti:            "Cuti Periodik",
		PeriodeAwal:          "2025-02-01",
		PeriodeAkhir:         "2025-02-14",
		JumlahHari:           14,
		BerangkatDari:        strPtr("Jakarta"),
		Tujuan:               strPtr("Balikpapan"),
		TanggalKeberangkatan: strPtr("2025-02-01"),
		Site:                 "BSF",
		Departemen:           "Produksi",
		SubmittedBy:          "ADM001",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, leave.StatusPendingDIC, resp.Status)
	assert.Equal(t, leave.JenisPengajuanDenganTiket, resp.JenisPengajuan)
	assert.Equal(t, "2025-01-06", resp.TanggalPengajuan)
	require.NotNil(t, resp.TanggalKeberangkatan)
	assert.Equal(t, "2025-02-01", *resp.TanggalKeberangkatan)
	assert.Equal(t, leave.StatusPendingDIC, f.store.request(resp.ID).Status)
}

func TestWorkflowService_CreateLeaveRequest_ValidationError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.CreateLeaveRequest(ctx, leave.CreateLeaveRequestRequest{
		NIK:          "E1",
		JenisCuti:    "Cuti Liburan",
		PeriodeAwal:  "2025-02-14",
		PeriodeAkhir: "2025-02-01",
		JumlahHari:   0,
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	for _, field := range []string{"nik", "jenisCuti", "periodeAkhir", "jumlahHari", "site", "departemen", "submittedBy", "berangkatDari"} {
		assert.Contains(t, fields, field)
	}
	assert.Empty(t, f.store.requests)
}

func TestWorkflowService_CreateLeaveRequest_LokalNeedsNoTravel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	resp, err := f.svc.CreateLeaveRequest(ctx, leave.CreateLeaveRequestRequest{
		NIK:            "EMP001",
		JenisCuti:      "Cuti Sakit",
		JenisPengajuan: leave.JenisPengajuanLokal,
		PeriodeAwal:    "2025-02-01",
		PeriodeAkhir:   "2025-02-02",
		JumlahHari:     2,
		Site:           "BSF",
		Departemen:     "Produksi",
		SubmittedBy:    "EMP001",
	})

	require.NoError(t, err)
	assert.Equal(t, leave.JenisPengajuanLokal, resp.JenisPengajuan)
}

// ===== ACCESS VALIDATOR =====

func TestWorkflowService_ValidateAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-dic", leave.StatusPendingDIC)
	f.seed("req-pjo", leave.StatusPendingPJO)
	f.seed("req-done", leave.StatusTiketIssued)

	tests := []struct {
		name   string
		req    leave.AccessRequest
		valid  bool
		level  leave.Level
		reason error
	}{
		{"dic in scope", leave.AccessRequest{Role: "dic", Site: "BSF", Departemen: "Produksi", RequestID: "req-dic"}, true, leave.LevelDIC, nil},
		{"dic without department", leave.AccessRequest{Role: "dic", Site: "BSF", RequestID: "req-dic"}, false, "", leave.ErrDepartmentRequired},
		{"dic other department", leave.AccessRequest{Role: "dic", Site: "BSF", Departemen: "HSE", RequestID: "req-dic"}, false, "", leave.ErrOutOfScope},
		{"pjo before dic", leave.AccessRequest{Role: "pjo_site", Site: "BSF", RequestID: "req-dic"}, false, "", leave.ErrStatusMismatch},
		{"pjo in scope", leave.AccessRequest{Role: "pjo_site", Site: "BSF", RequestID: "req-pjo"}, true, leave.LevelPJOSite, nil},
		{"pjo other site", leave.AccessRequest{Role: "pjo_site", Site: "MIP", RequestID: "req-pjo"}, false, "", leave.ErrOutOfScope},
		{"hr_ho wrong stage", leave.AccessRequest{Role: "hr_ho", RequestID: "req-pjo"}, false, "", leave.ErrStatusMismatch},
		{"unknown role", leave.AccessRequest{Role: "hr_site", Site: "BSF", RequestID: "req-pjo"}, false, "", leave.ErrUnknownLevel},
		{"terminal", leave.AccessRequest{Role: "hr_ticketing", RequestID: "req-done"}, false, "", leave.ErrTerminalStatus},
		{"missing request", leave.AccessRequest{Role: "dic", Site: "BSF", Departemen: "Produksi", RequestID: "nope"}, false, "", leave.ErrLeaveRequestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.svc.ValidateAccess(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.level, result.Level)
			if tt.reason != nil {
				assert.Equal(t, tt.reason.Error(), result.Reason)
			} else {
				assert.Empty(t, result.Reason)
			}
		})
	}
}

func TestWorkflowService_ValidateAccess_DoesNotMutate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	before := f.seed("req-1", leave.StatusPendingDIC)

	_, err := f.svc.ValidateAccess(ctx, leave.AccessRequest{Role: "dic", Site: "BSF", Departemen: "Produksi", RequestID: "req-1"})
	require.NoError(t, err)

	assert.Equal(t, before, f.store.request("req-1"))
	assert.Empty(t, f.store.historyFor("req-1"))
}

// ===== TRANSITIONS =====

func TestWorkflowService_Approve_DICMovesToPJO(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	result, err := f.svc.Approve(ctx, leave.TransitionRequest{
		RequestID:    "req-1",
		ApproverNIK:  "DIC001",
		ApproverRole: "dic",
		Notes:        "ok",
	})

	require.NoError(t, err)
	assert.Equal(t, leave.StatusPendingDIC, result.PreviousStatus)
	assert.Equal(t, leave.StatusPendingPJO, result.NewStatus)
	assert.Equal(t, leave.LevelDIC, result.Level)
	assert.Equal(t, leave.StatusPendingPJO, f.store.request("req-1").Status)

	history := f.store.historyFor("req-1")
	require.Len(t, history, 1)
	assert.Equal(t, leave.ActionApproved, history[0].Action)
	assert.Equal(t, "DIC001", history[0].ApproverNIK)
	assert.Equal(t, "Dian", history[0].ApproverName)
	assert.Equal(t, "dic", history[0].ApproverRole)
	require.NotNil(t, history[0].Notes)
	assert.Equal(t, "ok", *history[0].Notes)
	assert.Equal(t, history[0].ID, result.HistoryID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventLeaveTransition, f.publisher.events[0].Name)
	assert.ElementsMatch(t, []string{"EMP001", "ADM001"}, f.publisher.keys[0])
}

func TestWorkflowService_Approve_FullTicketChain(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	steps := []struct {
		nik, role string
		want      leave.Status
	}{
		{"DIC001", "dic", leave.StatusPendingPJO},
		{"PJO001", "pjo_site", leave.StatusPendingHRHO},
		{"HRHO01", "hr_ho", leave.StatusDiProses},
		{"TIX001", "hr_ticketing", leave.StatusTiketIssued},
	}
	for _, step := range steps {
		result, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: step.nik, ApproverRole: step.role})
		require.NoError(t, err, step.role)
		assert.Equal(t, step.want, result.NewStatus)
		assert.True(t, result.NewStatus.IsValid())
	}

	history := f.store.historyFor("req-1")
	require.Len(t, history, 4)
	for i, step := range steps {
		assert.Equal(t, step.nik, history[i].ApproverNIK)
		assert.Nil(t, history[i].Notes)
	}
}

func TestWorkflowService_Approve_LokalSkipsTicketing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingHRHO, func(lr *leave.LeaveRequest) {
		lr.JenisPengajuan = leave.JenisPengajuanLokal
	})

	result, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "HRHO01", ApproverRole: "hr_ho"})

	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, result.NewStatus)
	assert.True(t, f.store.request("req-1").Status.IsTerminal())
}

func TestWorkflowService_Approve_WrongStageIsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	before := f.seed("req-1", leave.StatusPendingDIC)

	_, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "PJO001", ApproverRole: "pjo_site"})

	require.ErrorIs(t, err, leave.ErrAccessDenied)
	assert.Contains(t, err.Error(), leave.ErrStatusMismatch.Error())
	assert.Equal(t, before, f.store.request("req-1"))
	assert.Empty(t, f.store.historyFor("req-1"))
	assert.Empty(t, f.publisher.events)
}

func TestWorkflowService_Approve_ScopeFromApproverRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingPJO)

	_, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "PJO002", ApproverRole: "pjo_site"})
	require.ErrorIs(t, err, leave.ErrAccessDenied)

	_, err = f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "PJO001", ApproverRole: "pjo_site"})
	require.NoError(t, err)
}

func TestWorkflowService_Approve_DICWithoutDepartmentIsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	_, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "DIC002", ApproverRole: "dic"})

	require.ErrorIs(t, err, leave.ErrAccessDenied)
	assert.Contains(t, err.Error(), leave.ErrDepartmentRequired.Error())
	assert.Equal(t, leave.StatusPendingDIC, f.store.request("req-1").Status)
}

func TestWorkflowService_Approve_SecondCallFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)
	req := leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "DIC001", ApproverRole: "dic", Notes: "ok"}

	_, err := f.svc.Approve(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req)
	require.ErrorIs(t, err, leave.ErrAccessDenied)
	assert.Len(t, f.store.historyFor("req-1"), 1)
	assert.Equal(t, leave.StatusPendingPJO, f.store.request("req-1").Status)
}

func TestWorkflowService_Reject_RequiresNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingHRHO)

	_, err := f.svc.Reject(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "HRHO01", ApproverRole: "hr_ho", Notes: "  "})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "notes")
	assert.Equal(t, leave.StatusPendingHRHO, f.store.request("req-1").Status)
	assert.Empty(t, f.store.historyFor("req-1"))
}

func TestWorkflowService_Reject_EachLevel(t *testing.T) {
	tests := []struct {
		nik, role string
		from      leave.Status
		want      leave.Status
	}{
		{"DIC001", "dic", leave.StatusPendingDIC, leave.StatusDitolakDIC},
		{"PJO001", "pjo_site", leave.StatusPendingPJO, leave.StatusDitolakPJO},
		{"HRHO01", "hr_ho", leave.StatusPendingHRHO, leave.StatusDitolakHRHO},
		{"TIX001", "hr_ticketing", leave.StatusDiProses, leave.StatusDiProses},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			f.seed("req-1", tt.from)

			result, err := f.svc.Reject(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: tt.nik, ApproverRole: tt.role, Notes: "tidak sesuai"})

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.NewStatus)
			assert.Equal(t, tt.want, f.store.request("req-1").Status)
			history := f.store.historyFor("req-1")
			require.Len(t, history, 1)
			assert.Equal(t, leave.ActionRejected, history[0].Action)
			assert.Equal(t, "tidak sesuai", *history[0].Notes)
		})
	}
}

// ===== EXECUTOR =====

func TestWorkflowService_Execute_ApproverNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	_, err := f.svc.Execute(ctx, leave.TransitionCommand{RequestID: "req-1", ApproverNIK: "GHOST", Action: leave.ActionApproved, Level: leave.LevelDIC})

	assert.ErrorIs(t, err, leave.ErrApproverNotFound)
	assert.Equal(t, leave.StatusPendingDIC, f.store.request("req-1").Status)
}

func TestWorkflowService_Execute_RequestNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Execute(ctx, leave.TransitionCommand{RequestID: "nope", ApproverNIK: "DIC001", Action: leave.ActionApproved, Level: leave.LevelDIC})

	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestWorkflowService_Execute_StaleStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingPJO)

	_, err := f.svc.Execute(ctx, leave.TransitionCommand{RequestID: "req-1", ApproverNIK: "DIC001", Action: leave.ActionApproved, Level: leave.LevelDIC})

	assert.ErrorIs(t, err, leave.ErrStaleStatus)
	assert.Equal(t, leave.StatusPendingPJO, f.store.request("req-1").Status)
	assert.Empty(t, f.store.historyFor("req-1"))
}

func TestWorkflowService_Execute_HistoryFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)
	f.store.historyErr = errBoom

	_, err := f.svc.Execute(ctx, leave.TransitionCommand{RequestID: "req-1", ApproverNIK: "DIC001", Action: leave.ActionApproved, Level: leave.LevelDIC})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, leave.StatusPendingDIC, f.store.request("req-1").Status)
	assert.Empty(t, f.publisher.events)
}

func TestWorkflowService_Execute_ConcurrentApprovalsCommitOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		stale     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Execute(ctx, leave.TransitionCommand{RequestID: "req-1", ApproverNIK: "DIC001", Action: leave.ActionApproved, Level: leave.LevelDIC})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, leave.ErrStaleStatus):
				stale++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, stale)
	assert.Len(t, f.store.historyFor("req-1"), 1)
	assert.Equal(t, leave.StatusPendingPJO, f.store.request("req-1").Status)
}

// ===== BOOKING =====

func TestWorkflowService_UpdateBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusDiProses)
	f.seed("req-2", leave.StatusPendingHRHO)

	resp, err := f.svc.UpdateBooking(ctx, leave.UpdateBookingRequest{
		RequestID:        "req-1",
		BookingCode:      " ABC123 ",
		NamaPesawat:      strPtr("Garuda"),
		JamKeberangkatan: strPtr("07:45"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.BookingCode)
	assert.Equal(t, "ABC123", *resp.BookingCode)
	assert.NotNil(t, resp.BookingCodeIssuedAt)
	assert.Equal(t, leave.StatusDiProses, resp.Status)
	assert.Empty(t, f.store.historyFor("req-1"))

	_, err = f.svc.UpdateBooking(ctx, leave.UpdateBookingRequest{RequestID: "req-2", BookingCode: "ABC123"})
	assert.ErrorIs(t, err, leave.ErrBookingNotAllowed)

	_, err = f.svc.UpdateBooking(ctx, leave.UpdateBookingRequest{RequestID: "req-1", BookingCode: "AB"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "bookingCode")
}

// ===== QUERIES =====

func seedQueryData(f *fixture) {
	f.seed("a", leave.StatusPendingDIC)
	f.seed("b", leave.StatusPendingDIC, func(lr *leave.LeaveRequest) { lr.Departemen = "HSE" })
	f.seed("c", leave.StatusPendingPJO)
	f.seed("d", leave.StatusPendingPJO, func(lr *leave.LeaveRequest) { lr.Site = "MIP" })
	f.seed("e", leave.StatusPendingHRHO)
	f.seed("f", leave.StatusDiProses)
	f.seed("g", leave.StatusTiketIssued)
	f.seed("h", leave.StatusDitolakDIC)
	f.seed("i", leave.StatusApproved, func(lr *leave.LeaveRequest) { lr.NIK = "EMP002" })
}

func ids(list []leave.LeaveRequestResponse) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestWorkflowService_ListPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedQueryData(f)

	tests := []struct {
		name  string
		scope leave.ScopeFilter
		want  []string
	}{
		{"dic", leave.ScopeFilter{Role: "dic", Site: "BSF", Departemen: "Produksi"}, []string{"a"}},
		{"dic without department", leave.ScopeFilter{Role: "dic", Site: "BSF"}, []string{}},
		{"pjo", leave.ScopeFilter{Role: "pjo_site", Site: "BSF"}, []string{"c"}},
		{"pjo without site", leave.ScopeFilter{Role: "pjo_site"}, []string{}},
		{"hr_ho", leave.ScopeFilter{Role: "hr_ho"}, []string{"e"}},
		{"hr_ticketing", leave.ScopeFilter{Role: "hr_ticketing"}, []string{"f"}},
		{"hr_site", leave.ScopeFilter{Role: "hr_site", Site: "BSF"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListPending(ctx, tt.scope)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestWorkflowService_ListAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedQueryData(f)

	tests := []struct {
		name  string
		scope leave.ScopeFilter
		want  []string
	}{
		{"hr_site", leave.ScopeFilter{Role: "hr_site", Site: "MIP"}, []string{"d"}},
		{"admin_site", leave.ScopeFilter{Role: "admin_site", Site: "BSF"}, []string{"a", "b", "c", "e", "f", "g", "h", "i"}},
		{"dic", leave.ScopeFilter{Role: "dic", Site: "BSF", Departemen: "HSE"}, []string{"b"}},
		{"hr_ho", leave.ScopeFilter{Role: "hr_ho"}, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}},
		{"super_admin", leave.ScopeFilter{Role: "super_admin"}, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}},
		{"user", leave.ScopeFilter{Role: "user", Site: "BSF"}, []string{}},
		{"unknown", leave.ScopeFilter{Role: "guest"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListAll(ctx, tt.scope)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestWorkflowService_ListByNIK(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedQueryData(f)

	got, err := f.svc.ListByNIK(ctx, "EMP002")
	require.NoError(t, err)
	assert.Equal(t, []string{"i"}, ids(got))

	got, err = f.svc.ListByNIK(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkflowService_GetStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedQueryData(f)

	stats, err := f.svc.GetStats(ctx, leave.ScopeFilter{Role: "hr_ho"})
	require.NoError(t, err)
	assert.Equal(t, leave.Stats{Total: 9, Pending: 1, Approved: 3, Rejected: 1}, stats)

	stats, err = f.svc.GetStats(ctx, leave.ScopeFilter{Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, leave.Stats{}, stats)
}

func TestWorkflowService_GetStats_StorageError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.listErr = errBoom

	_, err := f.svc.GetStats(ctx, leave.ScopeFilter{Role: "hr_ho"})
	assert.ErrorIs(t, err, errBoom)
}

func TestWorkflowService_GetHistory_Ordered(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("req-1", leave.StatusPendingDIC)

	_, err := f.svc.Approve(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "DIC001", ApproverRole: "dic"})
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, leave.TransitionRequest{RequestID: "req-1", ApproverNIK: "PJO001", ApproverRole: "pjo_site", Notes: "kuota habis"})
	require.NoError(t, err)

	history, err := f.svc.GetHistory(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "dic", history[0].ApproverRole)
	assert.Equal(t, "pjo_site", history[1].ApproverRole)
	assert.True(t, history[0].CreatedAt.Before(history[1].CreatedAt))
}

func TestWorkflowService_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedQueryData(f)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, leave.ScopeFilter{Role: "hr_site", Site: "MIP"}, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Equal(t, "EMP001", rows[1][0])
	assert.Equal(t, "MIP", rows[1][3])
	assert.Equal(t, "Jakarta - Balikpapan", rows[1][13])
}

func TestHakTiket(t *testing.T) {
	assert.Equal(t, "12 MINGGU", hakTiket(strPtr("GL Produksi")))
	assert.Equal(t, "10 MINGGU", hakTiket(strPtr("Supervisor")))
	assert.Equal(t, "8 MINGGU", hakTiket(strPtr("PJO")))
	assert.Equal(t, "-", hakTiket(strPtr("Operator")))
	assert.Equal(t, "-", hakTiket(nil))
}
