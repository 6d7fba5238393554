package leave

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/sse"
)

// memStore backs the in-memory repositories used by the service tests.
type memStore struct {
	mu        sync.Mutex
	requests  map[string]leave.LeaveRequest
	history   []leave.ApprovalHistory
	employees map[string]employee.Employee

	historyErr error
	listErr    error
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		requests:  make(map[string]leave.LeaveRequest),
		employees: make(map[string]employee.Employee),
		clock:     time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) request(id string) leave.LeaveRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id]
}

func (m *memStore) historyFor(id string) []leave.ApprovalHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.ApprovalHistory
	for _, h := range m.history {
		if h.LeaveRequestID == id {
			out = append(out, h)
		}
	}
	return out
}

type memLeaveRepo struct{ *memStore }

func (r memLeaveRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests[request.ID] = request
	return request, nil
}

func (r memLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lr, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return lr, nil
}

func (r memLeaveRepo) List(ctx context.Context, q leave.ListQuery) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]leave.LeaveRequest, 0)
	for _, lr := range r.requests {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, lr.Status) {
			continue
		}
		if q.Site != "" && lr.Site != q.Site {
			continue
		}
		if q.Departemen != "" && lr.Departemen != q.Departemen {
			continue
		}
		if q.NIK != "" && lr.NIK != q.NIK {
			continue
		}
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memLeaveRepo) TransitionStatus(ctx context.Context, id string, from, to leave.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lr, ok := r.requests[id]
	if !ok || lr.Status != from {
		return leave.ErrStaleStatus
	}
	lr.Status = to
	lr.UpdatedAt = r.tick()
	r.requests[id] = lr
	return nil
}

func (r memLeaveRepo) UpdateBooking(ctx context.Context, id string, booking leave.Booking, allowed []leave.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lr, ok := r.requests[id]
	if !ok || !containsStatus(allowed, lr.Status) {
		return leave.ErrBookingNotAllowed
	}
	code := booking.BookingCode
	lr.BookingCode = &code
	if booking.NamaPesawat != nil {
		lr.NamaPesawat = booking.NamaPesawat
	}
	if booking.JamKeberangkatan != nil {
		lr.JamKeberangkatan = booking.JamKeberangkatan
	}
	issued := booking.IssuedAt
	lr.BookingCodeIssuedAt = &issued
	lr.UpdatedAt = r.tick()
	r.requests[id] = lr
	return nil
}

type memHistoryRepo struct{ *memStore }

func (r memHistoryRepo) Create(ctx context.Context, entry leave.ApprovalHistory) (leave.ApprovalHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.historyErr != nil {
		return leave.ApprovalHistory{}, r.historyErr
	}
	entry.CreatedAt = r.tick()
	r.history = append(r.history, entry)
	return entry, nil
}

func (r memHistoryRepo) ListByRequestID(ctx context.Context, requestID string) ([]leave.ApprovalHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.ApprovalHistory, 0)
	for _, h := range r.history {
		if h.LeaveRequestID == requestID {
			out = append(out, h)
		}
	}
	return out, nil
}

type memEmployeeRepo struct{ *memStore }

func (r memEmployeeRepo) GetByNIK(ctx context.Context, nik string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[nik]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// memTx serializes transactions and restores the store when fn fails.
type memTx struct {
	store *memStore
	mu    sync.Mutex
}

func (t *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.mu.Lock()
	requests := make(map[string]leave.LeaveRequest, len(t.store.requests))
	for k, v := range t.store.requests {
		requests[k] = v
	}
	history := append([]leave.ApprovalHistory(nil), t.store.history...)
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.requests = requests
		t.store.history = history
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	keys   [][]string
	events []sse.Event
}

func (p *recordingPublisher) PublishToMany(keys []string, event sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, keys)
	p.events = append(p.events, event)
}

func containsStatus(list []leave.Status, s leave.Status) bool {
	for _, st := range list {
		if st == s {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")

type fixture struct {
	store     *memStore
	publisher *recordingPublisher
	svc       *workflowService
}

func newFixture() *fixture {
	store := newMemStore()
	publisher := &recordingPublisher{}
	svc := NewWorkflowService(
		&memTx{store: store},
		memLeaveRepo{store},
		memHistoryRepo{store},
		memEmployeeRepo{store},
		publisher,
	).(*workflowService)
	svc.now = func() time.Time { return time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC) }

	dept := "Produksi"
	for _, e := range []employee.Employee{
		{NIK: "DIC001", Name: "Dian", Role: employee.RoleDIC, Site: "BSF", Departemen: &dept},
		{NIK: "DIC002", Name: "Dodi", Role: employee.RoleDIC, Site: "BSF"},
		{NIK: "PJO001", Name: "Putra", Role: employee.RolePJOSite, Site: "BSF"},
		{NIK: "PJO002", Name: "Pandu", Role: employee.RolePJOSite, Site: "MIP"},
		{NIK: "HRHO01", Name: "Hana", Role: employee.RoleHRHO, Site: "HO"},
		{NIK: "TIX001", Name: "Tari", Role: employee.RoleHRTicketing, Site: "HO"},
		{NIK: "EMP001", Name: "Eko", Role: employee.RoleUser, Site: "BSF", Departemen: &dept},
	} {
		store.employees[e.NIK] = e
	}

	return &fixture{store: store, publisher: publisher, svc: svc}
}

// seed inserts a request directly in status s.
func (f *fixture) seed(id string, s leave.Status, mutate ...func(*leave.LeaveRequest)) leave.LeaveRequest {
	from, to := "Jakarta", "Balikpapan"
	lr := leave.LeaveRequest{
		ID:             id,
		NIK:            "EMP001",
		Site:           "BSF",
		Departemen:     "Produksi",
		JenisCuti:      "Cuti Periodik",
		JenisPengajuan: leave.JenisPengajuanDenganTiket,
		PeriodeAwal:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodeAkhir:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		JumlahHari:     14,
		BerangkatDari:  &from,
		Tujuan:         &to,
		Status:         s,
		SubmittedBy:    "ADM001",
	}
	for _, m := range mutate {
		m(&lr)
	}
	created, _ := memLeaveRepo{f.store}.Create(context.Background(), lr)
	return created
}
