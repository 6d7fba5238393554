package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/sse"
)

const maxBodyBytes = 1 << 20

type WorkflowHandler interface {
	// Get dispatches ?action=pending|all|stats|detail|history|user-requests.
	Get(w http.ResponseWriter, r *http.Request)
	// Post dispatches {action: create|approve|reject|update-booking}.
	Post(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// SSE
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

// EventSubscriber is the read side of the SSE hub.
type EventSubscriber interface {
	Subscribe(key string) (<-chan sse.Event, func())
}

type WorkflowHandlerImpl struct {
	workflowService leave.WorkflowService
	events          EventSubscriber
	jwtService      jwt.Service
}

// NewWorkflowHandler builds the /api/workflow handler. jwtService may be nil,
// in which case the event stream is keyed by the nik query parameter.
func NewWorkflowHandler(workflowService leave.WorkflowService, events EventSubscriber, jwtService jwt.Service) WorkflowHandler {
	return &WorkflowHandlerImpl{
		workflowService: workflowService,
		events:          events,
		jwtService:      jwtService,
	}
}

// scopeFromRequest reads the caller scope from the query string. An
// authenticated identity wins over whatever the query claims.
func scopeFromRequest(r *http.Request) leave.ScopeFilter {
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		return leave.ScopeFilter{Role: identity.Role, Site: identity.Site, Departemen: identity.Departemen}
	}
	q := r.URL.Query()
	return leave.ScopeFilter{
		Role:       strings.TrimSpace(q.Get("role")),
		Site:       strings.TrimSpace(q.Get("site")),
		Departemen: strings.TrimSpace(q.Get("departemen")),
	}
}

// requiredScope returns the caller scope for the pending, all, stats and
// export actions. Without an authenticated identity both role and site must
// be given; a 400 has already been written when ok is false.
func requiredScope(w http.ResponseWriter, r *http.Request) (leave.ScopeFilter, bool) {
	scope := scopeFromRequest(r)
	if _, authenticated := middleware.IdentityFromContext(r.Context()); authenticated {
		if scope.Role == "" {
			response.WorkflowBadRequest(w, "role is required", nil)
			return scope, false
		}
		return scope, true
	}
	if scope.Role == "" || scope.Site == "" {
		response.WorkflowBadRequest(w, "role and site are required", nil)
		return scope, false
	}
	return scope, true
}

// Get implements WorkflowHandler.
func (h *WorkflowHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	action := q.Get("action")

	switch action {
	case "pending", "all", "stats":
		scope, ok := requiredScope(w, r)
		if !ok {
			return
		}

		var (
			data interface{}
			err  error
		)
		switch action {
		case "pending":
			data, err = h.workflowService.ListPending(ctx, scope)
		case "all":
			data, err = h.workflowService.ListAll(ctx, scope)
		default:
			data, err = h.workflowService.GetStats(ctx, scope)
		}
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, data)

	case "detail", "history":
		id := strings.TrimSpace(q.Get("id"))
		if id == "" {
			response.WorkflowBadRequest(w, "id is required", nil)
			return
		}

		var (
			data interface{}
			err  error
		)
		if action == "detail" {
			data, err = h.workflowService.GetLeaveRequest(ctx, id)
		} else {
			data, err = h.workflowService.GetHistory(ctx, id)
		}
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, data)

	case "user-requests":
		nik := strings.TrimSpace(q.Get("nik"))
		if identity, ok := middleware.IdentityFromContext(ctx); ok {
			if nik == "" || employee.Role(identity.Role) == employee.RoleUser {
				nik = identity.NIK
			}
		}
		if nik == "" {
			response.WorkflowBadRequest(w, "nik is required", nil)
			return
		}

		data, err := h.workflowService.ListByNIK(ctx, nik)
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, data)

	case "":
		response.WorkflowBadRequest(w, "action is required", nil)
	default:
		response.WorkflowBadRequest(w, fmt.Sprintf("unknown action %q", action), nil)
	}
}

// Post implements WorkflowHandler.
func (h *WorkflowHandlerImpl) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.WorkflowBadRequest(w, "failed to read request body", nil)
		return
	}

	var envelope struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		slog.Error("workflow decode error", "error", err)
		response.WorkflowBadRequest(w, "Invalid request format", nil)
		return
	}

	identity, authenticated := middleware.IdentityFromContext(ctx)

	switch envelope.Action {
	case "create":
		var req leave.CreateLeaveRequestRequest
		if err := decodeInto(body, &req); err != nil {
			response.WorkflowBadRequest(w, "Invalid request format", nil)
			return
		}
		if authenticated {
			req.SubmittedBy = identity.NIK
		}
		created, err := h.workflowService.CreateLeaveRequest(ctx, req)
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, created)

	case "approve", "reject":
		var req leave.TransitionRequest
		if err := decodeInto(body, &req); err != nil {
			response.WorkflowBadRequest(w, "Invalid request format", nil)
			return
		}
		if authenticated {
			req.ApproverNIK = identity.NIK
			req.ApproverRole = identity.Role
			req.ApproverSite = identity.Site
			req.ApproverDepartemen = identity.Departemen
		}

		var result leave.TransitionResult
		if envelope.Action == "approve" {
			result, err = h.workflowService.Approve(ctx, req)
		} else {
			result, err = h.workflowService.Reject(ctx, req)
		}
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, result)

	case "update-booking":
		var req leave.UpdateBookingRequest
		if err := decodeInto(body, &req); err != nil {
			response.WorkflowBadRequest(w, "Invalid request format", nil)
			return
		}
		if authenticated {
			req.UpdatedBy = identity.NIK
		}
		updated, err := h.workflowService.UpdateBooking(ctx, req)
		if err != nil {
			response.HandleWorkflowError(w, err)
			return
		}
		response.WorkflowOK(w, updated)

	case "":
		response.WorkflowBadRequest(w, "action is required", nil)
	default:
		response.WorkflowBadRequest(w, fmt.Sprintf("unknown action %q", envelope.Action), nil)
	}
}

func decodeInto(body []byte, dst interface{}) error {
	return json.NewDecoder(bytes.NewReader(body)).Decode(dst)
}

// Export implements WorkflowHandler.
func (h *WorkflowHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	scope, ok := requiredScope(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.workflowService.Export(r.Context(), scope, &buf); err != nil {
		response.HandleWorkflowError(w, err)
		return
	}

	filename := fmt.Sprintf("cuti-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Export write error", "error", err)
	}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *WorkflowHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || h.jwtService == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(identity.NIK)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, map[string]interface{}{
		"token":     token,
		"expiresIn": expiresIn,
	})
}

// Stream pushes transition events for one employee over SSE.
func (h *WorkflowHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	var nik string
	if h.jwtService != nil {
		// SSE doesn't support custom headers
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		var err error
		nik, err = h.jwtService.ValidateSSEToken(tokenStr)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
	} else {
		nik = strings.TrimSpace(r.URL.Query().Get("nik"))
		if nik == "" {
			http.Error(w, "Missing nik", http.StatusBadRequest)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(nik)
	defer cleanup()

	connected, _ := json.Marshal(map[string]string{"status": "connected", "nik": nik})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
