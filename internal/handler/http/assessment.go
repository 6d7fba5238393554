package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/assessment"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AssessmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type AssessmentHandlerImpl struct {
	assessmentService assessment.AssessmentService
}

func NewAssessmentHandler(assessmentService assessment.AssessmentService) AssessmentHandler {
	return &AssessmentHandlerImpl{assessmentService: assessmentService}
}

// List implements AssessmentHandler. ?id= returns a single assessment.
func (h *AssessmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if id := strings.TrimSpace(q.Get("id")); id != "" {
		a, err := h.assessmentService.Get(ctx, id)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, a)
		return
	}

	filter := assessment.AssessmentFilter{
		Site:         strings.TrimSpace(q.Get("site")),
		Status:       assessment.Status(strings.TrimSpace(q.Get("status"))),
		CreatedByNIK: strings.TrimSpace(q.Get("createdByNik")),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		response.BadRequest(w, "Invalid status", map[string]string{"status": "unknown assessment status"})
		return
	}

	list, err := h.assessmentService.List(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

// Create implements AssessmentHandler.
func (h *AssessmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req assessment.CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create assessment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		req.CreatedByNIK = identity.NIK
		req.CreatedByRole = identity.Role
	}

	created, err := h.assessmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Assessment created", created)
}

// Approve implements AssessmentHandler.
func (h *AssessmentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, assessment.ActionApproved)
}

// Reject implements AssessmentHandler.
func (h *AssessmentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, assessment.ActionRejected)
}

func (h *AssessmentHandlerImpl) transition(w http.ResponseWriter, r *http.Request, action assessment.Action) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Assessment ID is required", nil)
		return
	}

	var req assessment.TransitionAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Assessment transition decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AssessmentID = id
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		req.ApproverNIK = identity.NIK
		req.ApproverRole = identity.Role
	}

	var (
		res assessment.TransitionAssessmentResponse
		err error
	)
	if action == assessment.ActionApproved {
		res, err = h.assessmentService.Approve(r.Context(), req)
	} else {
		res, err = h.assessmentService.Reject(r.Context(), req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, res.Message, res)
}
