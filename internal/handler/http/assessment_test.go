package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/assessment"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decodeRESTError(t *testing.T, env envelope) restError {
	t.Helper()
	var e restError
	require.NoError(t, json.Unmarshal(env.RawError, &e))
	return e
}

func TestAssessmentHandler_List(t *testing.T) {
	ts := newTestServer(false)

	rec, env := ts.do(t, http.MethodGet, "/api/assessments?site=BSF&status=pending_pjo", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, assessment.AssessmentFilter{Site: "BSF", Status: assessment.StatusPendingPJO}, ts.assessment.lastFilter)
}

func TestAssessmentHandler_List_InvalidStatus(t *testing.T) {
	ts := newTestServer(false)

	rec, env := ts.do(t, http.MethodGet, "/api/assessments?status=archived", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeRESTError(t, env).Code)
}

func TestAssessmentHandler_GetByID(t *testing.T) {
	ts := newTestServer(false)

	rec, env := ts.do(t, http.MethodGet, "/api/assessments?id=as-9", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got assessment.AssessmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "as-9", got.ID)

	ts.assessment.err = assessment.ErrAssessmentNotFound
	rec, _ = ts.do(t, http.MethodGet, "/api/assessments?id=missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssessmentHandler_Create(t *testing.T) {
	ts := newTestServer(false)

	rec, env := ts.do(t, http.MethodPost, "/api/assessments", map[string]interface{}{
		"employeeNik":   "EMP001",
		"employeeName":  "Budi",
		"employeeSite":  "BSF",
		"createdByNik":  "DIC001",
		"createdByRole": "dic",
	}, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Assessment created", env.Message)
	assert.Equal(t, "EMP001", ts.assessment.lastCreate.EmployeeNIK)
}

func TestAssessmentHandler_Create_ValidationIs422(t *testing.T) {
	ts := newTestServer(false)
	ts.assessment.err = validator.ValidationErrors{{Field: "employeeNik", Message: "employeeNik is required"}}

	rec, env := ts.do(t, http.MethodPost, "/api/assessments", map[string]interface{}{}, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeRESTError(t, env)
	assert.Equal(t, "VALIDATION_ERROR", e.Code)
	assert.Equal(t, "employeeNik is required", e.Details["employeeNik"])
}

func TestAssessmentHandler_Create_RequiresDIC(t *testing.T) {
	ts := newTestServer(true)
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Identity{NIK: "PJO001", Role: "pjo_site", Site: "BSF"})
	require.NoError(t, err)

	rec, env := ts.do(t, http.MethodPost, "/api/assessments", map[string]interface{}{"employeeNik": "EMP001"}, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeRESTError(t, env).Code)
	assert.Empty(t, ts.assessment.lastCreate.EmployeeNIK)
}

func TestAssessmentHandler_Create_IdentityOverridesCreator(t *testing.T) {
	ts := newTestServer(true)
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Identity{NIK: "DIC001", Role: "dic", Site: "BSF", Departemen: "Produksi"})
	require.NoError(t, err)

	rec, _ := ts.do(t, http.MethodPost, "/api/assessments", map[string]interface{}{
		"employeeNik":   "EMP001",
		"createdByNik":  "SOMEONE",
		"createdByRole": "super_admin",
	}, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "DIC001", ts.assessment.lastCreate.CreatedByNIK)
	assert.Equal(t, "dic", ts.assessment.lastCreate.CreatedByRole)
}

func TestAssessmentHandler_Approve(t *testing.T) {
	ts := newTestServer(false)

	rec, env := ts.do(t, http.MethodPost, "/api/assessments/as-1/approve", map[string]string{
		"approverNik":  "PJO001",
		"approverRole": "pjo_site",
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Assessment approved", env.Message)
	assert.Equal(t, "as-1", ts.assessment.lastTransition.AssessmentID)
	var res assessment.TransitionAssessmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, assessment.StatusPendingHRSite, res.NewStatus)
}

func TestAssessmentHandler_TransitionErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"role mismatch", fmt.Errorf("%w: expected pjo_site", assessment.ErrRoleMismatch), http.StatusForbidden},
		{"not awaiting", assessment.ErrNotAwaitingApproval, http.StatusConflict},
		{"stale", assessment.ErrStaleStatus, http.StatusConflict},
		{"not found", assessment.ErrAssessmentNotFound, http.StatusNotFound},
		{"approver not found", assessment.ErrApproverNotFound, http.StatusNotFound},
		{"unexpected", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(false)
			ts.assessment.err = tc.err

			rec, env := ts.do(t, http.MethodPost, "/api/assessments/as-1/reject", map[string]string{
				"approverNik":  "HR001",
				"approverRole": "hr_site",
			}, "")

			assert.Equal(t, tc.code, rec.Code)
			assert.False(t, env.Success)
		})
	}
}
