package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/complaintdesk/ai/pipeline"
	"github.com/hrygo/complaintdesk/ai/taxonomy"
	"github.com/hrygo/complaintdesk/internal/profile"
)

// stubAI returns fixed answers and remembers the last arguments it saw.
type stubAI struct {
	enhanceErr  error
	responseErr error

	lastComplaint pipeline.ComplaintContext
	lastStudent   *pipeline.Student
	lastStaff     *pipeline.Staff
	lastRole      taxonomy.Role
	lastDraft     string
}

func (s *stubAI) ClassifyMetadata(_ context.Context, _, _ string) taxonomy.Classification {
	return taxonomy.Classification{Category: taxonomy.CategoryWorkingHub, Priority: taxonomy.PriorityHigh}
}

func (s *stubAI) EnhanceDescription(_ context.Context, _, description string) (string, error) {
	if s.enhanceErr != nil {
		return "", s.enhanceErr
	}
	return "Enhanced: " + description, nil
}

func (s *stubAI) DraftResponse(_ context.Context, cc pipeline.ComplaintContext, student *pipeline.Student, staff *pipeline.Staff) string {
	s.lastComplaint, s.lastStudent, s.lastStaff = cc, student, staff
	return "draft for " + cc.Title
}

func (s *stubAI) EnhanceResponse(_ context.Context, draft string, cc pipeline.ComplaintContext, student *pipeline.Student, staff *pipeline.Staff) (string, error) {
	s.lastDraft, s.lastComplaint, s.lastStudent, s.lastStaff = draft, cc, student, staff
	if s.responseErr != nil {
		return "", s.responseErr
	}
	return draft + " (expanded)", nil
}

func (s *stubAI) GenerateQuickQuestions(_ context.Context, role taxonomy.Role) []string {
	s.lastRole = role
	return taxonomy.DefaultQuickQuestions(role)
}

func newTestEcho(ai ComplaintAI) *echo.Echo {
	e := echo.New()
	NewAPIV1Service(&profile.Profile{}, ai).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestClassify(t *testing.T) {
	e := newTestEcho(&stubAI{})
	rec := do(t, e, http.MethodPost, "/api/v1/ai/classify", `{"title":"Wifi","description":"The wifi keeps dropping"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"working-hub","priority":"high"}`, rec.Body.String())
}

func TestClassify_BadJSON(t *testing.T) {
	e := newTestEcho(&stubAI{})
	rec := do(t, e, http.MethodPost, "/api/v1/ai/classify", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnhanceDescription_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"too short", pipeline.ErrInputTooShort, http.StatusBadRequest},
		{"missing title", pipeline.ErrMissingTitle, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("enhance: %w", pipeline.ErrInputTooShort), http.StatusBadRequest},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(&stubAI{enhanceErr: tc.err})
			rec := do(t, e, http.MethodPost, "/api/v1/ai/enhance-description",
				`{"title":"Projector","description":"the projector in room 4 is broken again"}`)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "boom")
			}
		})
	}
}

func TestEnhanceDescription_Body(t *testing.T) {
	e := newTestEcho(&stubAI{})
	rec := do(t, e, http.MethodPost, "/api/v1/ai/enhance-description", `{"title":"T","description":"desc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EnhanceDescriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Enhanced: desc", resp.Description)
}

func TestDraftResponse_MapsFields(t *testing.T) {
	ai := &stubAI{}
	e := newTestEcho(ai)
	rec := do(t, e, http.MethodPost, "/api/v1/ai/draft-response", `{
		"complaint": {"title":"Late mentor","description":"d","category":"Mentor","priority":"urgent-ish","status":"open"},
		"student": {"name":"Asha Rao"},
		"staff": {"name":"Ravi","role":"super_admin"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"draft for Late mentor"}`, rec.Body.String())
	assert.Equal(t, taxonomy.CategoryMentor, ai.lastComplaint.Category)
	assert.Empty(t, ai.lastComplaint.Priority)
	assert.Equal(t, "open", ai.lastComplaint.Status)
	require.NotNil(t, ai.lastStudent)
	assert.Equal(t, "Asha Rao", ai.lastStudent.Name)
	require.NotNil(t, ai.lastStaff)
	assert.Equal(t, taxonomy.RoleSuperAdmin, ai.lastStaff.Role)
}

func TestDraftResponse_AnonymousParties(t *testing.T) {
	ai := &stubAI{}
	e := newTestEcho(ai)
	rec := do(t, e, http.MethodPost, "/api/v1/ai/draft-response", `{"complaint":{"title":"Noise"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, ai.lastStudent)
	assert.Nil(t, ai.lastStaff)
}

func TestEnhanceResponse(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ai := &stubAI{}
		e := newTestEcho(ai)
		rec := do(t, e, http.MethodPost, "/api/v1/ai/enhance-response", `{"draft":"We are on it.","complaint":{"title":"Heat"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response":"We are on it. (expanded)"}`, rec.Body.String())
		assert.Equal(t, "We are on it.", ai.lastDraft)
	})

	t.Run("empty draft", func(t *testing.T) {
		e := newTestEcho(&stubAI{responseErr: pipeline.ErrEmptyDraft})
		rec := do(t, e, http.MethodPost, "/api/v1/ai/enhance-response", `{"draft":"  ","complaint":{"title":"Heat"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unavailable", func(t *testing.T) {
		err := fmt.Errorf("%w: all models exhausted", pipeline.ErrEnhancementUnavailable)
		e := newTestEcho(&stubAI{responseErr: err})
		rec := do(t, e, http.MethodPost, "/api/v1/ai/enhance-response", `{"draft":"We are on it.","complaint":{"title":"Heat"}}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "exhausted")
	})
}

func TestQuickQuestions(t *testing.T) {
	testCases := []struct {
		query string
		role  taxonomy.Role
	}{
		{"?role=admin", taxonomy.RoleAdmin},
		{"?role=SUPER_ADMIN", taxonomy.RoleSuperAdmin},
		{"?role=janitor", taxonomy.RoleStudent},
		{"", taxonomy.RoleStudent},
	}
	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			ai := &stubAI{}
			e := newTestEcho(ai)
			rec := do(t, e, http.MethodGet, "/api/v1/ai/quick-questions"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.role, ai.lastRole)

			var resp QuickQuestionsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.role, resp.Role)
			assert.Len(t, resp.Questions, 4)
		})
	}
}
