package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hourkeep/internal/assessment"
	"hourkeep/internal/db"
	"hourkeep/internal/store"
	"hourkeep/pkg/types"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *types.Config {
	return &types.Config{
		Environment:        "development",
		ServerHost:         "127.0.0.1",
		ServerPort:         0,
		ReadTimeoutSec:     5,
		WriteTimeoutSec:    5,
		PersistProgress:    true,
		AutosaveTimeoutSec: 5,
		CookieName:         "hourkeep_session",
		SessionMaxAgeSec:   3600,
		SessionSecret:      "test-secret-test-secret-test-sec",
		MetricsEnabled:     true,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	database, err := db.OpenSQLite(ctx, db.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx, database))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc, err := New(testConfig(), logger, database, store.NewProfileRepository(database), store.NewAssessmentStore(database))
	require.NoError(t, err)

	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, svc.Stop(ctx))
		database.Close()
	})
	return ts
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func do(t *testing.T, client *http.Client, method, target string, form url.Values, out any) int {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func TestAssessmentOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	var profile types.Profile
	status := do(t, client, http.MethodPost, ts.URL+"/profiles", url.Values{
		"display_name":  {"Pat"},
		"date_of_birth": {"1950-01-01"},
	}, &profile)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, profile.ID)

	var state assessment.State
	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment", nil, &state))
	assert.Equal(t, assessment.StepNotice, state.Step)
	require.NotNil(t, state.Responses.Exemption.DateOfBirth, "date of birth should come from the profile")

	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment/answers/received-notice", url.Values{"value": {"no"}}, &state))
	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment/advance", nil, &state))
	assert.Equal(t, assessment.StepNoticeFollowup, state.Step)

	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment/answers/check-exemptions", url.Values{"value": {"yes"}}, &state))
	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment/advance", nil, &state))
	require.Equal(t, assessment.StepExemption, state.Step)
	require.NotNil(t, state.Question)
	assert.Equal(t, types.QuestionDateOfBirth, state.Question.ID)

	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment/exemption/age-dob", url.Values{"answer": {"1950-01-01"}}, &state))
	require.Equal(t, assessment.StepComplete, state.Step)
	require.NotNil(t, state.Recommendation)
	assert.Equal(t, types.MethodExemption, state.Recommendation.PrimaryMethod)

	var result resultView
	require.Equal(t, http.StatusOK, do(t, client, http.MethodGet, ts.URL+"/assessment/result", nil, &result))
	assert.Equal(t, types.MethodExemption, result.Primary.Method)
	assert.NotEmpty(t, result.Primary.Message)
	assert.True(t, result.Exemption.IsExempt)
	assert.Empty(t, result.Alternatives)

	var failure errorResponse
	status = do(t, client, http.MethodPost, ts.URL+"/assessment/answers/job-status", url.Values{"value": {"yes"}}, &failure)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, failure.Error, types.ErrAssessmentComplete.Error())

	// Only one result exists, so nothing has been archived yet.
	var history []types.AssessmentHistoryEntry
	require.Equal(t, http.StatusOK, do(t, client, http.MethodGet, ts.URL+"/assessment/history", nil, &history))
	assert.Empty(t, history)
}

func TestAnswerValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	require.Equal(t, http.StatusCreated, do(t, client, http.MethodPost, ts.URL+"/profiles", url.Values{"display_name": {"Lee"}}, nil))

	var failure errorResponse
	status := do(t, client, http.MethodPost, ts.URL+"/assessment/advance", nil, &failure)
	assert.Equal(t, http.StatusConflict, status, "advance before start")

	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment", nil, nil))

	status = do(t, client, http.MethodPost, ts.URL+"/assessment/answers/received-notice", url.Values{"value": {"maybe"}}, &failure)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, client, http.MethodPost, ts.URL+"/assessment/answers/job-status", url.Values{"value": {"yes"}}, &failure)
	assert.Equal(t, http.StatusConflict, status, "field asked on a later step")

	status = do(t, client, http.MethodPost, ts.URL+"/assessment/answers/shoe-size", url.Values{"value": {"9"}}, &failure)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, client, http.MethodPost, ts.URL+"/assessment/advance", nil, &failure)
	assert.Equal(t, http.StatusBadRequest, status, "advance with the step unanswered")

	status = do(t, client, http.MethodPost, ts.URL+"/assessment/back", nil, &failure)
	assert.Equal(t, http.StatusConflict, status)

	status = do(t, client, http.MethodGet, ts.URL+"/assessment/result", nil, &failure)
	assert.Equal(t, http.StatusNotFound, status)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/assessment/progress", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSessionRequired(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	var failure errorResponse
	status := do(t, client, http.MethodPost, ts.URL+"/assessment", nil, &failure)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, failure.RequestID)

	status = do(t, client, http.MethodPost, ts.URL+"/session", url.Values{"profile_id": {"nobody"}}, &failure)
	assert.Equal(t, http.StatusNotFound, status)

	var profile types.Profile
	require.Equal(t, http.StatusCreated, do(t, newClient(t), http.MethodPost, ts.URL+"/profiles", url.Values{}, &profile))

	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/session", url.Values{"profile_id": {profile.ID}}, nil))
	require.Equal(t, http.StatusOK, do(t, client, http.MethodPost, ts.URL+"/assessment", nil, nil))

	jar := client.Jar.(*cookiejar.Jar)
	u, _ := url.Parse(ts.URL)
	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)

	tampered := newClient(t)
	tampered.Jar.SetCookies(u, []*http.Cookie{{Name: cookies[0].Name, Value: cookies[0].Value + "x"}})
	status = do(t, tampered, http.MethodGet, ts.URL+"/assessment", nil, &failure)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicEndpoints(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	var questions []questionView
	require.Equal(t, http.StatusOK, do(t, client, http.MethodGet, ts.URL+"/exemptions/questions", nil, &questions))
	require.Len(t, questions, 12)
	assert.Equal(t, "Age", questions[0].CategoryLabel)

	var health map[string]string
	require.Equal(t, http.StatusOK, do(t, client, http.MethodGet, ts.URL+"/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])

	resp, err := client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", types.ErrInvalidAnswer), http.StatusBadRequest},
		{types.ErrUnanswered, http.StatusBadRequest},
		{types.ErrFieldNotOnStep, http.StatusConflict},
		{types.ErrNotReady, http.StatusConflict},
		{types.ErrResultNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %w", types.ErrPersistFinalize, io.ErrUnexpectedEOF), http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestEndpointLabel(t *testing.T) {
	for path, want := range map[string]string{
		"/assessment/exemption/health-medicare": "/assessment/exemption/:id",
		"/assessment/answers/job-status":        "/assessment/answers/:field",
		"/assessment/advance":                   "/assessment/advance",
	} {
		r := httptest.NewRequest(http.MethodPost, path, nil)
		assert.Equal(t, want, endpointLabel(r))
	}
}
