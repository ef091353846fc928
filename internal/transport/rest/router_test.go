package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroassess/internal/assessment"
	"neuroassess/internal/cache"
	"neuroassess/internal/model"
	"neuroassess/internal/report"
	"neuroassess/internal/service"
	"neuroassess/internal/transport/ws"
)

type fixedSource struct {
	n int
}

func (f fixedSource) FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error) {
	qs := make([]model.Question, f.n)
	for i := range qs {
		qs[i] = model.Question{ID: fmt.Sprintf("q%d", i), Type: model.QuestionTypeLikert, Category: "Openness"}
	}
	return qs, nil
}

func newTestServer(t *testing.T, questions int) *httptest.Server {
	t.Helper()
	gen, err := report.NewDefaultGenerator(3)
	require.NoError(t, err)

	store := assessment.NewStore(cache.NewMemoryStore(), 0, nil)
	auth := service.NewAuthService("router-secret", time.Hour)
	svc := service.NewAssessmentService(fixedSource{n: questions}, gen, store, auth,
		service.AssessmentConfig{AssessmentType: "personality", Autosave: true}, nil)
	hub := ws.NewHub(nil)
	svc.SetBroadcaster(hub)

	srv := httptest.NewServer(NewRouter(&Container{
		AuthService:       auth,
		AssessmentService: svc,
		WSHub:             hub,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func startSession(t *testing.T, base string) (string, string) {
	t.Helper()
	resp, body := do(t, "POST", base+"/v1/assessments", "", map[string]string{"tier": "free", "mode": "quick"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["sessionId"].(string), body["token"].(string)
}

func TestStartAndAnswerFlow(t *testing.T) {
	srv := newTestServer(t, 3)
	id, token := startSession(t, srv.URL)
	base := srv.URL + "/v1/assessments/" + id

	resp, body := do(t, "GET", base+"/question/current", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])
	assert.Equal(t, float64(0), body["questionIndex"])

	for i := 0; i < 3; i++ {
		resp, _ = do(t, "PUT", base+"/responses", token, map[string]interface{}{"value": 4})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = do(t, "POST", base+"/next", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body = do(t, "GET", base+"/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["answered"])

	resp, body = do(t, "POST", base+"/complete", token, map[string]interface{}{
		"behavioral": map[string]interface{}{"engagementScore": 0.8, "precisionScore": 0.7, "anxietyScore": 0.2, "durationMs": 60000},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["completed"])
	require.NotNil(t, body["report"])

	resp, body = do(t, "GET", srv.URL+"/v1/reports/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["archetype"])

	resp, _ = do(t, "POST", base+"/complete", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, "GET", srv.URL+"/v1/stats/archetypes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "archetypes")
}

func TestAuthorization(t *testing.T) {
	srv := newTestServer(t, 2)
	id, token := startSession(t, srv.URL)
	_, otherToken := startSession(t, srv.URL)
	url := srv.URL + "/v1/assessments/" + id + "/question/current"

	resp, _ := do(t, "GET", url, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, "GET", url, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, "GET", url, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, "GET", url+"?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, 10)
	id, token := startSession(t, srv.URL)
	base := srv.URL + "/v1/assessments/" + id

	resp, _ := do(t, "POST", srv.URL+"/v1/assessments", "", map[string]string{"tier": "platinum"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, "PUT", base+"/responses", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "value is required")

	resp, _ = do(t, "PUT", base+"/responses", token, map[string]interface{}{"value": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, "POST", base+"/goto/99", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, "POST", base+"/goto/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, "POST", base+"/complete", token, map[string]interface{}{
		"behavioral": map[string]interface{}{"anxietyScore": 2},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLowCompletionWarningThenForce(t *testing.T) {
	srv := newTestServer(t, 10)
	id, token := startSession(t, srv.URL)
	base := srv.URL + "/v1/assessments/" + id

	do(t, "PUT", base+"/responses", token, map[string]interface{}{"value": 5})

	resp, body := do(t, "POST", base+"/complete", token, map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["completed"])
	require.NotNil(t, body["warning"])
	assert.Equal(t, float64(1), body["warning"].(map[string]interface{})["answered"])

	resp, body = do(t, "POST", base+"/complete", token, map[string]interface{}{"force": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["completed"])
	assert.NotNil(t, body["warning"])
}

func TestResetIssuesNewSession(t *testing.T) {
	srv := newTestServer(t, 4)
	id, token := startSession(t, srv.URL)
	base := srv.URL + "/v1/assessments/" + id

	do(t, "PUT", base+"/responses", token, map[string]interface{}{"value": 3})

	resp, body := do(t, "POST", base+"/reset", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newID := body["sessionId"].(string)
	newToken := body["token"].(string)
	assert.NotEqual(t, id, newID)
	assert.Equal(t, "not_started", body["status"])

	resp, _ = do(t, "GET", base+"/question/current", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, "POST", srv.URL+"/v1/assessments/"+newID+"/start", newToken, map[string]string{"mode": "quick"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])
}

func TestHealthMetricsAndPreflight(t *testing.T) {
	srv := newTestServer(t, 1)

	resp, body := do(t, "GET", srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest("OPTIONS", srv.URL+"/v1/assessments/abc/next", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
