package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/matching"
	"github.com/spigell/nawasena/internal/observability"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

type stubAdvisor struct {
	biasErr error
}

func (s *stubAdvisor) RecommendPositions(_ context.Context, in ai.RecommendationInput) ([]ai.Recommendation, error) {
	out := make([]ai.Recommendation, 0, len(in.Jobs))
	for _, j := range in.Jobs {
		out = append(out, ai.Recommendation{JobID: j.ID, CompatibilityScore: 50, Explanation: "Cocok untuk " + j.ID})
	}
	return out, nil
}

func (s *stubAdvisor) AuditBias(context.Context, ai.BiasInput) (*ai.BiasReport, error) {
	if s.biasErr != nil {
		return nil, s.biasErr
	}
	return &ai.BiasReport{BiasDetected: false, MitigationStrategy: "Tidak diperlukan", AdjustedScores: "[]"}, nil
}

func (s *stubAdvisor) ExplainScore(_ context.Context, in ai.ExplainInput) (*ai.Explanation, error) {
	return &ai.Explanation{Text: "Penjelasan " + in.EmployeeID}, nil
}

func newTestServer(t *testing.T, advisor ai.Advisor) (*Server, *observability.Stats, *observer.ObservedLogs) {
	t.Helper()

	r, err := roster.Default()
	require.NoError(t, err)

	stats := observability.NewStats()
	svc, err := matching.New(r, scoring.NewScorer(r, scoring.DefaultWeights()), advisor, matching.Options{Stats: stats})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	return NewServer(svc, stats, zap.New(core)), stats, logs
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec, payload
}

func TestHealthAndListings(t *testing.T) {
	s, stats, logs := newTestServer(t, nil)

	rec, payload := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec, payload = do(t, s, http.MethodGet, "/employees", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["items"], 12)

	rec, payload = do(t, s, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["items"], 7)

	rec, payload = do(t, s, http.MethodGet, "/employees/P001", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budi Santoso", payload["nama"])
	assert.Len(t, payload["profile"], 4)

	rec, payload = do(t, s, http.MethodGet, "/jobs/J404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, payload["error"])

	assert.Equal(t, uint64(5), stats.Snapshot().Requests)
	assert.Equal(t, 5, logs.FilterMessage("http request").Len())
}

func TestCandidatesEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, &stubAdvisor{})

	rec, payload := do(t, s, http.MethodGet, "/jobs/J002/candidates?method=weighted", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := payload["items"].([]any)
	require.Len(t, items, 5)
	first := items[0].(map[string]any)
	assert.Equal(t, "weighted", first["method"])
	assert.Equal(t, "Cocok untuk J002", first["explanation"])
	assert.NotNil(t, first["breakdown"])
	assert.EqualValues(t, 1, first["rank"])

	rec, _ = do(t, s, http.MethodGet, "/jobs/J002/candidates?method=euclid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/jobs/J404/candidates", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProspectsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	rec, payload := do(t, s, http.MethodGet, "/employees/P004/prospects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := payload["items"].([]any)
	require.Len(t, items, 7)
	first := items[0].(map[string]any)
	assert.Equal(t, "J003", first["jobId"])
	assert.Equal(t, matching.SourceLocal, first["source"])

	rec, _ = do(t, s, http.MethodGet, "/employees/P404/prospects", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBiasCheckEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, &stubAdvisor{})

	rec, payload := do(t, s, http.MethodPost, "/jobs/J001/bias-check", `{"candidates":[{"employeeId":"P001","score":92}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "J001", payload["jobId"])
	assert.Equal(t, false, payload["biasDetected"])
	assert.Equal(t, "Tidak diperlukan", payload["biasMitigationStrategy"])
	assert.NotEmpty(t, payload["auditId"])

	rec, payload = do(t, s, http.MethodPost, "/jobs/J001/bias-check", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["candidates"], 5)

	rec, _ = do(t, s, http.MethodPost, "/jobs/J001/bias-check", `{"candidates":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/jobs/J001/bias-check", `{"candidates":[{"employeeId":"P404","score":10}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBiasCheckFailures(t *testing.T) {
	failing, _, _ := newTestServer(t, &stubAdvisor{biasErr: errors.New("upstream exploded")})

	rec, payload := do(t, failing, http.MethodPost, "/jobs/J001/bias-check", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Gagal melakukan pengecekan bias.", payload["error"])

	disabled, _, _ := newTestServer(t, nil)
	rec, _ = do(t, disabled, http.MethodPost, "/jobs/J001/bias-check", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExplanationEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, &stubAdvisor{})

	rec, payload := do(t, s, http.MethodGet, "/employees/P001/jobs/J001/explanation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Penjelasan P001", payload["explanation"])
	assert.Equal(t, matching.SourceAI, payload["source"])
	assert.NotNil(t, payload["breakdown"])

	rec, _ = do(t, s, http.MethodGet, "/employees/P001/jobs/J404/explanation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t, &stubAdvisor{})

	do(t, s, http.MethodGet, "/employees/P001/jobs/J001/explanation", "")
	rec, payload := do(t, s, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, payload["ai_enabled"])
	assert.EqualValues(t, 12, payload["employees"])
	assert.EqualValues(t, 7, payload["jobs"])
	stats := payload["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["ai_calls"])
	assert.Len(t, payload["filters"], 3)
}

func TestCORSPreflight(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
