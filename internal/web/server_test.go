package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScrpTrx-Go/GoInstaTrend/application"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/config"
	"github.com/ScrpTrx-Go/GoInstaTrend/internal/domain/model"
	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

type stubRunner struct {
	report *model.AnalysisReport
	err    error
	params application.RunParams
	called bool
}

func (s *stubRunner) Run(_ context.Context, params application.RunParams) (*model.AnalysisReport, error) {
	s.called = true
	s.params = params
	return s.report, s.err
}

func newTestServer(runner *stubRunner) *Server {
	return NewServer(pkg.NewNopLogger(), runner, config.AnalysisConfig{
		DefaultTopCount: 50,
		DefaultDaysBack: 30,
	})
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubRunner{})

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeHappyPath(t *testing.T) {
	runner := &stubRunner{report: &model.AnalysisReport{
		ReportID: "r1",
		Summary:  model.Summary{TotalPostsAnalyzed: 3, HashtagsSearched: []string{"travel"}},
	}}
	s := newTestServer(runner)

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"tags":      []string{"travel"},
		"since":     "2025-06-01",
		"until":     "2025-06-30",
		"top":       10,
		"min_likes": 100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "r1", report.ReportID)

	require.True(t, runner.called)
	assert.Equal(t, []string{"travel"}, runner.params.Tags)
	assert.Equal(t, 10, runner.params.TopN)
	assert.Equal(t, 100, runner.params.MinLikes)
	assert.Equal(t, "2025-06-01", runner.params.From.Format("2006-01-02"))
	assert.Equal(t, "2025-06-30", runner.params.To.Format("2006-01-02"))
}

func TestAnalyzeAppliesDefaults(t *testing.T) {
	runner := &stubRunner{report: &model.AnalysisReport{}}
	s := newTestServer(runner)

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"tags": []string{"travel"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 50, runner.params.TopN)
	assert.Equal(t, 30, int(runner.params.To.Sub(runner.params.From).Hours()/24))
}

func TestAnalyzeRejectsBadBody(t *testing.T) {
	s := newTestServer(&stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRejectsMissingTags(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{"tags": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, runner.called)
}

func TestAnalyzeRejectsInvertedWindow(t *testing.T) {
	runner := &stubRunner{}
	s := newTestServer(runner)

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"tags":  []string{"travel"},
		"since": "2025-06-30",
		"until": "2025-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, runner.called)
}

func TestAnalyzeRejectsBadDates(t *testing.T) {
	s := newTestServer(&stubRunner{})

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"tags":  []string{"travel"},
		"since": "June 1st",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRunnerError(t *testing.T) {
	runner := &stubRunner{err: errors.New("browser crashed")}
	s := newTestServer(runner)

	resp := postJSON(t, s, "/api/analyze", map[string]interface{}{
		"tags": []string{"travel"},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
