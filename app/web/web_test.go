package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/store"
	"github.com/threefoldtech/gridwatch/app/web/mocks"
)

var testTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Results == nil {
		cfg.Results = &mocks.ResultsMock{
			LastResultsFunc: func(context.Context) ([]store.Result, error) {
				return []store.Result{
					{RunID: "r1", ScenarioID: "node-list", Status: store.StatusPassed, StartedAt: testTime},
					{RunID: "r1", ScenarioID: "transfer-page", Status: store.StatusFailed, Error: "not visible",
						Screenshot: "/tmp/r1_transfer-page.png", StartedAt: testTime},
					{RunID: "r0", ScenarioID: "node-fee", Status: store.StatusSkipped, StartedAt: testTime},
				}, nil
			},
			HistoryFunc: func(_ context.Context, id string, limit int) ([]store.Result, error) {
				return []store.Result{
					{RunID: "r2", ScenarioID: id, Status: store.StatusFailed, Error: "boom", StartedAt: testTime,
						FinishedAt: testTime.Add(1500 * time.Millisecond)},
					{RunID: "r1", ScenarioID: id, Status: store.StatusPassed, StartedAt: testTime.Add(-time.Hour),
						FinishedAt: testTime.Add(-time.Hour + time.Second)},
				}, nil
			},
		}
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestServer_Ping(t *testing.T) {
	srv := newTestServer(t, Config{Version: "v1.2.3"})
	rec := do(t, srv.routes(), "GET", "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, "gridwatch", rec.Header().Get("App-Name"))
	assert.Equal(t, "v1.2.3", rec.Header().Get("App-Version"))
}

func TestServer_Status(t *testing.T) {
	jobs := &mocks.JobsMock{StatesFunc: func() []runner.JobState {
		return []runner.JobState{{Job: runner.Job{Name: "nodes", Schedule: "@every 6h", Filters: []string{"node"}},
			Next: testTime.Add(6 * time.Hour)}}
	}}
	srv := newTestServer(t, Config{Jobs: jobs, Hostname: "qa-1"})
	rec := do(t, srv.routes(), "GET", "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := StatusResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "qa-1", resp.Host)
	assert.Equal(t, Stats{Total: 14, Passed: 1, Failed: 1, Skipped: 1, Unknown: 11}, resp.Stats)
	require.Len(t, resp.Scenarios, 14)
	assert.Equal(t, "node-list", resp.Scenarios[0].ID)
	assert.Equal(t, "passed", resp.Scenarios[0].LastStatus)
	assert.Equal(t, testTime, resp.Scenarios[0].LastRun)
	assert.Equal(t, "unknown", resp.Scenarios[1].LastStatus)
	assert.True(t, resp.Scenarios[1].LastRun.IsZero())

	var tp ScenarioStatus
	for _, s := range resp.Scenarios {
		if s.ID == "transfer-page" {
			tp = s
		}
	}
	assert.Equal(t, ScenarioStatus{ID: "transfer-page", Case: "TC982", Name: "navigate to transfer", Group: "transfer",
		LastStatus: "failed", LastRun: testTime, RunID: "r1", Error: "not visible",
		Screenshot: "/tmp/r1_transfer-page.png"}, tp)

	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, JobStatus{Name: "nodes", Schedule: "@every 6h", Filters: []string{"node"},
		NextRun: testTime.Add(6 * time.Hour)}, resp.Jobs[0])
}

func TestServer_StatusStoreError(t *testing.T) {
	res := &mocks.ResultsMock{LastResultsFunc: func(context.Context) ([]store.Result, error) {
		return nil, errors.New("db locked")
	}}
	srv := newTestServer(t, Config{Results: res})
	rec := do(t, srv.routes(), "GET", "/api/v1/status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to load results"}`, rec.Body.String())
}

func TestServer_History(t *testing.T) {
	srv := newTestServer(t, Config{})
	h := srv.routes()

	rec := do(t, h, "GET", "/api/v1/scenarios/node-fee/history?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := HistoryResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TC1750", resp.Scenario.Case)
	assert.Equal(t, "failed", resp.Scenario.LastStatus)
	require.Len(t, resp.Executions, 2)
	assert.Equal(t, Execution{RunID: "r2", Status: "failed", Error: "boom", StartedAt: testTime,
		FinishedAt: testTime.Add(1500 * time.Millisecond), DurationMs: 1500}, resp.Executions[0])

	calls := srv.results.(*mocks.ResultsMock).HistoryCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "node-fee", calls[0].ScenarioID)
	assert.Equal(t, 10, calls[0].Limit)

	rec = do(t, h, "GET", "/api/v1/scenarios/node-fee/history?limit=100000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxHistoryLimit, srv.results.(*mocks.ResultsMock).HistoryCalls()[1].Limit)

	rec = do(t, h, "GET", "/api/v1/scenarios/node-fee/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultHistoryLimit, srv.results.(*mocks.ResultsMock).HistoryCalls()[2].Limit)

	rec = do(t, h, "GET", "/api/v1/scenarios/node-fee/history?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "GET", "/api/v1/scenarios/TC1750/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "lookup by id only")
}

func TestServer_Run(t *testing.T) {
	trigger := make(chan runner.ManualRequest, 1)
	srv := newTestServer(t, Config{ManualTrigger: trigger})

	rec := do(t, srv.routes(), "POST", "/api/v1/run", `{"scenarios":["TC1216"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	resp := RunResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"node-list", "node-details"}, resp.Scenarios)

	select {
	case req := <-trigger:
		assert.Equal(t, []string{"TC1216"}, req.Filters)
	default:
		t.Fatal("manual request not sent")
	}
}

func TestServer_RunAll(t *testing.T) {
	trigger := make(chan runner.ManualRequest, 1)
	srv := newTestServer(t, Config{ManualTrigger: trigger})

	rec := do(t, srv.routes(), "POST", "/api/v1/run", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	resp := RunResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scenarios, 14)
	assert.Empty(t, (<-trigger).Filters)
}

func TestServer_RunErrors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, Config{})
		rec := do(t, srv.routes(), "POST", "/api/v1/run", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		srv := newTestServer(t, Config{ManualTrigger: make(chan runner.ManualRequest, 1)})
		rec := do(t, srv.routes(), "POST", "/api/v1/run", `{"scenarios":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown scenario", func(t *testing.T) {
		srv := newTestServer(t, Config{ManualTrigger: make(chan runner.ManualRequest, 1)})
		rec := do(t, srv.routes(), "POST", "/api/v1/run", `{"scenarios":["TC1"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `no scenario matches \"TC1\"`)
	})

	t.Run("queue full", func(t *testing.T) {
		srv := newTestServer(t, Config{ManualTrigger: make(chan runner.ManualRequest)})
		rec := do(t, srv.routes(), "POST", "/api/v1/run", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"manual run queue is full"}`, rec.Body.String())
	})
}

func TestServer_RunRateLimited(t *testing.T) {
	trigger := make(chan runner.ManualRequest, 10)
	srv := newTestServer(t, Config{ManualTrigger: trigger, RunRate: 1})
	h := srv.routes()

	rec := do(t, h, "POST", "/api/v1/run", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = do(t, h, "POST", "/api/v1/run", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, trigger, 1)

	rec = do(t, h, "GET", "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, rec.Code, "status is not rate limited")
}

func TestServer_Auth(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	srv := newTestServer(t, Config{PasswordHash: hash, ManualTrigger: make(chan runner.ManualRequest, 1)})
	h := srv.routes()

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "ping is open")

	tbl := []struct {
		user, password string
		code           int
	}{
		{"", "", http.StatusUnauthorized},
		{AuthUser, "bad", http.StatusUnauthorized},
		{"admin", "secret", http.StatusUnauthorized},
		{AuthUser, "secret", http.StatusOK},
	}
	for _, tt := range tbl {
		req, err := http.NewRequest("GET", ts.URL+"/api/v1/status", http.NoBody)
		require.NoError(t, err)
		if tt.user != "" {
			req.SetBasicAuth(tt.user, tt.password)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, tt.code, resp.StatusCode, "%s:%s", tt.user, tt.password)
		if tt.code == http.StatusUnauthorized {
			assert.Equal(t, `Basic realm="gridwatch"`, resp.Header.Get("WWW-Authenticate"))
		}
	}
}

func TestServer_Run_Shutdown(t *testing.T) {
	srv := newTestServer(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not stopped")
	}
}
