package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/scenario"
	"github.com/threefoldtech/gridwatch/app/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// StatusResponse is the JSON response for /api/v1/status
type StatusResponse struct {
	Host      string           `json:"host,omitempty"`
	Scenarios []ScenarioStatus `json:"scenarios"`
	Jobs      []JobStatus      `json:"jobs"`
	Stats     Stats            `json:"stats"`
	Timestamp time.Time        `json:"timestamp"`
}

// ScenarioStatus is a scenario with its latest result
type ScenarioStatus struct {
	ID         string    `json:"id"`
	Case       string    `json:"case"`
	Name       string    `json:"name"`
	Group      string    `json:"group"`
	LastStatus string    `json:"last_status"` // "unknown" if never ran
	LastRun    time.Time `json:"last_run,omitzero"`
	RunID      string    `json:"run_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
}

// JobStatus is a scheduled job
type JobStatus struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Filters  []string  `json:"filters,omitempty"`
	NextRun  time.Time `json:"next_run,omitzero"`
}

// Stats counts scenarios by their latest status
type Stats struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Unknown int `json:"unknown"`
}

// Execution is a single stored result in history response
type Execution struct {
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	DurationMs int64     `json:"duration_ms"`
}

// HistoryResponse is the JSON response for scenario history
type HistoryResponse struct {
	Scenario   ScenarioStatus `json:"scenario"`
	Executions []Execution    `json:"executions"`
}

// RunRequest is the body of manual run request, empty scenarios list means all
type RunRequest struct {
	Scenarios []string `json:"scenarios"`
}

// RunResponse confirms manual run queued, queued runs are executed one by one
type RunResponse struct {
	Scenarios []string `json:"scenarios"`
}

func toScenarioStatus(s scenario.Scenario) ScenarioStatus {
	return ScenarioStatus{ID: s.ID, Case: s.Case, Name: s.Name, Group: s.Group, LastStatus: "unknown"}
}

func toExecution(r store.Result) Execution {
	return Execution{
		RunID:      r.RunID,
		Status:     string(r.Status),
		Error:      r.Error,
		Screenshot: r.Screenshot,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMs: r.Duration().Milliseconds(),
	}
}

// handleStatus returns latest result of every scenario and scheduled jobs
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	last, err := s.results.LastResults(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to load last results: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	byID := make(map[string]store.Result, len(last))
	for _, res := range last {
		byID[res.ScenarioID] = res
	}

	resp := StatusResponse{Host: s.hostname, Jobs: []JobStatus{}, Timestamp: time.Now()}
	for _, sc := range scenario.All() {
		st := toScenarioStatus(sc)
		res, ok := byID[sc.ID]
		if ok {
			st.LastStatus, st.LastRun, st.RunID = string(res.Status), res.StartedAt, res.RunID
			st.Error, st.Screenshot = res.Error, res.Screenshot
		}
		resp.Scenarios = append(resp.Scenarios, st)

		resp.Stats.Total++
		switch {
		case !ok:
			resp.Stats.Unknown++
		case res.Status == store.StatusPassed:
			resp.Stats.Passed++
		case res.Status == store.StatusFailed:
			resp.Stats.Failed++
		default:
			resp.Stats.Skipped++
		}
	}

	if s.jobs != nil {
		for _, j := range s.jobs.States() {
			resp.Jobs = append(resp.Jobs, JobStatus{Name: j.Name, Schedule: j.Schedule, Filters: j.Filters, NextRun: j.Next})
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleHistory returns stored results of a scenario, newest first
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var sc *scenario.Scenario
	for _, v := range scenario.All() {
		if v.ID == id {
			sc = &v
			break
		}
	}
	if sc == nil {
		s.writeJSONError(w, http.StatusNotFound, "scenario not found")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	results, err := s.results.History(r.Context(), id, limit)
	if err != nil {
		log.Printf("[ERROR] failed to get history of %s: %v", id, err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	resp := HistoryResponse{Scenario: toScenarioStatus(*sc), Executions: make([]Execution, 0, len(results))}
	if len(results) > 0 {
		latest := results[0]
		resp.Scenario.LastStatus, resp.Scenario.LastRun, resp.Scenario.RunID = string(latest.Status), latest.StartedAt, latest.RunID
		resp.Scenario.Error, resp.Scenario.Screenshot = latest.Error, latest.Screenshot
	}
	for _, res := range results {
		resp.Executions = append(resp.Executions, toExecution(res))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleRun queues manual run of selected scenarios
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.manualTrigger == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "manual runs disabled")
		return
	}

	req := RunRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	list, err := scenario.Select(req.Scenarios...)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	select {
	case s.manualTrigger <- runner.ManualRequest{Filters: req.Scenarios}:
	default:
		s.writeJSONError(w, http.StatusServiceUnavailable, "manual run queue is full")
		return
	}

	ids := make([]string, 0, len(list))
	for _, sc := range list {
		ids = append(ids, sc.ID)
	}
	log.Printf("[INFO] manual run of %d scenarios requested from %s", len(ids), r.RemoteAddr)
	s.writeJSON(w, http.StatusAccepted, RunResponse{Scenarios: ids})
}
