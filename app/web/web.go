// Package web implements the status and manual trigger API of gridwatch
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/store"
)

//go:generate moq -out mocks/results.go -pkg mocks -skip-ensure -fmt goimports . Results
//go:generate moq -out mocks/jobs.go -pkg mocks -skip-ensure -fmt goimports . Jobs

// Server serves scenario status, history and manual run requests
type Server struct {
	results       Results
	jobs          Jobs
	manualTrigger chan<- runner.ManualRequest
	passwordHash  string
	hostname      string
	version       string
	runLimiter    *limiter.Limiter
}

// Results provides stored scenario results
type Results interface {
	LastResults(ctx context.Context) ([]store.Result, error)
	History(ctx context.Context, scenarioID string, limit int) ([]store.Result, error)
}

// Jobs provides scheduled jobs with their next run
type Jobs interface {
	States() []runner.JobState
}

// Config holds server configuration
type Config struct {
	Results       Results
	Jobs          Jobs                        // optional, no jobs reported if nil
	ManualTrigger chan<- runner.ManualRequest // optional, manual runs disabled if nil
	PasswordHash  string                      // bcrypt hash for basic auth, empty to disable
	Hostname      string
	Version       string
	RunRate       float64 // manual run requests per second, default 1
}

// New makes web server
func New(cfg Config) (*Server, error) {
	if cfg.Results == nil {
		return nil, fmt.Errorf("web server initialization failed: results store is required")
	}
	rate := cfg.RunRate
	if rate <= 0 {
		rate = 1
	}
	lmt := tollbooth.NewLimiter(rate, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	lmt.SetMessage(`{"error":"too many run requests"}`)
	lmt.SetMessageContentType("application/json")

	return &Server{
		results:       cfg.Results,
		jobs:          cfg.Jobs,
		manualTrigger: cfg.ManualTrigger,
		passwordHash:  cfg.PasswordHash,
		hostname:      cfg.Hostname,
		version:       cfg.Version,
		runLimiter:    lmt,
	}, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(100),
		rest.AppInfo("gridwatch", "threefoldtech", s.version),
		rest.Ping,
		rest.SizeLimit(16*1024),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		if s.passwordHash != "" {
			log.Printf("[INFO] basic auth enabled for api")
			api.Use(s.authMiddleware)
		}
		api.HandleFunc("GET /status", s.handleStatus)
		api.HandleFunc("GET /scenarios/{id}/history", s.handleHistory)
		api.With(tollbooth.HTTPMiddleware(s.runLimiter)).HandleFunc("POST /run", s.handleRun)
	})
	return router
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
