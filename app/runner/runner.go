// Package runner executes selected scenarios, each in its own browser session, records results and
// sends reports. Scheduler triggers runs by cron schedule and by manual requests.
package runner

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/threefoldtech/gridwatch/app/conditions"
	"github.com/threefoldtech/gridwatch/app/config"
	"github.com/threefoldtech/gridwatch/app/gridproxy"
	"github.com/threefoldtech/gridwatch/app/notify"
	"github.com/threefoldtech/gridwatch/app/scenario"
	"github.com/threefoldtech/gridwatch/app/store"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/proxy.go -pkg mocks -skip-ensure -fmt goimports . Proxy
//go:generate moq -out mocks/session.go -pkg mocks -skip-ensure -fmt goimports . Session
//go:generate moq -out mocks/condition_checker.go -pkg mocks -skip-ensure -fmt goimports . ConditionChecker

// Runner executes scenarios with bounded concurrency
type Runner struct {
	Settings    config.Settings
	NewSession  func() (Session, error)
	Proxy       Proxy
	Store       Store            // optional
	Notifier    Notifier         // optional
	Checker     ConditionChecker // optional
	Conditions  conditions.Config
	Poll        gridproxy.Poll
	Concurrency int
	Timeout     time.Duration // per scenario, 0 means no limit
	HostName    string
}

// Store records runs and results
type Store interface {
	RecordRun(ctx context.Context, r store.Run) error
	RecordResult(ctx context.Context, r store.Result) error
}

// Notifier sends run report
type Notifier interface {
	Notify(ctx context.Context, r notify.Report) error
}

// Proxy is grid proxy client used by scenarios and the pre-run health check
type Proxy interface {
	scenario.Proxy
	Ping(ctx context.Context) error
}

// Session is an isolated browser context with a page
type Session interface {
	Page() playwright.Page
	Console() string
	Screenshot(name string) (string, error)
	Close() error
}

// ConditionChecker checks host conditions before a run
type ConditionChecker interface {
	Check(ctx context.Context, cfg conditions.Config) (bool, string)
}

// Summary is the outcome of a run, results follow the order of executed scenarios
type Summary struct {
	Run     store.Run
	Results []store.Result
}

// Failed reports whether any scenario failed or the run was skipped entirely
func (s Summary) Failed() bool {
	return s.Run.Failed > 0 || (s.Run.Skipped > 0 && s.Run.Passed == 0)
}

// Run executes scenarios. All scenarios are skipped if host conditions are not met or grid proxy is down.
func (r *Runner) Run(ctx context.Context, trigger string, list []scenario.Scenario) (Summary, error) {
	if len(list) == 0 {
		return Summary{}, fmt.Errorf("no scenarios to run")
	}
	run := store.Run{ID: uuid.NewString(), Trigger: trigger, StartedAt: time.Now()}
	log.Printf("[INFO] run %s started by %s, %d scenarios", run.ID, trigger, len(list))
	if r.Store != nil {
		if err := r.Store.RecordRun(ctx, run); err != nil {
			log.Printf("[WARN] can't record run start, %v", err)
		}
	}

	results := make([]store.Result, len(list))
	if reason := r.preflight(ctx); reason != "" {
		log.Printf("[WARN] run %s skipped, %s", run.ID, reason)
		now := time.Now()
		for i, s := range list {
			results[i] = r.result(run.ID, s, now)
			results[i].Status, results[i].Error, results[i].FinishedAt = store.StatusSkipped, reason, now
		}
	} else {
		concur := r.Concurrency
		if concur <= 0 {
			concur = 1
		}
		gr := syncs.NewSizedGroup(concur)
		for i, s := range list {
			gr.Go(func(context.Context) {
				results[i] = r.runOne(ctx, run.ID, s) // each goroutine owns its slot
			})
		}
		gr.Wait()
	}

	for _, res := range results {
		switch res.Status {
		case store.StatusPassed:
			run.Passed++
		case store.StatusFailed:
			run.Failed++
		default:
			run.Skipped++
		}
		if r.Store != nil {
			if err := r.Store.RecordResult(ctx, res); err != nil {
				log.Printf("[WARN] can't record result of %s, %v", res.ScenarioID, err)
			}
		}
	}
	run.FinishedAt = time.Now()
	if r.Store != nil {
		if err := r.Store.RecordRun(ctx, run); err != nil {
			log.Printf("[WARN] can't record run finish, %v", err)
		}
	}
	log.Printf("[INFO] run %s finished in %v, passed %d, failed %d, skipped %d", run.ID,
		run.FinishedAt.Sub(run.StartedAt).Truncate(time.Millisecond), run.Passed, run.Failed, run.Skipped)

	summary := Summary{Run: run, Results: results}
	if r.Notifier != nil {
		report := notify.Report{RunID: run.ID, Trigger: trigger, Host: r.HostName, StartedAt: run.StartedAt,
			FinishedAt: run.FinishedAt, Results: results}
		if err := r.Notifier.Notify(ctx, report); err != nil {
			log.Printf("[WARN] failed to notify, %v", err)
		}
	}
	return summary, nil
}

// preflight returns reason to skip the run, empty if run can proceed
func (r *Runner) preflight(ctx context.Context) string {
	if r.Checker != nil {
		if ok, reason := r.Checker.Check(ctx, r.Conditions); !ok {
			return "host conditions not met: " + reason
		}
	}
	if err := r.Proxy.Ping(ctx); err != nil {
		return fmt.Sprintf("grid proxy unavailable: %v", err)
	}
	return ""
}

func (r *Runner) runOne(ctx context.Context, runID string, s scenario.Scenario) store.Result {
	res := r.result(runID, s, time.Now())
	finish := func(status store.Status, err error) store.Result {
		res.Status, res.FinishedAt = status, time.Now()
		if err != nil {
			res.Error = err.Error()
		}
		return res
	}

	if ctx.Err() != nil {
		return finish(store.StatusSkipped, ctx.Err())
	}

	sess, err := r.NewSession()
	if err != nil {
		return finish(store.StatusFailed, fmt.Errorf("can't open browser session: %w", err))
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("[WARN] can't close session of %s, %v", s.ID, err)
		}
	}()

	sctx, cancel := ctx, context.CancelFunc(func() {})
	if r.Timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	defer cancel()

	log.Printf("[DEBUG] scenario %s started", s)
	env := &scenario.Env{Settings: r.Settings, Page: sess.Page(), Proxy: r.Proxy, Poll: r.Poll}
	if err := s.Run(sctx, env); err != nil {
		if shot, serr := sess.Screenshot(runID + "_" + s.ID); serr != nil {
			log.Printf("[WARN] can't take screenshot of %s, %v", s.ID, serr)
		} else {
			res.Screenshot = shot
		}
		log.Printf("[WARN] scenario %s failed, %v", s, err)
		if console := sess.Console(); console != "" {
			err = fmt.Errorf("%w\n\nbrowser console:\n%s", err, console)
		}
		return finish(store.StatusFailed, err)
	}
	log.Printf("[INFO] scenario %s passed", s)
	return finish(store.StatusPassed, nil)
}

func (r *Runner) result(runID string, s scenario.Scenario, ts time.Time) store.Result {
	return store.Result{RunID: runID, ScenarioID: s.ID, Case: s.Case, Name: s.Name, StartedAt: ts}
}
