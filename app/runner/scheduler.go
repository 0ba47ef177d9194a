package runner

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/threefoldtech/gridwatch/app/resumer"
	"github.com/threefoldtech/gridwatch/app/scenario"
)

//go:generate moq -out mocks/cron.go -pkg mocks -skip-ensure -fmt goimports . Cron
//go:generate moq -out mocks/resumer.go -pkg mocks -skip-ensure -fmt goimports . Resumer

// Scheduler runs jobs by cron schedule and on manual requests. Runs of the same job never overlap.
type Scheduler struct {
	Cron
	Executor      Executor
	Jobs          []Job
	ManualTrigger chan ManualRequest // optional
	DeDup         *DeDup
	Resumer       Resumer // optional

	lock    sync.Mutex
	entries map[cron.EntryID]Job
}

// Job is a named selection of scenarios with a cron schedule
type Job struct {
	Name     string
	Schedule string   // standard cron spec or descriptor like "@every 6h"
	Filters  []string // scenario filters, empty for all
}

// JobState is a job with its next scheduled run
type JobState struct {
	Job
	Next time.Time
}

// ManualRequest asks to run scenarios matching filters now
type ManualRequest struct {
	Filters []string
}

// ManualJobName is name of jobs made for manual requests, filters are appended as "manual:a,b"
const ManualJobName = "manual"

// Job makes a job for the request, named by its sorted filters
func (r ManualRequest) Job() Job {
	filters := slices.Clone(r.Filters)
	slices.Sort(filters)
	name := ManualJobName
	if len(filters) > 0 {
		name += ":" + strings.Join(filters, ",")
	}
	return Job{Name: name, Filters: r.Filters}
}

// Cron interface defines basic robfig/cron methods used by scheduler
type Cron interface {
	Start()
	Stop() context.Context
	Entries() []cron.Entry
	Schedule(schedule cron.Schedule, cmd cron.Job) cron.EntryID
}

// Resumer keeps markers of active jobs to restart jobs interrupted by crash
type Resumer interface {
	OnStart(name string, filters []string) (string, error)
	OnFinish(fname string) error
	List() []resumer.Job
}

// Executor runs a list of scenarios
type Executor interface {
	Run(ctx context.Context, trigger string, list []scenario.Scenario) (Summary, error)
}

// Do runs blocking scheduler until ctx is canceled
func (s *Scheduler) Do(ctx context.Context) error {
	if s.DeDup == nil {
		s.DeDup = NewDeDup(true)
	}
	for _, j := range s.Jobs {
		if err := s.schedule(ctx, j); err != nil {
			return err
		}
	}

	if s.ManualTrigger != nil {
		go s.listenForManualTriggers(ctx)
	}
	if s.Resumer != nil {
		go s.resumeInterrupted(ctx)
	}

	s.Start()
	<-ctx.Done()
	log.Print("[DEBUG] terminate")
	<-s.Stop().Done()
	return nil
}

// States returns scheduled jobs with next run time
func (s *Scheduler) States() []JobState {
	s.lock.Lock()
	defer s.lock.Unlock()
	res := []JobState{}
	for _, e := range s.Entries() {
		if j, ok := s.entries[e.ID]; ok {
			res = append(res, JobState{Job: j, Next: e.Next})
		}
	}
	return res
}

func (s *Scheduler) schedule(ctx context.Context, j Job) error {
	if _, err := scenario.Select(j.Filters...); err != nil {
		return fmt.Errorf("job %s: %w", j.Name, err)
	}
	sched, err := cron.ParseStandard(j.Schedule)
	if err != nil {
		return fmt.Errorf("can't parse %s of job %s: %w", j.Schedule, j.Name, err)
	}

	id := s.Schedule(sched, cron.FuncJob(func() { s.execute(ctx, "schedule", j) }))
	s.lock.Lock()
	if s.entries == nil {
		s.entries = map[cron.EntryID]Job{}
	}
	s.entries[id] = j
	s.lock.Unlock()
	log.Printf("[INFO] new job %s %q, first: %s", j.Name, j.Schedule, sched.Next(time.Now()).Format(time.RFC3339))
	return nil
}

// execute runs job unless its previous run is still active
func (s *Scheduler) execute(ctx context.Context, trigger string, j Job) {
	if !s.DeDup.Add(j.Name) {
		log.Printf("[WARN] job %s is still running, skip %s run", j.Name, trigger)
		return
	}
	defer s.DeDup.Remove(j.Name)

	if s.Resumer != nil {
		rfile, err := s.Resumer.OnStart(j.Name, j.Filters)
		if err != nil {
			log.Printf("[WARN] failed to initiate resumer for %s, %v", j.Name, err)
		}
		defer func() {
			if err := s.Resumer.OnFinish(rfile); err != nil {
				log.Printf("[WARN] failed to finish resumer for %s, %v", rfile, err)
			}
		}()
	}

	list, err := scenario.Select(j.Filters...)
	if err != nil {
		log.Printf("[WARN] job %s, %v", j.Name, err)
		return
	}
	if _, err := s.Executor.Run(ctx, trigger, list); err != nil {
		log.Printf("[WARN] job %s failed, %v", j.Name, err)
	}
}

// resumeInterrupted runs jobs left unfinished by previous process, one by one
func (s *Scheduler) resumeInterrupted(ctx context.Context) {
	jobs := s.Resumer.List()
	if len(jobs) == 0 {
		return
	}
	log.Printf("[INFO] interrupted jobs detected - %+v", jobs)
	for _, j := range jobs {
		if ctx.Err() != nil {
			return
		}
		if err := s.Resumer.OnFinish(j.Fname); err != nil {
			log.Printf("[WARN] failed to finish resumer for %s, %v", j.Fname, err)
		}
		s.execute(ctx, "resume", Job{Name: j.Name, Filters: j.Filters})
	}
}

// listenForManualTriggers runs manual requests one by one, pending requests wait in the channel
func (s *Scheduler) listenForManualTriggers(ctx context.Context) {
	log.Printf("[INFO] manual trigger listener started")
	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] manual trigger listener stopped: %v", ctx.Err())
			return
		case req, ok := <-s.ManualTrigger:
			if !ok {
				log.Printf("[INFO] manual trigger channel closed")
				return
			}
			log.Printf("[INFO] manual run requested for %v", req.Filters)
			s.execute(ctx, ManualJobName, req.Job())
		}
	}
}
