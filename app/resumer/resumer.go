// Package resumer keeps markers of active jobs, so jobs interrupted by crash or restart can be started again
package resumer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"
)

const (
	markerExt = ".gridwatch"
	maxAge    = 24 * time.Hour
)

// Resumer keeps track of started jobs in marker files
type Resumer struct {
	location string
	enabled  bool
	seq      uint64
}

// Job is an interrupted job read from marker file
type Job struct {
	Name    string   `json:"name"`
	Filters []string `json:"filters,omitempty"`
	Fname   string   `json:"-"`
}

// New makes resumer for given location. Disabled resumer does nothing.
func New(location string, enabled bool) *Resumer {
	if enabled {
		if err := os.MkdirAll(location, 0o700); err != nil {
			log.Printf("[DEBUG] can't make %s, %s", location, err)
		}
	}
	return &Resumer{location: location, enabled: enabled}
}

// OnStart makes marker file for started job as ts-seq.gridwatch
func (r *Resumer) OnStart(name string, filters []string) (string, error) {
	if !r.enabled {
		return "", nil
	}
	data, err := json.Marshal(Job{Name: name, Filters: filters})
	if err != nil {
		return "", fmt.Errorf("can't marshal job %s: %w", name, err)
	}
	seq := atomic.AddUint64(&r.seq, 1)
	fname := filepath.Join(r.location, fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), seq, markerExt))
	log.Printf("[DEBUG] create resumer file %s", fname)
	return fname, os.WriteFile(fname, data, 0o600)
}

// OnFinish removes marker file
func (r *Resumer) OnFinish(fname string) error {
	if !r.enabled || fname == "" {
		return nil
	}
	log.Printf("[DEBUG] delete resumer file %s", fname)
	return os.Remove(fname)
}

// List returns interrupted jobs, markers older than a day are removed and skipped
func (r *Resumer) List() []Job {
	res := []Job{}
	if !r.enabled {
		return res
	}

	entries, err := os.ReadDir(r.location)
	if err != nil {
		log.Printf("[WARN] can't get resume list for %s, %s", r.location, err)
		return res
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), markerExt) {
			continue
		}
		finfo, err := entry.Info()
		if err != nil {
			log.Printf("[WARN] can't get resume info for %s, %s", entry.Name(), err)
			continue
		}

		fname := filepath.Join(r.location, finfo.Name())
		if finfo.ModTime().Add(maxAge).Before(time.Now()) {
			log.Printf("[DEBUG] resume file %s too old", fname)
			if err := os.Remove(fname); err != nil {
				log.Printf("[WARN] can't delete %s, %s", fname, err)
			}
			continue
		}
		data, err := os.ReadFile(fname) //nolint:gosec // file from resumer location
		if err != nil {
			log.Printf("[WARN] failed to read resume file %s, %s", fname, err)
			continue
		}
		job := Job{}
		if err := json.Unmarshal(data, &job); err != nil || job.Name == "" {
			log.Printf("[WARN] bad resume file %s, removed", fname)
			_ = os.Remove(fname)
			continue
		}
		job.Fname = fname
		log.Printf("[DEBUG] resume entry %+v", job)
		res = append(res, job)
	}
	return res
}

func (r *Resumer) String() string {
	return fmt.Sprintf("enabled:%v, location:%s", r.enabled, r.location)
}
