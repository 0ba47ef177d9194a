package conditions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threefoldtech/gridwatch/app/conditions/mocks"
)

type hostReadings struct {
	load, cpu, memory, diskFree float64
	err                         error
}

func newStats(h hostReadings) *mocks.HostStatsMock {
	return &mocks.HostStatsMock{
		LoadAvgFunc:       func(context.Context) (float64, error) { return h.load, h.err },
		CPUPercentFunc:    func(context.Context) (float64, error) { return h.cpu, h.err },
		MemoryPercentFunc: func(context.Context) (float64, error) { return h.memory, h.err },
		DiskFreePercentFunc: func(context.Context, string) (float64, error) {
			return h.diskFree, h.err
		},
	}
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{DiskPath: "/var"}.Enabled(), "path alone is not a check")
	assert.True(t, Config{MaxLoadAvg: 2}.Enabled())
	assert.True(t, Config{MinDiskFree: 5}.Enabled())
	assert.True(t, Config{DashboardURL: "http://localhost:5173/"}.Enabled())
	assert.True(t, Config{Custom: "true"}.Enabled())
}

func TestChecker_HostGuard(t *testing.T) {
	quiet := hostReadings{load: 0.8, cpu: 12, memory: 40, diskFree: 60}

	tbl := []struct {
		name   string
		host   hostReadings
		cfg    Config
		ok     bool
		reason string
	}{
		{"nothing set", quiet, Config{}, true, ""},
		{"quiet host", quiet, Config{MaxLoadAvg: 4, MaxCPU: 80, MaxMemory: 90, MinDiskFree: 10}, true, ""},
		{"load over limit", hostReadings{load: 6.5}, Config{MaxLoadAvg: 4},
			false, "load average 6.50, limit 4.00"},
		{"load equal to limit", hostReadings{load: 4}, Config{MaxLoadAvg: 4},
			false, "load average 4.00, limit 4.00"},
		{"cpu busy", hostReadings{cpu: 97.6}, Config{MaxCPU: 80},
			false, "cpu usage 97%, limit 80%"},
		{"memory busy", hostReadings{memory: 93}, Config{MaxMemory: 90},
			false, "memory usage 93%, limit 90%"},
		{"disk full", hostReadings{diskFree: 3}, Config{MinDiskFree: 10},
			false, "free disk on / 3%, screenshots and history need 10%"},
		{"disk full on custom path", hostReadings{diskFree: 3}, Config{MinDiskFree: 10, DiskPath: "/var/gridwatch"},
			false, "free disk on /var/gridwatch 3%, screenshots and history need 10%"},
		{"stats error", hostReadings{err: errors.New("no /proc")}, Config{MaxMemory: 90},
			false, "can't read memory usage: no /proc"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(time.Second)
			c.Stats = newStats(tt.host)
			ok, reason := c.Check(context.Background(), tt.cfg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestChecker_HostGuardOrder(t *testing.T) {
	stats := newStats(hostReadings{load: 9, cpu: 99, memory: 99, diskFree: 1})
	c := NewChecker(time.Second)
	c.Stats = stats

	ok, reason := c.Check(context.Background(), Config{MaxLoadAvg: 4, MaxCPU: 80, MaxMemory: 90, MinDiskFree: 10})
	assert.False(t, ok)
	assert.Equal(t, "load average 9.00, limit 4.00", reason, "first failed check reported")
	assert.Len(t, stats.LoadAvgCalls(), 1)
	assert.Empty(t, stats.CPUPercentCalls(), "later checks not run")
	assert.Empty(t, stats.DiskFreePercentCalls())
}

func TestChecker_Dashboard(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>playground</html>"))
	}))
	defer up.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	c := NewChecker(time.Second)
	c.Stats = newStats(hostReadings{})

	ok, reason := c.Check(context.Background(), Config{DashboardURL: up.URL + "/"})
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = c.Check(context.Background(), Config{DashboardURL: broken.URL})
	assert.False(t, ok)
	assert.Equal(t, "dashboard "+broken.URL+" answered 502", reason)

	ok, reason = c.Check(context.Background(), Config{DashboardURL: downURL})
	assert.False(t, ok)
	assert.Contains(t, reason, "dashboard "+downURL+" unreachable")
}

func TestChecker_DashboardAfterHost(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer ts.Close()

	c := NewChecker(time.Second)
	c.Stats = newStats(hostReadings{memory: 95})
	ok, reason := c.Check(context.Background(), Config{MaxMemory: 90, DashboardURL: ts.URL})
	assert.False(t, ok)
	assert.Equal(t, "memory usage 95%, limit 90%", reason)
	assert.Zero(t, hits.Load(), "dashboard not requested on busy host")
}

func TestChecker_Custom(t *testing.T) {
	c := NewChecker(time.Second)
	c.Stats = newStats(hostReadings{})

	ok, reason := c.Check(context.Background(), Config{Custom: "test -d /"})
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = c.Check(context.Background(), Config{Custom: "exit 3"})
	assert.False(t, ok)
	assert.Equal(t, "custom check failed: exit status 3", reason)

	ok, reason = c.Check(context.Background(), Config{Custom: "echo 'vite is not running'; exit 1"})
	assert.False(t, ok)
	assert.Equal(t, "custom check failed: exit status 1, vite is not running", reason)
}

func TestChecker_CustomTimeout(t *testing.T) {
	c := NewChecker(100 * time.Millisecond)
	c.Stats = newStats(hostReadings{})
	st := time.Now()
	ok, reason := c.Check(context.Background(), Config{Custom: "sleep 5"})
	assert.False(t, ok)
	assert.Contains(t, reason, "custom check failed")
	assert.Less(t, time.Since(st), 4*time.Second)

	assert.Equal(t, 30*time.Second, NewChecker(0).CustomTimeout)
	assert.Equal(t, 30*time.Second, NewChecker(-1).CustomTimeout)
}

func TestChecker_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewChecker(time.Second)
	c.Stats = newStats(hostReadings{})
	ok, reason := c.Check(ctx, Config{Custom: "true"})
	assert.False(t, ok, "script not started with canceled run")
	assert.Contains(t, reason, "custom check failed")
}

func TestHostMetrics(t *testing.T) {
	h := HostMetrics{}
	ctx := context.Background()

	l, err := h.LoadAvg(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, l, 0.0)

	m, err := h.MemoryPercent(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 50, m, 50)

	d, err := h.DiskFreePercent(ctx, "/")
	require.NoError(t, err)
	assert.InDelta(t, 50, d, 50)

	_, err = h.DiskFreePercent(ctx, "/non/existent/path")
	require.Error(t, err)
}
