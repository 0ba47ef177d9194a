// Package conditions guards a run. Browser scenarios are timing sensitive and need the dashboard
// served, so a run is skipped when the host is too busy or the dashboard does not answer.
package conditions

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

//go:generate moq -out mocks/host_stats.go -pkg mocks -skip-ensure -fmt goimports . HostStats

// Config defines the guard, zero fields are not checked
type Config struct {
	MaxLoadAvg   float64 // 1-min load average
	MaxCPU       int     // cpu usage percent
	MaxMemory    int     // memory usage percent
	MinDiskFree  int     // free disk percent on DiskPath
	DiskPath     string  // "/" if empty
	DashboardURL string  // must answer with non-error status
	Custom       string  // shell script, must exit with 0
}

// Enabled reports whether any check is set
func (c Config) Enabled() bool {
	return c.MaxLoadAvg > 0 || c.MaxCPU > 0 || c.MaxMemory > 0 || c.MinDiskFree > 0 ||
		c.DashboardURL != "" || c.Custom != ""
}

// HostStats reads host metrics
type HostStats interface {
	LoadAvg(ctx context.Context) (float64, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	DiskFreePercent(ctx context.Context, path string) (float64, error)
}

// Checker verifies guard conditions
type Checker struct {
	Stats         HostStats
	CustomTimeout time.Duration
	http          *resty.Client
}

// NewChecker makes checker reading real host metrics. Custom script and dashboard request
// are limited by timeout, 30s by default.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Checker{
		Stats:         HostMetrics{},
		CustomTimeout: timeout,
		http:          resty.New().SetTimeout(timeout),
	}
}

// Check returns false with reason of the first unmet condition.
// Host load is checked first, then the dashboard, then the custom script.
func (c *Checker) Check(ctx context.Context, cfg Config) (bool, string) {
	checks := []func(context.Context, Config) string{c.checkHost, c.checkDashboard, c.checkCustom}
	for _, check := range checks {
		if reason := check(ctx, cfg); reason != "" {
			return false, reason
		}
	}
	return true, ""
}

func (c *Checker) checkHost(ctx context.Context, cfg Config) string {
	if cfg.MaxLoadAvg > 0 {
		v, err := c.Stats.LoadAvg(ctx)
		if err != nil {
			return fmt.Sprintf("can't read load average: %v", err)
		}
		if v >= cfg.MaxLoadAvg {
			return fmt.Sprintf("load average %.2f, limit %.2f", v, cfg.MaxLoadAvg)
		}
	}
	if reason := usage(ctx, "cpu", c.Stats.CPUPercent, cfg.MaxCPU); reason != "" {
		return reason
	}
	if reason := usage(ctx, "memory", c.Stats.MemoryPercent, cfg.MaxMemory); reason != "" {
		return reason
	}
	if cfg.MinDiskFree > 0 {
		path := cfg.DiskPath
		if path == "" {
			path = "/"
		}
		free, err := c.Stats.DiskFreePercent(ctx, path)
		if err != nil {
			return fmt.Sprintf("can't read disk usage of %s: %v", path, err)
		}
		if int(free) < cfg.MinDiskFree {
			return fmt.Sprintf("free disk on %s %d%%, screenshots and history need %d%%", path, int(free), cfg.MinDiskFree)
		}
	}
	return ""
}

// usage checks percent metric against limit, zero limit disables the check
func usage(ctx context.Context, name string, read func(context.Context) (float64, error), limit int) string {
	if limit <= 0 {
		return ""
	}
	v, err := read(ctx)
	if err != nil {
		return fmt.Sprintf("can't read %s usage: %v", name, err)
	}
	if int(v) >= limit {
		return fmt.Sprintf("%s usage %d%%, limit %d%%", name, int(v), limit)
	}
	return ""
}

func (c *Checker) checkDashboard(ctx context.Context, cfg Config) string {
	if cfg.DashboardURL == "" {
		return ""
	}
	resp, err := c.http.R().SetContext(ctx).Get(cfg.DashboardURL)
	if err != nil {
		return fmt.Sprintf("dashboard %s unreachable: %v", cfg.DashboardURL, err)
	}
	if resp.IsError() {
		return fmt.Sprintf("dashboard %s answered %d", cfg.DashboardURL, resp.StatusCode())
	}
	return ""
}

func (c *Checker) checkCustom(ctx context.Context, cfg Config) string {
	if cfg.Custom == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, c.CustomTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "sh", "-c", cfg.Custom) //nolint:gosec // script set by user
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Sprintf("custom check failed: %v, %s", err, trim(msg, 200))
		}
		return fmt.Sprintf("custom check failed: %v", err)
	}
	return ""
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// HostMetrics reads host metrics with gopsutil
type HostMetrics struct{}

// LoadAvg returns 1-min load average
func (HostMetrics) LoadAvg(ctx context.Context) (float64, error) {
	l, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return l.Load1, nil
}

// CPUPercent returns cpu usage sampled over a second
func (HostMetrics) CPUPercent(ctx context.Context) (float64, error) {
	res, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("no cpu data")
	}
	return res[0], nil
}

// MemoryPercent returns used memory percent
func (HostMetrics) MemoryPercent(ctx context.Context) (float64, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return v.UsedPercent, nil
}

// DiskFreePercent returns free space percent of the filesystem holding path
func (HostMetrics) DiskFreePercent(ctx context.Context, path string) (float64, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return 100 - u.UsedPercent, nil
}
