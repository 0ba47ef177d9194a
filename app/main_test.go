package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/threefoldtech/gridwatch/app/conditions"
	"github.com/threefoldtech/gridwatch/app/config"
	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/scenario"
)

func Test_makeHostName(t *testing.T) {
	opts.Notify.HostName = "test"
	assert.Equal(t, "test", makeHostName())

	opts.Notify.HostName = ""
	exp, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, exp, makeHostName())
}

func Test_makeNotifier(t *testing.T) {
	defer func() { opts.Notify.EnabledCompletion, opts.Notify.ToEmails, opts.Notify.FromEmail = false, nil, "" }()

	opts.Notify.EnabledCompletion, opts.Notify.EnabledError = false, false
	opts.Notify.FromEmail = ""
	opts.Notify.ToEmails = []string{"test@example.com"}
	assert.Nil(t, makeNotifier())

	opts.Notify.EnabledCompletion = true
	notif := makeNotifier()
	require.NotNil(t, notif)
	assert.True(t, notif.IsOnCompletion())
	assert.False(t, notif.IsOnError())
	assert.Equal(t, "gridwatch@"+makeHostName(), opts.Notify.FromEmail,
		"side effect of creating notifier with empty From is setting the From based on hostname")

	opts.Notify.ToEmails = nil
	assert.Nil(t, makeNotifier(), "no destinations")
}

func Test_makeConditions(t *testing.T) {
	defer func() {
		opts.Guard.LoadAvg, opts.Guard.Memory, opts.Guard.DiskFree, opts.Guard.DiskPath = 0, 0, 0, ""
		opts.Guard.Custom, opts.Guard.Dashboard = "", false
	}()

	assert.False(t, makeConditions("http://localhost:5173/").Enabled(), "no guard by default")

	opts.Guard.LoadAvg, opts.Guard.Memory = 4.5, 90
	opts.Guard.DiskFree, opts.Guard.DiskPath = 10, "/var"
	cond := makeConditions("http://localhost:5173/")
	assert.True(t, cond.Enabled())
	assert.Equal(t, conditions.Config{MaxLoadAvg: 4.5, MaxMemory: 90, MinDiskFree: 10, DiskPath: "/var"}, cond)

	opts.Guard.LoadAvg, opts.Guard.Memory, opts.Guard.DiskFree = 0, 0, 0
	opts.Guard.Dashboard = true
	cond = makeConditions("http://localhost:5173/")
	assert.True(t, cond.Enabled())
	assert.Equal(t, "http://localhost:5173/", cond.DashboardURL)
}

func Test_loadBase(t *testing.T) {
	oldConfig := opts.Config
	defer func() { opts.Config, opts.Base.Port, opts.Base.Net = oldConfig, 0, "" }()

	opts.Config = "config/testdata/Config.ini"
	base, err := loadBase()
	require.NoError(t, err)
	assert.Equal(t, config.Base{Port: 8080, Net: "qa"}, base, "values from ini")

	opts.Base.Port = 3000
	base, err = loadBase()
	require.NoError(t, err)
	assert.Equal(t, config.Base{Port: 3000, Net: "qa"}, base, "port from flag, net from ini")
	assert.Equal(t, "http://localhost:3000/", base.BaseURL())

	opts.Base.Net = " Main"
	base, err = loadBase()
	require.NoError(t, err)
	assert.Equal(t, "https://gridproxy.grid.tf/", base.GridProxyURL())

	opts.Config = "config/testdata/no-such.ini"
	_, err = loadBase()
	require.Error(t, err)
}

func Test_makeJobs(t *testing.T) {
	defer func() { opts.Suite, opts.Schedule, opts.Scenarios = "", "", nil }()

	opts.Schedule = "@every 1h"
	opts.Scenarios = []string{"transfer"}
	jobs, err := makeJobs()
	require.NoError(t, err)
	assert.Equal(t, []runner.Job{{Name: "default", Schedule: "@every 1h", Filters: []string{"transfer"}}}, jobs)

	opts.Suite = "suite/testdata/suite.yml"
	jobs, err = makeJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "transfers", jobs[0].Name)

	opts.Suite = "suite/testdata/bad.yml"
	_, err = makeJobs()
	require.Error(t, err)
}

func Test_runSchemaAndList(t *testing.T) {
	defer func() { opts.Schema, opts.List = "", false }()

	path := filepath.Join(t.TempDir(), "schema.json")
	opts.Schema = path
	code, err := run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), `"suites"`)

	opts.Schema = ""
	buf := bytes.NewBuffer(nil)
	listScenarios(buf, scenario.All())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 14)
	assert.True(t, strings.HasPrefix(lines[0], "node-list"))
	assert.Contains(t, lines[0], "TC1216")
}

func Test_runBadInput(t *testing.T) {
	defer func() { opts.Scenarios, opts.Config = nil, "" }()

	opts.Scenarios = []string{"no-such"}
	code, err := run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, code)

	opts.Scenarios = nil
	opts.Config = "testdata/no-such.ini"
	code, err = run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, code)
}

func Test_setupLogsWithLogsDisabled(t *testing.T) {
	opts.Log.Enabled = false
	assert.Equal(t, os.Stdout, setupLogs())
}

func Test_setupLogsToFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	opts.Log.Enabled = true
	opts.Log.Filename = tmpfile.Name()
	opts.Log.MaxSize = 100
	opts.Log.MaxBackups = 7
	opts.Log.MaxAge = 0
	opts.Log.EnabledCompress = false
	defer func() { opts.Log.Enabled = false; setupLogs() }()

	out := setupLogs()
	assert.IsType(t, &lumberjack.Logger{}, out)

	logger := out.(*lumberjack.Logger)
	assert.Equal(t, tmpfile.Name(), logger.Filename)
	assert.Equal(t, 100, logger.MaxSize)
	assert.Equal(t, 7, logger.MaxBackups)
	assert.Equal(t, 0, logger.MaxAge)
	assert.False(t, logger.Compress)
}
