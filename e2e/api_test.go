//go:build e2e

package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threefoldtech/gridwatch/app/web"
)

const apiURL = "http://localhost:18080"

func startGridwatch(t *testing.T) {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "gridwatch-e2e")
	build := exec.CommandContext(context.Background(), "go", "build", "-o", bin, "./app")
	build.Dir = ".."
	build.Stdout, build.Stderr = os.Stdout, os.Stderr
	require.NoError(t, build.Run())

	cmd := exec.CommandContext(context.Background(), bin, //nolint:gosec // test binary
		"--config=testdata/Config.ini",
		"--schedule=@yearly",
		"--browser.headless",
		"--store.path="+filepath.Join(t.TempDir(), "gridwatch.db"),
		"--web.enabled",
		"--web.address=:18080",
		"--notify.host=e2e-test",
	)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	require.NoError(t, waitForServer(apiURL+"/ping", 60*time.Second))
}

func TestAPI_Status(t *testing.T) {
	startGridwatch(t)
	env := newEnv(t, "api-status")

	resp, err := env.Page.Goto(apiURL + "/api/v1/status")
	require.NoError(t, err)
	require.Equal(t, 200, resp.Status())

	status := web.StatusResponse{}
	require.NoError(t, resp.JSON(&status))
	assert.Equal(t, "e2e-test", status.Host)
	assert.Len(t, status.Scenarios, 14)
	assert.Equal(t, 14, status.Stats.Unknown, "nothing ran yet")
	require.Len(t, status.Jobs, 1)
	assert.Equal(t, "default", status.Jobs[0].Name)
	assert.False(t, status.Jobs[0].NextRun.IsZero())

	resp, err = env.Page.Goto(apiURL + "/api/v1/scenarios/transfer-page/history")
	require.NoError(t, err)
	require.Equal(t, 200, resp.Status())
	hist := web.HistoryResponse{}
	require.NoError(t, resp.JSON(&hist))
	assert.Equal(t, "TC982", hist.Scenario.Case)
	assert.Empty(t, hist.Executions)
}
