//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/threefoldtech/gridwatch/app/scenario"
)

func runGroup(t *testing.T, group string, skip func() bool) {
	t.Helper()
	list, err := scenario.Select(group)
	require.NoError(t, err)
	for _, s := range list {
		t.Run(s.Case+"_"+s.ID, func(t *testing.T) {
			if skip() {
				t.Skip("account mnemonic is not set")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			require.NoError(t, s.Run(ctx, newEnv(t, s.ID)))
		})
	}
}

func TestNodeScenarios(t *testing.T) {
	runGroup(t, scenario.GroupNode, func() bool { return settings.Accounts.NodeMnemonic == "" })
}

func TestTransferScenarios(t *testing.T) {
	runGroup(t, scenario.GroupTransfer, func() bool { return settings.Accounts.Mnemonic == "" })
}
