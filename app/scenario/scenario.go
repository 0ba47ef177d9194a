// Package scenario defines the dashboard QA cases. Each scenario logs in with one of the configured
// accounts, drives page objects and cross-checks the result against the grid proxy.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/threefoldtech/gridwatch/app/config"
	"github.com/threefoldtech/gridwatch/app/generate"
	"github.com/threefoldtech/gridwatch/app/gridproxy"
	"github.com/threefoldtech/gridwatch/app/pages"
)

// groups of scenarios
const (
	GroupNode     = "node"
	GroupTransfer = "transfer"
)

// ErrNoNodes returned by node scenarios when the node account twin owns no nodes
var ErrNoNodes = errors.New("twin has no nodes")

// Proxy is the part of grid proxy client used by scenarios
type Proxy interface {
	TwinNodes(ctx context.Context, twinID int) ([]gridproxy.Node, error)
	WaitNodeIPv4(ctx context.Context, nodeID int, want string, poll gridproxy.Poll) error
}

// Env is what a scenario needs to run: settings, a fresh logged-out page and grid proxy access
type Env struct {
	Settings config.Settings
	Page     playwright.Page
	Proxy    Proxy
	Poll     gridproxy.Poll
}

// Scenario is a single QA case
type Scenario struct {
	ID    string // unique slug
	Case  string // test case number, shared by scenarios checking the same case
	Name  string
	Group string
	Run   func(ctx context.Context, env *Env) error
}

func (s Scenario) String() string {
	return fmt.Sprintf("%s %s (%s)", s.Case, s.Name, s.ID)
}

// All returns every scenario, node ones first
func All() []Scenario {
	res := make([]Scenario, 0, len(nodeScenarios)+len(transferScenarios))
	res = append(res, nodeScenarios...)
	return append(res, transferScenarios...)
}

// Select returns scenarios matching any of filters by id, case number or group, ignoring case.
// Empty filters select all. Order of All is kept.
func Select(filters ...string) ([]Scenario, error) {
	all := All()
	if len(filters) == 0 {
		return all, nil
	}

	res := []Scenario{}
	used := make(map[string]bool, len(filters))
	for _, s := range all {
		matched := false
		for _, f := range filters {
			f = strings.TrimSpace(f)
			if strings.EqualFold(f, s.ID) || strings.EqualFold(f, s.Case) || strings.EqualFold(f, s.Group) {
				used[f] = true
				matched = true
			}
		}
		if matched {
			res = append(res, s)
		}
	}
	for _, f := range filters {
		if !used[strings.TrimSpace(f)] {
			return nil, fmt.Errorf("no scenario matches %q", f)
		}
	}
	return res, nil
}

// login connects wallet for mnemonic, email falls back to a random one
func login(ctx context.Context, env *Env, mnemonic string) error {
	email := env.Settings.Accounts.Email
	if email == "" {
		email = generate.Email()
	}
	dash := pages.NewDashboardPage(env.Page, env.Settings.Base.BaseURL())
	if err := dash.Login(ctx, mnemonic, email, generate.Password()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// pickNode returns random node of the list
func pickNode(nodes []gridproxy.Node) (gridproxy.Node, error) {
	if len(nodes) == 0 {
		return gridproxy.Node{}, ErrNoNodes
	}
	return nodes[rand.IntN(len(nodes))], nil
}
