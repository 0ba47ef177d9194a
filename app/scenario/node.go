package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"

	"github.com/threefoldtech/gridwatch/app/generate"
	"github.com/threefoldtech/gridwatch/app/gridproxy"
	"github.com/threefoldtech/gridwatch/app/pages"
	"github.com/threefoldtech/gridwatch/app/scenario/expect"
)

// public config applied by the add config scenario
const (
	newIPv4   = "125.25.25.25/25"
	newGW4    = "125.25.25.24"
	newIPv6   = "2600:1f13:0d15:95:00::/64"
	newGW6    = "2600:1f13:0d15:95:00::1"
	newDomain = "tf.grid"
)

const usageTolerance = 0.01

var nodeScenarios = []Scenario{
	{ID: "node-list", Case: "TC1216", Name: "node page lists twin nodes", Group: GroupNode, Run: nodeList},
	{ID: "node-details", Case: "TC1216", Name: "node details match grid proxy", Group: GroupNode, Run: nodeDetails},
	{ID: "node-config-validation", Case: "TC1220", Name: "public config validation", Group: GroupNode, Run: nodeConfigValidation},
	{ID: "node-config-add", Case: "TC1221", Name: "add public config", Group: GroupNode, Run: nodeConfigAdd},
	{ID: "node-config-remove", Case: "TC1222", Name: "remove public config", Group: GroupNode, Run: nodeConfigRemove},
	{ID: "node-fee", Case: "TC1750", Name: "set additional fee", Group: GroupNode, Run: nodeFee},
}

// nodeSetup logs in with node account, opens node page and loads twin nodes from grid proxy
func nodeSetup(ctx context.Context, env *Env) (*pages.NodePage, []gridproxy.Node, error) {
	mnemonic, err := env.Settings.NodeAccount()
	if err != nil {
		return nil, nil, err
	}
	if err := login(ctx, env, mnemonic); err != nil {
		return nil, nil, err
	}
	np := pages.NewNodePage(env.Page)
	if err := np.Navigate(); err != nil {
		return nil, nil, err
	}
	twinID, err := strconv.Atoi(np.TwinID)
	if err != nil {
		return nil, nil, fmt.Errorf("bad twin id %q: %w", np.TwinID, err)
	}
	nodes, err := env.Proxy.TwinNodes(ctx, twinID)
	if err != nil {
		return nil, nil, fmt.Errorf("can't get nodes of twin %d: %w", twinID, err)
	}
	log.Printf("[DEBUG] twin %d owns %d nodes", twinID, len(nodes))
	return np, nodes, nil
}

func nodeList(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}

	// the table is filled asynchronously after the page title shows up
	var missing []int
	rptr := repeater.New(&strategy.FixedDelay{Repeats: env.Poll.Attempts, Delay: env.Poll.Delay})
	err = rptr.Do(ctx, func() error {
		shown, err := np.NodeIDs()
		if err != nil {
			return err
		}
		missing = missingNodes(nodes, shown)
		if len(missing) > 0 {
			return fmt.Errorf("nodes %v not listed", missing)
		}
		return nil
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func nodeDetails(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}
	details, err := np.NodeDetails()
	if err != nil {
		return err
	}
	if err := expect.Equal(len(nodes), len(details), "node details count"); err != nil {
		return err
	}

	var errs []error
	for _, d := range details {
		idx := slices.IndexFunc(nodes, func(n gridproxy.Node) bool { return n.NodeID == d.NodeID })
		if idx < 0 {
			errs = append(errs, fmt.Errorf("node %d shown but not owned by twin %s", d.NodeID, np.TwinID))
			continue
		}
		if err := compareNodeDetails(d, nodes[idx], time.Local); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func nodeConfigValidation(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}
	node, err := pickNode(nodes)
	if err != nil {
		return err
	}
	if err := np.SetupConfig(node.NodeID); err != nil {
		return err
	}

	check := func(ipv4, msg string) error {
		save, err := np.AddConfigInput(ipv4, "", "", "", "")
		if err != nil {
			return err
		}
		if err := np.WaitFor(msg); err != nil {
			return fmt.Errorf("ipv4 %q: %w", ipv4, err)
		}
		return expect.Disabled(save, fmt.Sprintf("save button for ipv4 %q", ipv4))
	}

	for _, c := range generate.InvalidIPv4Cases() {
		if err := check(c, "IPv4 is not valid."); err != nil {
			return err
		}
	}
	return check("255.0.0.1/32", "Private IP addresses are not allowed.")
}

func nodeConfigAdd(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}
	node, err := pickNode(nodes)
	if err != nil {
		return err
	}
	if err := np.SetupConfig(node.NodeID); err != nil {
		return err
	}
	save, err := np.AddConfigInput(newIPv4, newGW4, newIPv6, newGW6, newDomain)
	if err != nil {
		return err
	}
	if err := save.Click(); err != nil {
		return fmt.Errorf("can't save public config: %w", err)
	}
	if err := np.WaitFor("Public config saved successfully."); err != nil {
		return err
	}
	log.Printf("[INFO] public config of node %d saved, was %q", node.NodeID, node.PublicConfig.IPv4)
	return env.Proxy.WaitNodeIPv4(ctx, node.NodeID, newIPv4, env.Poll)
}

func nodeConfigRemove(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}
	node, err := pickNode(nodes)
	if err != nil {
		return err
	}
	if err := np.SetupConfig(node.NodeID); err != nil {
		return err
	}
	if err := np.RemoveConfig(ctx); err != nil {
		return err
	}
	if err := np.WaitFor("Public config removed successfully."); err != nil {
		return err
	}
	return env.Proxy.WaitNodeIPv4(ctx, node.NodeID, "", env.Poll)
}

func nodeFee(ctx context.Context, env *Env) error {
	np, nodes, err := nodeSetup(ctx, env)
	if err != nil {
		return err
	}
	node, err := pickNode(nodes)
	if err != nil {
		return err
	}
	if err := np.SetupFee(node.NodeID); err != nil {
		return err
	}
	btn, err := np.SetFee(generate.ValidAmount())
	if err != nil {
		return err
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("can't set fee: %w", err)
	}
	return np.WaitFor("Additional fee is set successfully.")
}

// missingNodes returns ids of nodes not present in shown
func missingNodes(nodes []gridproxy.Node, shown []int) []int {
	var res []int
	for _, n := range nodes {
		if !slices.Contains(shown, n.NodeID) {
			res = append(res, n.NodeID)
		}
	}
	return res
}

// compareNodeDetails checks scraped node details against grid proxy record.
// Timestamps are rendered in loc, usage percentages compared with usageTolerance.
func compareNodeDetails(d pages.NodeDetails, n gridproxy.Node, loc *time.Location) error {
	cru, sru, hru, mru := n.Usage()
	checks := []error{
		expect.Equal(n.PublicConfig.IPv4, d.IPv4, "ipv4"),
		expect.Equal(n.PublicConfig.GW4, d.GW4, "gw4"),
		expect.Equal(n.PublicConfig.IPv6, d.IPv6, "ipv6"),
		expect.Equal(n.PublicConfig.GW6, d.GW6, "gw6"),
		expect.Equal(n.PublicConfig.Domain, d.Domain, "domain"),
		expect.Equal(n.FarmID, d.FarmID, "farm id"),
		expect.Equal(n.TwinID, d.TwinID, "twin id"),
		expect.Equal(n.Country, d.Country, "country"),
		expect.Equal(n.City, d.City, "city"),
		expect.Equal(time.Unix(n.Created, 0).In(loc).Format(pages.DateLayout), d.Created, "created"),
		expect.Equal(n.FarmingPolicyID, d.FarmingPolicyID, "farming policy id"),
		expect.Equal(time.Unix(n.UpdatedAt, 0).In(loc).Format(pages.DateLayout), d.UpdatedAt, "updated at"),
		expect.InDelta(cru, d.CRU, usageTolerance, "cru usage"),
		expect.InDelta(sru, d.SRU, usageTolerance, "sru usage"),
		expect.InDelta(hru, d.HRU, usageTolerance, "hru usage"),
		expect.InDelta(mru, d.MRU, usageTolerance, "mru usage"),
		expect.EqualFold(n.Status, d.Status, "status"),
		expect.Equal(n.CertificationType, d.CertificationType, "certification type"),
		expect.Equal(n.SerialNumber, d.SerialNumber, "serial number"),
		expect.Equal(n.Uptime, d.Uptime, "uptime"),
	}
	if err := errors.Join(checks...); err != nil {
		return fmt.Errorf("node %d: %w", n.NodeID, err)
	}
	return nil
}
