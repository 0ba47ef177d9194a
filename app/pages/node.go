package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"
)

const (
	farmSection     = "//span[text()='Farms']"
	yourFarmsButton = "//span[text()='Your Farms']"
	yourNodesTitle  = "//*[contains(text(), 'Your Nodes')]"
	nodeTableRows   = "//span[text()='Node ID']/ancestor::table/tbody/tr"

	ipv4Input        = "//label[text()='IPv4']/following-sibling::input"
	gatewayIPv4Input = "//label[text()='Gateway IPv4']/following-sibling::input"
	ipv6Input        = "//label[text()='IPv6']/following-sibling::input"
	gatewayIPv6Input = "//label[text()='Gateway IPv6']/following-sibling::input"
	domainInput      = "//label[text()='Domain']/following-sibling::input"
	feeInput         = "//label[text()='Additional Fees']/following-sibling::input"

	removeConfigButton  = "//button[.//span[text()=' Remove Config ']]"
	confirmRemoveButton = "//button[.//span[text()='Remove']]"
	saveConfigButton    = "//button[.//span[text()=' Save ']]"
	saveFeeButton       = "//button[.//span[text()='Save']]"
)

// node row action icons, column 6 holds "public config" then "additional fee"
const (
	configAction = 1
	feeAction    = 2
)

// NodePage is "Your Farms" page with the nodes table of the logged in twin
type NodePage struct {
	base
	TwinID string
}

// NewNodePage makes node page object
func NewNodePage(page playwright.Page) *NodePage {
	return &NodePage{base: newBase(page)}
}

// Navigate reads twin id from profile and opens Farms > Your Farms, waiting for the nodes table
func (n *NodePage) Navigate() error {
	if err := n.openProfile(); err != nil {
		return fmt.Errorf("can't open profile: %w", err)
	}
	twinID, err := n.inputValue(twinIDLabel)
	if err != nil {
		return fmt.Errorf("can't read twin id: %w", err)
	}
	n.TwinID = strings.TrimSpace(twinID)

	if err := n.click(farmSection); err != nil {
		return err
	}
	if err := n.click(yourFarmsButton); err != nil {
		return err
	}
	if err := n.visible(yourNodesTitle); err != nil {
		return fmt.Errorf("nodes table not shown: %w", err)
	}
	log.Printf("[DEBUG] node page opened for twin %s", n.TwinID)
	return nil
}

// SetupConfig opens public config dialog of node
func (n *NodePage) SetupConfig(nodeID int) error {
	if err := n.rowAction(nodeID, configAction); err != nil {
		return err
	}
	return n.visible(ipv4Input)
}

// AddConfigInput types public config values, empty value leaves the field untouched.
// Returns save button of the dialog.
func (n *NodePage) AddConfigInput(ipv4, gw4, ipv6, gw6, domain string) (playwright.Locator, error) {
	fields := []struct{ sel, val string }{
		{ipv4Input, ipv4}, {gatewayIPv4Input, gw4}, {ipv6Input, ipv6}, {gatewayIPv6Input, gw6}, {domainInput, domain},
	}
	for _, f := range fields {
		if f.val == "" {
			continue
		}
		if err := n.fill(f.sel, f.val); err != nil {
			return nil, err
		}
	}
	return n.SaveButton(), nil
}

// SaveButton returns save button of public config dialog
func (n *NodePage) SaveButton() playwright.Locator {
	return n.page.Locator(saveConfigButton).First()
}

// RemoveConfig clicks "Remove Config" and confirms removal
func (n *NodePage) RemoveConfig(ctx context.Context) error {
	for _, sel := range []string{removeConfigButton, confirmRemoveButton} {
		btn, err := n.WaitForButton(ctx, n.page.Locator(sel).First())
		if err != nil {
			return err
		}
		if err := btn.Click(); err != nil {
			return fmt.Errorf("can't click %s: %w", sel, err)
		}
	}
	return nil
}

// SetupFee opens additional fee dialog of node
func (n *NodePage) SetupFee(nodeID int) error {
	if err := n.rowAction(nodeID, feeAction); err != nil {
		return err
	}
	return n.visible(feeInput)
}

// SetFee types fee and returns save button of the fee dialog
func (n *NodePage) SetFee(fee string) (playwright.Locator, error) {
	if err := n.fill(feeInput, fee); err != nil {
		return nil, err
	}
	return n.page.Locator(saveFeeButton).First(), nil
}

// NodeIDs returns node ids listed in the nodes table
func (n *NodePage) NodeIDs() ([]int, error) {
	html, err := n.page.Content()
	if err != nil {
		return nil, fmt.Errorf("can't get page content: %w", err)
	}
	return ParseNodeIDs(html)
}

// NodeDetails expands every node row and scrapes the details blocks
func (n *NodePage) NodeDetails() ([]NodeDetails, error) {
	ids, err := n.NodeIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		row, err := n.row(id)
		if err != nil {
			return nil, err
		}
		if err := row.Locator("xpath=td[1]").Click(); err != nil {
			return nil, fmt.Errorf("can't expand node %d: %w", id, err)
		}
	}
	if len(ids) > 0 {
		if err := n.visible(nodeDetailsSelector); err != nil {
			return nil, err
		}
	}
	html, err := n.page.Content()
	if err != nil {
		return nil, fmt.Errorf("can't get page content: %w", err)
	}
	return ParseNodeTable(html)
}

// row finds table row with node id in the first column
func (n *NodePage) row(nodeID int) (playwright.Locator, error) {
	rows := n.page.Locator(nodeTableRows)
	count, err := rows.Count()
	if err != nil {
		return nil, fmt.Errorf("can't count node rows: %w", err)
	}
	want := strconv.Itoa(nodeID)
	for i := range count {
		r := rows.Nth(i)
		txt, err := r.Locator("xpath=td[1]").TextContent()
		if err != nil {
			continue // details row has no first cell of its own
		}
		if strings.TrimSpace(txt) == want {
			return r, nil
		}
	}
	return nil, fmt.Errorf("node %d not found in nodes table", nodeID)
}

func (n *NodePage) rowAction(nodeID, action int) error {
	r, err := n.row(nodeID)
	if err != nil {
		return err
	}
	if err := r.Locator(fmt.Sprintf("xpath=td[6]/span[%d]/i", action)).Click(); err != nil {
		return fmt.Errorf("can't click action %d of node %d: %w", action, nodeID, err)
	}
	return nil
}
