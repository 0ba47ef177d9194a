package pages

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/playwright-community/playwright-go"
)

const (
	transferButton      = "//span[text()='Transfer']"
	transferTitle       = "//*[contains(text(), 'Transfer TFTs on the TFChain')]"
	recipientAddrInput  = "(//label[text()='Recipient Address']/following-sibling::input)[1]"
	amountAddrInput     = "(//label[text()='Transfer Amount (TFT)']/following-sibling::input)[1]"
	recipientTwinInput  = "(//label[text()='Recipient Twin ID']/following-sibling::input)[1]"
	amountTwinInput     = "(//label[text()='Transfer Amount (TFT)']/following-sibling::input)[2]"
	addressSubmitButton = "(//button[.//span[text()='Send']])[1]"
	idSubmitButton      = "(//button[.//span[text()='Send']])[2]"
)

var balanceRe = regexp.MustCompile(`Balance:\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// balance poll settings for BalanceAfterTransfer
var (
	balancePollAttempts = 30
	balancePollDelay    = 2 * time.Second
)

// ErrBalanceUnchanged returned when balance didn't change after a transfer within poll attempts
var ErrBalanceUnchanged = errors.New("balance unchanged")

// TransferPage is TFChain > Transfer page with "by address" and "by twin id" tabs
type TransferPage struct {
	base
	twinAddress string
	twinID      string
}

// NewTransferPage makes transfer page object
func NewTransferPage(page playwright.Page) *TransferPage {
	return &TransferPage{base: newBase(page)}
}

// Navigate reads own twin address and id from profile and opens transfer page
func (t *TransferPage) Navigate() error {
	if err := t.openProfile(); err != nil {
		return fmt.Errorf("can't open profile: %w", err)
	}
	var err error
	if t.twinID, err = t.inputValue(twinIDLabel); err != nil {
		return fmt.Errorf("can't read twin id: %w", err)
	}
	if t.twinAddress, err = t.inputValue(twinAddressLabel); err != nil {
		return fmt.Errorf("can't read twin address: %w", err)
	}
	t.twinID, t.twinAddress = strings.TrimSpace(t.twinID), strings.TrimSpace(t.twinAddress)

	if err := t.click(transferButton); err != nil {
		return err
	}
	if err := t.visible(transferTitle); err != nil {
		return fmt.Errorf("transfer page not shown: %w", err)
	}
	log.Printf("[DEBUG] transfer page opened for twin %s (%s)", t.twinID, t.twinAddress)
	return nil
}

// TwinAddress returns own ss58 address read on Navigate
func (t *TransferPage) TwinAddress() string { return t.twinAddress }

// TwinID returns own twin id read on Navigate
func (t *TransferPage) TwinID() string { return t.twinID }

// ByTwinAddress selects "By Address" tab
func (t *TransferPage) ByTwinAddress() error { return t.tab("By Address") }

// ByTwinID selects "By Twin ID" tab
func (t *TransferPage) ByTwinID() error { return t.tab("By Twin ID") }

func (t *TransferPage) tab(name string) error {
	if err := t.page.GetByRole(*playwright.AriaRoleTab, playwright.PageGetByRoleOptions{Name: name}).Click(); err != nil {
		return fmt.Errorf("can't select %q tab: %w", name, err)
	}
	return nil
}

// AmountTFTInput types amount on "by address" tab
func (t *TransferPage) AmountTFTInput(amount string) error { return t.fill(amountAddrInput, amount) }

// RecipientInput types recipient address on "by address" tab
func (t *TransferPage) RecipientInput(addr string) error { return t.fill(recipientAddrInput, addr) }

// AmountTFTIDInput types amount on "by twin id" tab
func (t *TransferPage) AmountTFTIDInput(amount string) error { return t.fill(amountTwinInput, amount) }

// RecipientIDInput types recipient twin id on "by twin id" tab
func (t *TransferPage) RecipientIDInput(id string) error { return t.fill(recipientTwinInput, id) }

// AddressSubmit returns send button of "by address" tab
func (t *TransferPage) AddressSubmit() playwright.Locator {
	return t.page.Locator(addressSubmitButton)
}

// IDSubmit returns send button of "by twin id" tab
func (t *TransferPage) IDSubmit() playwright.Locator {
	return t.page.Locator(idSubmitButton)
}

// Balance returns wallet balance shown in the header
func (t *TransferPage) Balance() (float64, error) {
	if err := t.visible(balanceLabel); err != nil {
		return 0, err
	}
	txt, err := t.page.Locator(balanceLabel).First().TextContent()
	if err != nil {
		return 0, fmt.Errorf("can't read balance: %w", err)
	}
	return ParseBalance(txt)
}

// BalanceAfterTransfer polls balance until it differs from old, rounded to 3 decimals
func (t *TransferPage) BalanceAfterTransfer(ctx context.Context, old float64) (float64, error) {
	var current float64
	rptr := repeater.New(&strategy.FixedDelay{Repeats: balancePollAttempts, Delay: balancePollDelay})
	err := rptr.Do(ctx, func() error {
		b, err := t.Balance()
		if err != nil {
			return err
		}
		current = b
		if Round3(b) == Round3(old) {
			return ErrBalanceUnchanged
		}
		return nil
	})
	if ctx.Err() != nil {
		return current, ctx.Err()
	}
	if err != nil {
		return current, fmt.Errorf("balance %.3f after %d attempts: %w", current, balancePollAttempts, err)
	}
	return current, nil
}

// ParseBalance extracts number from "Balance: 1,234.567 TFT" text
func ParseBalance(s string) (float64, error) {
	m := balanceRe.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0, fmt.Errorf("no balance in %q", s)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse balance %q: %w", m[1], err)
	}
	return v, nil
}

// Round3 rounds to 3 decimals, the precision of TFT amounts in the dashboard
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
