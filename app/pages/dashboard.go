package pages

import (
	"context"
	"fmt"

	log "github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"
)

const (
	mnemonicInput        = "//label[text()='Mnemonic or Hex Seed']/following-sibling::input"
	emailInput           = "//label[text()='Email']/following-sibling::input"
	passwordInput        = "//label[text()='Password']/following-sibling::input"
	confirmPasswordInput = "//label[text()='Confirm Password']/following-sibling::input"
	connectButton        = "//button[.//span[text()=' Connect ']]"
	acceptTermsButton    = "//button[.//span[text()='Accept terms and conditions']]"
)

// DashboardPage is the landing page with wallet import form
type DashboardPage struct {
	base
	url string
}

// NewDashboardPage makes dashboard page object for the playground served at url
func NewDashboardPage(page playwright.Page, url string) *DashboardPage {
	return &DashboardPage{base: newBase(page), url: url}
}

// OpenAndLoad opens dashboard url and waits for the wallet import form,
// accepting terms and conditions if the dialog is shown
func (d *DashboardPage) OpenAndLoad() error {
	if _, err := d.page.Goto(d.url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateNetworkidle}); err != nil {
		return fmt.Errorf("can't open %s: %w", d.url, err)
	}
	terms := d.page.Locator(acceptTermsButton)
	if n, err := terms.Count(); err == nil && n > 0 {
		if err := terms.First().Click(); err != nil {
			return fmt.Errorf("can't accept terms: %w", err)
		}
	}
	if err := d.visible(mnemonicInput); err != nil {
		return fmt.Errorf("dashboard not loaded: %w", err)
	}
	log.Printf("[DEBUG] dashboard %s loaded", d.url)
	return nil
}

// ImportAccount types mnemonic into the import form
func (d *DashboardPage) ImportAccount(mnemonic string) error {
	if err := d.fill(mnemonicInput, mnemonic); err != nil {
		return fmt.Errorf("can't import account: %w", err)
	}
	return nil
}

// ConnectYourWallet fills email and both password fields, returns connect button
func (d *DashboardPage) ConnectYourWallet(email, password string) (playwright.Locator, error) {
	if err := d.visible(emailInput); err != nil {
		return nil, err
	}
	if err := d.fill(emailInput, email); err != nil {
		return nil, err
	}
	if err := d.fill(passwordInput, password); err != nil {
		return nil, err
	}
	if err := d.fill(confirmPasswordInput, password); err != nil {
		return nil, err
	}
	return d.page.Locator(connectButton).First(), nil
}

// ClickButton waits for button to be enabled and clicks it
func (d *DashboardPage) ClickButton(ctx context.Context, btn playwright.Locator) error {
	if _, err := d.WaitForButton(ctx, btn); err != nil {
		return err
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("can't click button: %w", err)
	}
	return nil
}

// Logout clicks logout button in the header
func (d *DashboardPage) Logout() error {
	if err := d.visible(logoutButton); err != nil {
		return err
	}
	return d.click(logoutButton)
}

// Login opens dashboard and connects wallet for mnemonic with a fresh email and password
func (d *DashboardPage) Login(ctx context.Context, mnemonic, email, password string) error {
	if err := d.OpenAndLoad(); err != nil {
		return err
	}
	if err := d.ImportAccount(mnemonic); err != nil {
		return err
	}
	btn, err := d.ConnectYourWallet(email, password)
	if err != nil {
		return fmt.Errorf("can't fill wallet form: %w", err)
	}
	if err := d.ClickButton(ctx, btn); err != nil {
		return fmt.Errorf("can't connect wallet: %w", err)
	}
	return d.visible(logoutButton)
}
