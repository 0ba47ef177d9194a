package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/playwright-community/playwright-go"
)

const (
	waitTimeout = 30 * time.Second       // explicit waits on elements and messages
	pollDelay   = 250 * time.Millisecond // delay between polls of element state
)

// sidebar and header elements shared by all pages
const (
	logoutButton      = "//button[.//span[text()=' Logout ']]"
	tfchainButton     = "//span[text()='TFChain']"
	yourProfileButton = "//span[text()='Your Profile']"
	twinIDLabel       = "//label[text()='Twin ID']/following-sibling::input"
	twinAddressLabel  = "//label[text()='Address']/following-sibling::input"
	balanceLabel      = "//p[contains(text(), 'Balance:')]"
)

// base keeps page handle and common helpers used by the page objects
type base struct {
	page    playwright.Page
	timeout time.Duration
}

func newBase(page playwright.Page) base {
	return base{page: page, timeout: waitTimeout}
}

// WaitFor waits for a visible element containing text, returns error on timeout
func (b base) WaitFor(text string) error {
	err := b.page.GetByText(text).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(b.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("text %q not shown: %w", text, err)
	}
	return nil
}

// Contains reports whether page html contains text
func (b base) Contains(text string) (bool, error) {
	html, err := b.page.Content()
	if err != nil {
		return false, fmt.Errorf("can't get page content: %w", err)
	}
	return strings.Contains(html, text), nil
}

// WaitForButton waits until button becomes enabled and returns it. Stops early when ctx is done.
func (b base) WaitForButton(ctx context.Context, btn playwright.Locator) (playwright.Locator, error) {
	errDisabled := errors.New("button disabled")
	rptr := repeater.New(&strategy.FixedDelay{Repeats: int(b.timeout / pollDelay), Delay: pollDelay})
	err := rptr.Do(ctx, func() error {
		enabled, err := btn.IsEnabled()
		if err != nil {
			return err
		}
		if !enabled {
			return errDisabled
		}
		return nil
	})
	if err != nil {
		return btn, fmt.Errorf("button not enabled after %v: %w", b.timeout, err)
	}
	return btn, nil
}

func (b base) visible(selector string) error {
	err := b.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(b.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("element %s not visible: %w", selector, err)
	}
	return nil
}

func (b base) click(selector string) error {
	if err := b.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("can't click %s: %w", selector, err)
	}
	return nil
}

// fill clears input and types value, empty value leaves input cleared
func (b base) fill(selector, value string) error {
	loc := b.page.Locator(selector).First()
	if err := loc.Clear(); err != nil {
		return fmt.Errorf("can't clear %s: %w", selector, err)
	}
	if value == "" {
		return nil
	}
	if err := loc.PressSequentially(value); err != nil {
		return fmt.Errorf("can't type into %s: %w", selector, err)
	}
	return nil
}

func (b base) inputValue(selector string) (string, error) {
	if err := b.visible(selector); err != nil {
		return "", err
	}
	v, err := b.page.Locator(selector).First().InputValue()
	if err != nil {
		return "", fmt.Errorf("can't read %s: %w", selector, err)
	}
	return v, nil
}

// openProfile waits for login to complete and opens TFChain > Your Profile
func (b base) openProfile() error {
	if err := b.visible(logoutButton); err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}
	if err := b.click(tfchainButton); err != nil {
		return err
	}
	if err := b.click(yourProfileButton); err != nil {
		return err
	}
	return b.visible(twinIDLabel)
}
