// Package pages wraps dashboard screens into page objects driven by playwright.
// Each page object keeps element locators and the wait conditions needed to act on them.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"

	"github.com/threefoldtech/gridwatch/app/config"
)

// Browser owns playwright driver and a launched browser. Sessions made by NewSession
// are isolated browser contexts sharing this browser.
type Browser struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	settings config.Browser
}

// Session is an isolated browser context with a single page
type Session struct {
	ctx            playwright.BrowserContext
	page           playwright.Page
	screenshotsDir string
	console        *ConsoleCapture
}

// Launch starts playwright and the configured browser engine
func Launch(cfg config.Browser) (*Browser, error) {
	if cfg.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Name}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright %s: %w", cfg.Name, err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var bt playwright.BrowserType
	switch cfg.Name {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	brow, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			return nil, fmt.Errorf("failed to launch %s: %w (also failed to stop playwright: %v)", cfg.Name, err, stopErr)
		}
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Name, err)
	}
	log.Printf("[INFO] browser %s %s launched, headless=%v", cfg.Name, brow.Version(), cfg.Headless)
	return &Browser{pw: pw, browser: brow, settings: cfg}, nil
}

// NewSession creates an incognito-like context with one page and the default timeout applied
func (b *Browser) NewSession() (*Session, error) {
	bctx, err := b.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(b.settings.Timeout.Milliseconds()))
	console := NewConsoleCapture(b.settings.ConsoleLines)
	console.Attach(page)
	return &Session{ctx: bctx, page: page, screenshotsDir: b.settings.Screenshots, console: console}, nil
}

// Close stops the browser and playwright driver
func (b *Browser) Close() error {
	if err := b.browser.Close(); err != nil {
		log.Printf("[WARN] failed to close browser, %v", err)
	}
	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Page returns session page
func (s *Session) Page() playwright.Page { return s.page }

// Console returns last captured console lines of the page
func (s *Session) Console() string { return s.console.String() }

// Screenshot saves full page screenshot as <dir>/<name>_<unix>.png, no-op if screenshots dir not set.
// Returns path of the saved file.
func (s *Session) Screenshot(name string) (string, error) {
	if s.screenshotsDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(s.screenshotsDir, 0o750); err != nil {
		return "", fmt.Errorf("can't make screenshots dir: %w", err)
	}
	fname := filepath.Join(s.screenshotsDir, fmt.Sprintf("%s_%d.png", safeName(name), time.Now().Unix()))
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(fname),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("can't take screenshot: %w", err)
	}
	return fname, nil
}

// Close closes session context and its page
func (s *Session) Close() error {
	return s.ctx.Close()
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func safeName(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}
