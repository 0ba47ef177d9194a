package pages

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ConsoleCapture keeps last N lines of browser console and page errors. Thread safe,
// playwright delivers events from its own goroutine.
type ConsoleCapture struct {
	maxLines int
	lines    []string
	mu       sync.Mutex
}

// NewConsoleCapture makes io.Writer keeping last maximum lines, zero disables capture
func NewConsoleCapture(maximum int) *ConsoleCapture {
	return &ConsoleCapture{maxLines: maximum}
}

// Attach subscribes to console messages and uncaught errors of the page
func (c *ConsoleCapture) Attach(page playwright.Page) {
	if c.maxLines == 0 {
		return
	}
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		_, _ = fmt.Fprintf(c, "[%s] %s\n", msg.Type(), msg.Text())
	})
	page.OnPageError(func(err error) {
		_, _ = fmt.Fprintf(c, "[pageerror] %v\n", err)
	})
}

// Write satisfies io.Writer, splits p by lines and keeps the last maxLines of them
func (c *ConsoleCapture) Write(p []byte) (n int, err error) {
	if c.maxLines == 0 {
		return len(p), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range bytes.SplitSeq(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if len(c.lines) >= c.maxLines {
			c.lines = c.lines[1:]
		}
		c.lines = append(c.lines, string(line))
	}
	return len(p), nil
}

// String returns captured lines joined by new line
func (c *ConsoleCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}
