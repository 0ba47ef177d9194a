// Package expect has assertion helpers returning errors instead of failing a test,
// so scenarios can run both under go test and under the runner.
package expect

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Equal returns error if want and got are not deeply equal
func Equal(want, got any, what string) error {
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("%s: want %v, got %v", what, want, got)
	}
	return nil
}

// True returns error if cond is false
func True(cond bool, format string, args ...any) error {
	if !cond {
		return fmt.Errorf(format, args...)
	}
	return nil
}

// InDelta returns error if want and got differ more than delta
func InDelta(want, got, delta float64, what string) error {
	if math.IsNaN(want) || math.IsNaN(got) || math.Abs(want-got) > delta {
		return fmt.Errorf("%s: want %v±%v, got %v", what, want, delta, got)
	}
	return nil
}

// EqualFold returns error if strings differ ignoring case
func EqualFold(want, got, what string) error {
	if !strings.EqualFold(want, got) {
		return fmt.Errorf("%s: want %q, got %q", what, want, got)
	}
	return nil
}

// Between returns error if v is outside of [lo, hi]
func Between(v, lo, hi float64, what string) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s: %v not in [%v, %v]", what, v, lo, hi)
	}
	return nil
}

// Disabled returns error if button is enabled or its state can't be read
func Disabled(btn playwright.Locator, what string) error {
	enabled, err := btn.IsEnabled()
	if err != nil {
		return fmt.Errorf("can't check %s: %w", what, err)
	}
	if enabled {
		return fmt.Errorf("%s is enabled", what)
	}
	return nil
}
