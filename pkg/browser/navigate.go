package browser

import (
	"errors"
	"fmt"
	"time"
)

// Navigator loads pages with a fixed timeout.
type Navigator struct {
	timeout time.Duration
}

// NewNavigator creates a navigator. A zero timeout uses DefaultTimeout.
func NewNavigator(timeout time.Duration) *Navigator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Navigator{timeout: timeout}
}

// Navigate loads url and waits for the given condition. A missed deadline
// is reported as ErrNavigationTimeout.
func (n *Navigator) Navigate(page Page, url string, waitUntil WaitUntil) error {
	err := page.Goto(url, NavigateOptions{
		WaitUntil: waitUntil,
		Timeout:   n.timeout,
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %s did not reach %s within %s", ErrNavigationTimeout, url, waitUntil, n.timeout)
	}
	return fmt.Errorf("navigation to %s failed: %w", url, err)
}
