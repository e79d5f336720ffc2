package browser

import (
	"context"
	"errors"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/session"
)

var (
	// ErrLaunch wraps any failure to start the driver or the browser.
	ErrLaunch = errors.New("browser: launch failed")

	// ErrTimeout is returned when a bounded wait expires.
	ErrTimeout = errors.New("browser: timeout")

	// ErrNavigationTimeout is returned when a page misses its load condition.
	ErrNavigationTimeout = errors.New("browser: navigation timeout")
)

// Launcher acquires browser execution contexts.
type Launcher interface {
	Acquire(ctx context.Context, opts AcquireOptions) (Handle, error)
}

// AcquireOptions configures a new handle.
type AcquireOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool
}

// Handle is one acquired browser context.
type Handle interface {
	// Page returns the context's working page
	Page() Page

	// Cookies returns every cookie in the context
	Cookies() ([]session.Cookie, error)

	// AddCookies installs cookies into the context
	AddCookies(cookies []session.Cookie) error

	// Release closes the context and its browser process. It is safe to
	// call more than once; only the first call has an effect.
	Release() error
}

// Page is the subset of page operations the workflows need.
type Page interface {
	Goto(url string, opts NavigateOptions) error
	URL() string

	// WaitForSelector waits for the selector to reach opts.State.
	// Expiry returns an error wrapping ErrTimeout.
	WaitForSelector(selector string, opts WaitOptions) (Element, error)

	// QuerySelector returns nil, nil when nothing matches.
	QuerySelector(selector string) (Element, error)
	QuerySelectorAll(selector string) ([]Element, error)

	InnerText(selector string) (string, error)
	Evaluate(script string, arg interface{}) (interface{}, error)
	Keyboard() Keyboard
}

// Element is a handle to one DOM element.
type Element interface {
	Click() error
	Type(text string) error
	TextContent() (string, error)
	IsEnabled() (bool, error)
	SetInputFiles(path string) error
}

// Keyboard sends key events to the focused element.
type Keyboard interface {
	Press(key string) error
	Type(text string) error
}

// WaitUntil selects the load condition a navigation waits for.
type WaitUntil string

const (
	WaitUntilDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitUntilNetworkIdle      WaitUntil = "networkidle"
)

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	WaitUntil WaitUntil

	// Timeout bounds the navigation; 0 means the page default
	Timeout time.Duration
}

// SelectorState is the element state WaitForSelector waits for.
type SelectorState string

const (
	StateAttached SelectorState = "attached"
	StateVisible  SelectorState = "visible"
)

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// State to wait for; empty means visible
	State SelectorState

	// Timeout bounds the wait; 0 means the page default
	Timeout time.Duration
}

// Default values for browser launch.
const (
	DefaultWindowWidth  = 1400
	DefaultWindowHeight = 900
	DefaultTimeout      = 30 * time.Second
)
