package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/douyin-uploader/pkg/logging"
	"github.com/entrhq/douyin-uploader/pkg/session"
)

// Permissions granted to the creator portal in headed mode so the upload
// page never stalls on a browser prompt.
var (
	creatorPermissions = []string{"geolocation", "notifications", "camera", "microphone", "clipboard-read", "clipboard-write"}
	sitePermissions    = []string{"geolocation", "notifications", "camera", "microphone"}
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// ProfileDir is the persistent Chromium user data directory
	ProfileDir string

	WindowWidth  int
	WindowHeight int

	// SlowMo delays every operation in headed mode
	SlowMo time.Duration

	// CreatorOrigin and SiteOrigin receive permission grants in headed mode
	CreatorOrigin string
	SiteOrigin    string

	// SkipInstall skips the driver download check
	SkipInstall bool
}

// Manager launches Playwright-driven Chromium with a persistent profile.
// Each Acquire starts its own driver so a Release tears down everything
// the handle created.
type Manager struct {
	opts   ManagerOptions
	logger *logging.Logger

	installOnce sync.Once
	installErr  error
}

// NewManager creates a new browser manager.
func NewManager(opts ManagerOptions, logger *logging.Logger) *Manager {
	if opts.WindowWidth == 0 {
		opts.WindowWidth = DefaultWindowWidth
	}
	if opts.WindowHeight == 0 {
		opts.WindowHeight = DefaultWindowHeight
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{opts: opts, logger: logger}
}

func (m *Manager) runOptions() *playwright.RunOptions {
	// Discard driver output so it cannot interleave with CLI output
	return &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
}

func (m *Manager) install() error {
	if m.opts.SkipInstall {
		return nil
	}
	m.installOnce.Do(func() {
		m.installErr = playwright.Install(m.runOptions())
	})
	return m.installErr
}

// launchArgs returns the Chromium command line for the configured window.
func (m *Manager) launchArgs() []string {
	return []string{
		fmt.Sprintf("--window-size=%d,%d", m.opts.WindowWidth, m.opts.WindowHeight),
		"--no-sandbox",
		"--disable-setuid-sandbox",
		"--disable-blink-features=AutomationControlled",
		"--use-fake-ui-for-media-stream",
		"--use-fake-device-for-media-stream",
		"--disable-notifications",
	}
}

func (m *Manager) contextOptions(headless bool) playwright.BrowserTypeLaunchPersistentContextOptions {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(headless),
		Args:              m.launchArgs(),
		IgnoreDefaultArgs: []string{"--enable-automation"},
	}
	if headless {
		opts.Viewport = &playwright.Size{
			Width:  m.opts.WindowWidth,
			Height: m.opts.WindowHeight,
		}
	} else {
		opts.NoViewport = playwright.Bool(true)
		if m.opts.SlowMo > 0 {
			opts.SlowMo = playwright.Float(float64(m.opts.SlowMo.Milliseconds()))
		}
	}
	return opts
}

// Acquire starts the driver and launches a persistent context.
func (m *Manager) Acquire(ctx context.Context, opts AcquireOptions) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.install(); err != nil {
		return nil, fmt.Errorf("%w: failed to install playwright: %v", ErrLaunch, err)
	}

	pw, err := playwright.Run(m.runOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start playwright: %v", ErrLaunch, err)
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(m.opts.ProfileDir, m.contextOptions(opts.Headless))
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: failed to launch browser: %v", ErrLaunch, err)
	}

	if !opts.Headless {
		m.grantPermissions(bctx)
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = bctx.NewPage()
		if err != nil {
			_ = bctx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("%w: failed to create page: %v", ErrLaunch, err)
		}
	}
	page.SetDefaultTimeout(float64(DefaultTimeout.Milliseconds()))

	m.logger.Debugf("browser acquired (headless=%t, profile=%s)", opts.Headless, m.opts.ProfileDir)
	return &playwrightHandle{
		pw:     pw,
		ctx:    bctx,
		page:   &pwPage{page: page},
		logger: m.logger,
	}, nil
}

// grantPermissions is best-effort: a refused grant only means the portal
// may show a permission prompt.
func (m *Manager) grantPermissions(bctx playwright.BrowserContext) {
	grants := []struct {
		origin string
		perms  []string
	}{
		{m.opts.CreatorOrigin, creatorPermissions},
		{m.opts.SiteOrigin, sitePermissions},
	}
	for _, g := range grants {
		if g.origin == "" {
			continue
		}
		err := bctx.GrantPermissions(g.perms, playwright.BrowserContextGrantPermissionsOptions{
			Origin: playwright.String(g.origin),
		})
		if err != nil {
			m.logger.Warnf("permission grant for %s failed: %v", g.origin, err)
		}
	}
}

type playwrightHandle struct {
	pw     *playwright.Playwright
	ctx    playwright.BrowserContext
	page   *pwPage
	logger *logging.Logger

	releaseOnce sync.Once
	releaseErr  error
}

func (h *playwrightHandle) Page() Page {
	return h.page
}

func (h *playwrightHandle) Cookies() ([]session.Cookie, error) {
	cookies, err := h.ctx.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, fromPlaywrightCookie(c))
	}
	return out, nil
}

func (h *playwrightHandle) AddCookies(cookies []session.Cookie) error {
	in := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		in = append(in, toPlaywrightCookie(c))
	}
	if err := h.ctx.AddCookies(in); err != nil {
		return fmt.Errorf("failed to install cookies: %w", err)
	}
	return nil
}

func (h *playwrightHandle) Release() error {
	h.releaseOnce.Do(func() {
		// Close the context first so the profile lock is dropped, then stop the driver
		ctxErr := h.ctx.Close()
		stopErr := h.pw.Stop()
		if ctxErr != nil {
			h.releaseErr = fmt.Errorf("failed to close browser: %w", ctxErr)
		} else if stopErr != nil {
			h.releaseErr = fmt.Errorf("failed to stop playwright: %w", stopErr)
		}
		h.logger.Debugf("browser released")
	})
	return h.releaseErr
}

func fromPlaywrightCookie(c playwright.Cookie) session.Cookie {
	out := session.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if c.SameSite != nil {
		out.SameSite = string(*c.SameSite)
	}
	return out
}

func toPlaywrightCookie(c session.Cookie) playwright.OptionalCookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	out := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   playwright.String(c.Domain),
		Path:     playwright.String(path),
		Expires:  playwright.Float(c.Expires),
		HttpOnly: playwright.Bool(c.HTTPOnly),
		Secure:   playwright.Bool(c.Secure),
	}
	if c.SameSite != "" {
		sameSite := playwright.SameSiteAttribute(c.SameSite)
		out.SameSite = &sameSite
	}
	return out
}
