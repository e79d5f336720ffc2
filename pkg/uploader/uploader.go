// Package uploader drives the Douyin creator portal: interactive login,
// silent session checks and the upload → metadata → publish workflow.
//
// Every exported operation returns a result value and never an error.
// Failures are folded into the result together with a Kind so callers can
// tell stale sessions apart from portal UI drift. Each operation owns the
// browser it acquires and releases it on every exit path.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/config"
	"github.com/entrhq/douyin-uploader/pkg/logging"
	"github.com/entrhq/douyin-uploader/pkg/portal"
	"github.com/entrhq/douyin-uploader/pkg/session"
)

// SessionStore persists the portal credential between runs.
type SessionStore interface {
	Save(cred session.Credential) error
	Load() (session.Credential, error)
	Describe() session.Info
	Clear() error
	Path() string
	SaveMetadata(meta session.Metadata) error
	LoadMetadata() (session.Metadata, error)
}

var _ SessionStore = (*session.FileStore)(nil)

// Options configures an Uploader.
type Options struct {
	Launcher browser.Launcher
	Store    SessionStore

	// Codes answers verification challenges; nil fails any challenge
	Codes CodeProvider

	Portal config.PortalConfig

	// Timings zero fields fall back to config.DefaultTimings
	Timings config.Timings

	// Classifier decides login state from URLs; nil uses the portal defaults
	Classifier *portal.Classifier

	Logger *logging.Logger
}

// Uploader runs the portal operations. It is not safe for concurrent use:
// operations share one browser profile directory.
type Uploader struct {
	launcher   browser.Launcher
	store      SessionStore
	codes      CodeProvider
	navigator  *browser.Navigator
	classifier *portal.Classifier
	portal     config.PortalConfig
	timings    config.Timings
	logger     *logging.Logger
}

// New creates an Uploader.
func New(opts Options) *Uploader {
	if opts.Classifier == nil {
		opts.Classifier = portal.MustDefaultClassifier()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	opts.Timings = opts.Timings.WithDefaults()
	return &Uploader{
		launcher:   opts.Launcher,
		store:      opts.Store,
		codes:      opts.Codes,
		navigator:  browser.NewNavigator(opts.Timings.NavigationTimeout),
		classifier: opts.Classifier,
		portal:     opts.Portal,
		timings:    opts.Timings,
		logger:     opts.Logger,
	}
}

// NewFromConfig wires an Uploader backed by Playwright and the cookie file
// named in cfg.
func NewFromConfig(cfg *config.Config, codes CodeProvider, logger *logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.Nop()
	}
	manager := browser.NewManager(browser.ManagerOptions{
		ProfileDir:    cfg.Paths.ProfileDir,
		WindowWidth:   cfg.Browser.WindowWidth,
		WindowHeight:  cfg.Browser.WindowHeight,
		SlowMo:        cfg.Browser.SlowMo,
		CreatorOrigin: cfg.Portal.CreatorOrigin,
		SiteOrigin:    cfg.Portal.SiteOrigin,
		SkipInstall:   cfg.Browser.SkipInstall,
	}, logger.With("browser"))

	return New(Options{
		Launcher: manager,
		Store:    session.NewFileStore(cfg.Paths.CookiesFile, cfg.Paths.ProfileDir),
		Codes:    codes,
		Portal:   cfg.Portal,
		Timings:  cfg.Timings,
		Logger:   logger,
	})
}

// SessionInfo reports what is stored without validating it.
func (u *Uploader) SessionInfo() SessionInfo {
	desc := u.store.Describe()
	if !desc.Exists {
		return SessionInfo{File: u.store.Path()}
	}
	info := SessionInfo{
		File:    u.store.Path(),
		Exists:  true,
		Count:   desc.Count,
		Created: desc.CreatedAt,
	}
	if meta, err := u.store.LoadMetadata(); err == nil {
		info.User = meta.User
	}
	return info
}

// ClearSession removes the stored credential and browser profile. It is
// idempotent and never fails visibly.
func (u *Uploader) ClearSession() {
	if err := u.store.Clear(); err != nil {
		u.logger.Warnf("clear session: %v", err)
		return
	}
	u.logger.Infof("session cleared")
}

// acquire launches a browser, tagging every failure as a launch error.
func (u *Uploader) acquire(ctx context.Context, headless bool) (browser.Handle, error) {
	handle, err := u.launcher.Acquire(ctx, browser.AcquireOptions{Headless: headless})
	if err != nil {
		if errors.Is(err, browser.ErrLaunch) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", browser.ErrLaunch, err)
	}
	return handle, nil
}

// release closes handle, logging rather than returning failures since
// the operation's own result is already decided.
func (u *Uploader) release(handle browser.Handle, log *logging.Logger) {
	if err := handle.Release(); err != nil {
		log.Warnf("release browser: %v", err)
	}
}

// loadCredential returns the stored credential or ErrNoSession.
func (u *Uploader) loadCredential() (session.Credential, error) {
	cred, err := u.store.Load()
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	if !cred.Usable() {
		return nil, ErrNoSession
	}
	return cred, nil
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
