package uploader

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/session"
)

// Login opens the portal and waits for the user to log in by hand,
// polling the page URL until it lands on a creator page or opts.Timeout
// elapses. On success the cookie jar is saved, replacing any earlier
// credential.
//
// Polling is used because the portal signals login completion only by
// navigating; there is no event to subscribe to.
func (u *Uploader) Login(ctx context.Context, opts LoginOptions) LoginOutcome {
	log := u.logger.With("login")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = u.timings.LoginTimeout
	}

	handle, err := u.acquire(ctx, opts.Headless)
	if err != nil {
		log.Errorf("acquire browser: %v", err)
		return loginFailure(err)
	}
	defer u.release(handle, log)

	page := handle.Page()
	if err := u.navigator.Navigate(page, u.portal.BaseURL, browser.WaitUntilDOMContentLoaded); err != nil {
		log.Errorf("open portal: %v", err)
		return loginFailure(err)
	}

	log.Infof("waiting up to %s for login", timeout)
	if err := u.awaitAuthentication(ctx, page, timeout); err != nil {
		log.Warnf("login not completed: %v", err)
		return loginFailure(err)
	}

	user := identity(page)
	cookies, err := handle.Cookies()
	if err != nil {
		log.Errorf("capture cookies: %v", err)
		return loginFailure(err)
	}
	if err := u.store.Save(session.Credential(cookies)); err != nil {
		log.Errorf("save credential: %v", err)
		return loginFailure(err)
	}
	if err := u.store.SaveMetadata(session.Metadata{User: user, SavedAt: time.Now()}); err != nil {
		log.Warnf("save session metadata: %v", err)
	}

	log.Infof("logged in as %s, saved %d cookies", user, len(cookies))
	return LoginOutcome{
		Success:     true,
		User:        user,
		CookieCount: len(cookies),
	}
}

// awaitAuthentication polls page.URL every poll interval until it shows an
// authenticated page. The final wait is trimmed so the call returns at the
// deadline rather than up to one interval later.
func (u *Uploader) awaitAuthentication(ctx context.Context, page browser.Page, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for tick := 1; ; tick++ {
		wait := u.timings.PollInterval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		if wait <= 0 {
			return ErrLoginTimeout
		}
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("login polling stopped: %w", err)
		}

		url := page.URL()
		if u.classifier.IsAuthenticated(url) {
			u.logger.Debugf("authenticated on tick %d at %s", tick, url)
			return nil
		}
	}
}

func loginFailure(err error) LoginOutcome {
	return LoginOutcome{
		Success: false,
		Error:   err.Error(),
		Kind:    KindOf(err),
	}
}
