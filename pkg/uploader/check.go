package uploader

import (
	"context"

	"github.com/entrhq/douyin-uploader/pkg/browser"
)

// CheckLogin replays the stored cookies into a fresh browser and reports
// whether the portal still treats them as logged in. Without a usable
// credential it returns invalid without launching anything. The stored
// credential is never modified.
func (u *Uploader) CheckLogin(ctx context.Context, opts CheckOptions) CheckResult {
	log := u.logger.With("check")

	cred, err := u.loadCredential()
	if err != nil {
		log.Infof("no usable session: %v", err)
		return CheckResult{}
	}

	handle, err := u.acquire(ctx, !opts.ShowBrowser)
	if err != nil {
		log.Errorf("acquire browser: %v", err)
		return CheckResult{}
	}
	defer u.release(handle, log)

	if err := handle.AddCookies(cred); err != nil {
		log.Errorf("install cookies: %v", err)
		return CheckResult{}
	}

	page := handle.Page()
	if err := u.navigator.Navigate(page, u.portal.BaseURL, browser.WaitUntilNetworkIdle); err != nil {
		log.Errorf("open portal: %v", err)
		return CheckResult{}
	}
	if err := sleep(ctx, u.timings.SettleDelay); err != nil {
		return CheckResult{}
	}

	url := page.URL()
	if u.classifier.IsLoginPage(url) {
		log.Infof("session rejected, landed on %s", url)
		return CheckResult{}
	}

	user := identity(page)
	log.Infof("session valid for %s", user)
	return CheckResult{IsValid: true, User: user}
}
