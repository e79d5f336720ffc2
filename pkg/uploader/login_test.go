package uploader

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/browser/browsertest"
	"github.com/entrhq/douyin-uploader/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SucceedsOnNthTick(t *testing.T) {
	h := newHarness(t, nil)
	h.u.timings.PollInterval = 20 * time.Millisecond
	timeout := 2 * time.Second
	h.page.URLFunc = func(n int) string {
		if n < 3 {
			return loginURL
		}
		return homeURL
	}
	h.page.Add(".user-name", &browsertest.Element{Text: " Alice "})
	h.handle().Jar = testCredential()

	start := time.Now()
	outcome := h.u.Login(context.Background(), LoginOptions{Timeout: timeout})
	elapsed := time.Since(start)

	require.True(t, outcome.Success, outcome.Error)
	assert.GreaterOrEqual(t, elapsed, 3*h.u.timings.PollInterval, "authenticated on the third tick")
	assert.Less(t, elapsed, timeout)
	assert.Equal(t, "Alice", outcome.User)
	assert.Equal(t, 2, outcome.CookieCount)
	assert.Empty(t, outcome.Kind)
	assert.Equal(t, []string{baseURL}, h.page.Visited())
	assert.False(t, h.launcher.LastOptions().Headless)
	assert.Equal(t, 1, h.handle().Releases())

	stored, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, testCredential(), stored)

	meta, err := h.store.LoadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "Alice", meta.User)
}

func TestLogin_PassportPageIsNotAuthenticated(t *testing.T) {
	h := newHarness(t, nil)
	h.page.URLFunc = func(n int) string {
		if n < 2 {
			return "https://creator.douyin.com/creator-micro/home?from=passport"
		}
		return homeURL
	}
	h.handle().Jar = testCredential()

	outcome := h.u.Login(context.Background(), LoginOptions{})

	require.True(t, outcome.Success)
	assert.Equal(t, "User", outcome.User)
}

func TestLogin_Timeout(t *testing.T) {
	h := newHarness(t, nil)
	h.page.URLFunc = func(int) string { return loginURL }
	h.handle().Jar = testCredential()

	timeout := 60 * time.Millisecond
	start := time.Now()
	outcome := h.u.Login(context.Background(), LoginOptions{Timeout: timeout})
	elapsed := time.Since(start)

	assert.False(t, outcome.Success)
	assert.Equal(t, KindTimeout, outcome.Kind)
	assert.Equal(t, ErrLoginTimeout.Error(), outcome.Error)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+500*time.Millisecond, "returns at the deadline, not a full interval later")
	assert.Equal(t, 1, h.handle().Releases())
	assert.False(t, h.store.Describe().Exists, "timeout must not persist cookies")
}

func TestLogin_KeepsPreviousCredentialOnFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.seedSession(t)
	h.page.URLFunc = func(int) string { return loginURL }

	outcome := h.u.Login(context.Background(), LoginOptions{Timeout: 15 * time.Millisecond})

	require.False(t, outcome.Success)
	stored, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, testCredential(), stored)
}

func TestLogin_OverwritesCredential(t *testing.T) {
	h := newHarness(t, nil)
	h.seedSession(t)
	h.page.URLFunc = func(int) string { return homeURL }
	fresh := []session.Cookie{{Name: "sessionid", Value: "new", Domain: ".douyin.com", Path: "/"}}
	h.handle().Jar = fresh

	outcome := h.u.Login(context.Background(), LoginOptions{})

	require.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.CookieCount)
	stored, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, session.Credential(fresh), stored)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(h *harness)
		kind     Kind
		releases int
	}{
		{
			name: "launch",
			setup: func(h *harness) {
				h.launcher.Err = errors.New("chromium missing")
			},
			kind:     KindLaunchError,
			releases: 0,
		},
		{
			name: "navigation timeout",
			setup: func(h *harness) {
				h.page.GotoErr = fmt.Errorf("%w: 30000ms exceeded", browser.ErrTimeout)
			},
			kind:     KindNavigationTimeout,
			releases: 1,
		},
		{
			name: "navigation error",
			setup: func(h *harness) {
				h.page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
			},
			kind:     KindInternal,
			releases: 1,
		},
		{
			name: "cookie capture",
			setup: func(h *harness) {
				h.page.URLFunc = func(int) string { return homeURL }
				h.handle().CookiesErr = errors.New("context closed")
			},
			kind:     KindInternal,
			releases: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			tt.setup(h)

			outcome := h.u.Login(context.Background(), LoginOptions{Timeout: 50 * time.Millisecond})

			assert.False(t, outcome.Success)
			assert.NotEmpty(t, outcome.Error)
			assert.Equal(t, tt.kind, outcome.Kind)
			assert.Equal(t, tt.releases, h.handle().Releases())
			assert.False(t, h.store.Describe().Exists)
		})
	}
}

func TestLogin_Cancelled(t *testing.T) {
	h := newHarness(t, nil)
	h.page.URLFunc = func(int) string { return loginURL }

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	outcome := h.u.Login(ctx, LoginOptions{Timeout: time.Minute})

	assert.False(t, outcome.Success)
	assert.Equal(t, KindCancelled, outcome.Kind)
	assert.Equal(t, 1, h.handle().Releases())
}
