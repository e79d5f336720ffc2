package uploader

import (
	"context"
	"errors"
	"testing"

	"github.com/entrhq/douyin-uploader/pkg/browser/browsertest"
	"github.com/entrhq/douyin-uploader/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLogin_NoSessionNeverLaunches(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, CheckResult{}, h.u.CheckLogin(context.Background(), CheckOptions{}))
	assert.Zero(t, h.launcher.Calls())
}

func TestCheckLogin_EmptySessionNeverLaunches(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.store.Save(session.Credential{}))

	assert.False(t, h.u.CheckLogin(context.Background(), CheckOptions{}).IsValid)
	assert.Zero(t, h.launcher.Calls())
}

func TestCheckLogin_Valid(t *testing.T) {
	h := newHarness(t, nil)
	h.seedSession(t)
	h.page.Add(`[class*="username"]`, &browsertest.Element{Text: "Bob"})

	result := h.u.CheckLogin(context.Background(), CheckOptions{})

	assert.True(t, result.IsValid)
	assert.Equal(t, "Bob", result.User)
	assert.True(t, h.launcher.LastOptions().Headless)
	assert.Equal(t, []session.Cookie(testCredential()), h.handle().Installed())
	assert.Equal(t, []string{baseURL}, h.page.Visited())
	assert.Equal(t, 1, h.handle().Releases())

	stored, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, testCredential(), stored)
}

func TestCheckLogin_ShowBrowser(t *testing.T) {
	h := newHarness(t, nil)
	h.seedSession(t)

	h.u.CheckLogin(context.Background(), CheckOptions{ShowBrowser: true})

	assert.False(t, h.launcher.LastOptions().Headless)
}

func TestCheckLogin_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(h *harness)
		releases int
	}{
		{"redirected to login", func(h *harness) { h.page.Redirects[baseURL] = loginURL }, 1},
		{"launch failure", func(h *harness) { h.launcher.Err = errors.New("no browser") }, 0},
		{"cookie install failure", func(h *harness) { h.handle().AddCookiesErr = errors.New("bad cookie") }, 1},
		{"navigation failure", func(h *harness) { h.page.GotoErr = errors.New("offline") }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.seedSession(t)
			tt.setup(h)

			result := h.u.CheckLogin(context.Background(), CheckOptions{})

			assert.False(t, result.IsValid)
			assert.Empty(t, result.User)
			assert.Equal(t, 1, h.launcher.Calls())
			assert.Equal(t, tt.releases, h.handle().Releases())

			stored, err := h.store.Load()
			require.NoError(t, err)
			assert.Equal(t, testCredential(), stored)
		})
	}
}
