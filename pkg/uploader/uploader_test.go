package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/browser/browsertest"
	"github.com/entrhq/douyin-uploader/pkg/config"
	"github.com/entrhq/douyin-uploader/pkg/portal"
	"github.com/entrhq/douyin-uploader/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL   = "https://creator.douyin.com"
	uploadURL = "https://creator.douyin.com/creator-micro/content/upload"
	homeURL   = "https://creator.douyin.com/creator-micro/home"
	loginURL  = "https://creator.douyin.com/login?redirect=home"
)

func testTimings() config.Timings {
	return config.Timings{
		NavigationTimeout: time.Second,
		PollInterval:      5 * time.Millisecond,
		LoginTimeout:      200 * time.Millisecond,
		SettleDelay:       time.Millisecond,
		MetadataSettle:    time.Millisecond,
		UploadFloor:       time.Millisecond,
		FileInputWait:     10 * time.Millisecond,
		TitleInputWait:    10 * time.Millisecond,
		CodeEntryTimeout:  time.Second,
	}
}

// harness wires an Uploader to fakes and a temporary cookie file.
type harness struct {
	u        *Uploader
	page     *browsertest.Page
	launcher *browsertest.Launcher
	store    *session.FileStore
	dir      string
}

func newHarness(t *testing.T, codes CodeProvider) *harness {
	t.Helper()

	dir := t.TempDir()
	page := browsertest.NewPage()
	launcher := browsertest.NewLauncher(page)
	store := session.NewFileStore(filepath.Join(dir, "cookies.json"), filepath.Join(dir, "profile"))

	u := New(Options{
		Launcher: launcher,
		Store:    store,
		Codes:    codes,
		Portal: config.PortalConfig{
			BaseURL:   baseURL,
			UploadURL: uploadURL,
		},
		Timings: testTimings(),
	})

	return &harness{u: u, page: page, launcher: launcher, store: store, dir: dir}
}

func (h *harness) handle() *browsertest.Handle {
	return h.launcher.Handle
}

func testCredential() session.Credential {
	return session.Credential{
		{Name: "sessionid", Value: "abc", Domain: ".douyin.com", Path: "/", Expires: 1893456000, HTTPOnly: true, Secure: true},
		{Name: "passport_csrf_token", Value: "xyz", Domain: ".douyin.com", Path: "/", Expires: -1},
	}
}

func (h *harness) seedSession(t *testing.T) {
	t.Helper()
	require.NoError(t, h.store.Save(testCredential()))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"file", fmt.Errorf("%w: a.mp4", ErrFileNotFound), KindFileNotFound},
		{"request", ErrInvalidRequest, KindInvalidRequest},
		{"no session", ErrNoSession, KindNoSession},
		{"expired", ErrSessionExpired, KindSessionExpired},
		{"login timeout", ErrLoginTimeout, KindTimeout},
		{"upload control", fmt.Errorf("%w: gone", ErrUploadControlNotFound), KindUploadControlNotFound},
		{"verification", fmt.Errorf("%w: %w", ErrVerificationFailed, context.DeadlineExceeded), KindVerificationFailed},
		{"navigation", fmt.Errorf("%w: slow", browser.ErrNavigationTimeout), KindNavigationTimeout},
		{"launch", fmt.Errorf("%w: %w", browser.ErrLaunch, errors.New("no chromium")), KindLaunchError},
		{"cancelled", context.Canceled, KindCancelled},
		{"other", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSessionInfo(t *testing.T) {
	h := newHarness(t, nil)

	empty := h.u.SessionInfo()
	assert.False(t, empty.Exists)
	assert.Equal(t, filepath.Join(h.dir, "cookies.json"), empty.File)

	h.seedSession(t)
	require.NoError(t, h.store.SaveMetadata(session.Metadata{User: "Alice", SavedAt: time.Now()}))

	info := h.u.SessionInfo()
	assert.True(t, info.Exists)
	assert.Equal(t, 2, info.Count)
	assert.Equal(t, "Alice", info.User)
	assert.False(t, info.Created.IsZero())
	assert.Equal(t, h.store.Path(), info.File)
	assert.Zero(t, h.launcher.Calls())
}

func TestSessionInfo_JSONOmitsZeroCreated(t *testing.T) {
	data, err := json.Marshal(SessionInfo{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "created")
	assert.NotContains(t, string(data), "0001-01-01")
}

func TestNew_ZeroTimingsUseDefaults(t *testing.T) {
	u := New(Options{
		Launcher: browsertest.NewLauncher(browsertest.NewPage()),
		Store:    session.NewFileStore(filepath.Join(t.TempDir(), "cookies.json"), ""),
	})
	assert.Equal(t, config.DefaultTimings(), u.timings)
}

func TestNew_PartialTimingsStillPoll(t *testing.T) {
	page := browsertest.NewPage()
	page.URLFunc = func(int) string { return homeURL }
	launcher := browsertest.NewLauncher(page)
	launcher.Handle.Jar = testCredential()

	// Only the poll interval is set; the login timeout and every other
	// wait come from the defaults.
	u := New(Options{
		Launcher: launcher,
		Store:    session.NewFileStore(filepath.Join(t.TempDir(), "cookies.json"), ""),
		Portal:   config.PortalConfig{BaseURL: baseURL, UploadURL: uploadURL},
		Timings:  config.Timings{PollInterval: 5 * time.Millisecond},
	})

	outcome := u.Login(context.Background(), LoginOptions{Timeout: 10 * time.Second})

	require.True(t, outcome.Success, outcome.Error)
	assert.Equal(t, 2, outcome.CookieCount)
}

func TestClearSession_Idempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.seedSession(t)
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "profile", "Default"), 0o755))

	h.u.ClearSession()
	h.u.ClearSession()

	assert.False(t, h.u.SessionInfo().Exists)
	_, err := os.Stat(filepath.Join(h.dir, "profile"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindButton_FirstMatchInDocumentOrder(t *testing.T) {
	page := browsertest.NewPage()
	page.AddButton("取消")
	first := page.AddButton(" 确定 ")
	second := page.AddButton("确认")

	btn, err := findButton(page, portal.ConfirmDialogButton)
	require.NoError(t, err)
	assert.Same(t, first, btn)

	clicked, err := clickButton(page, portal.ConfirmDialogButton)
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, 1, first.Clicks())
	assert.Zero(t, second.Clicks())
}

func TestClickButton_DisabledCountsAsNotFound(t *testing.T) {
	page := browsertest.NewPage()
	publish := page.AddButton("发布")
	publish.Disabled = true

	clicked, err := clickButton(page, portal.PublishButton)
	require.NoError(t, err)
	assert.False(t, clicked)
	assert.Zero(t, publish.Clicks())
}

func TestClickButton_ExactMatchOnly(t *testing.T) {
	page := browsertest.NewPage()
	draft := page.AddButton("发布设置")

	clicked, err := clickButton(page, portal.PublishButton)
	require.NoError(t, err)
	assert.False(t, clicked)
	assert.Zero(t, draft.Clicks())
}

func TestIdentity(t *testing.T) {
	page := browsertest.NewPage()
	assert.Equal(t, portal.DefaultIdentityFallback, identity(page))

	page.Add(".user-name", &browsertest.Element{Text: "   "})
	page.Add(".nickname", &browsertest.Element{Text: "  小明 "})
	assert.Equal(t, "小明", identity(page))
}

func TestSleep_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
