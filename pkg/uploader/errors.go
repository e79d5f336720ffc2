package uploader

import (
	"context"
	"errors"

	"github.com/entrhq/douyin-uploader/pkg/browser"
)

// Kind classifies a failed operation for callers and monitoring.
type Kind string

const (
	KindFileNotFound          Kind = "file_not_found"
	KindInvalidRequest        Kind = "invalid_request"
	KindNoSession             Kind = "no_session"
	KindSessionExpired        Kind = "session_expired"
	KindLaunchError           Kind = "launch_error"
	KindNavigationTimeout     Kind = "navigation_timeout"
	KindUploadControlNotFound Kind = "upload_control_not_found"
	KindTimeout               Kind = "timeout"
	KindVerificationFailed    Kind = "verification_failed"
	KindCancelled             Kind = "cancelled"
	KindInternal              Kind = "internal"
)

var (
	ErrFileNotFound       = errors.New("video file not found")
	ErrInvalidRequest     = errors.New("invalid upload request")
	ErrNoSession          = errors.New("no login cookies found, please login first")
	ErrSessionExpired     = errors.New("login expired, please login again")
	ErrLoginTimeout       = errors.New("login timeout")
	ErrVerificationFailed = errors.New("verification failed")

	// ErrUploadControlNotFound means the upload page no longer looks the way
	// the workflow expects. It is the primary signal of portal UI drift.
	ErrUploadControlNotFound = errors.New("upload input not found")
)

// kinds is checked in order; the first match wins.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrFileNotFound, KindFileNotFound},
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrNoSession, KindNoSession},
	{ErrSessionExpired, KindSessionExpired},
	{ErrLoginTimeout, KindTimeout},
	{ErrUploadControlNotFound, KindUploadControlNotFound},
	{ErrVerificationFailed, KindVerificationFailed},
	{browser.ErrNavigationTimeout, KindNavigationTimeout},
	{browser.ErrLaunch, KindLaunchError},
	{context.Canceled, KindCancelled},
	{context.DeadlineExceeded, KindCancelled},
}

// KindOf maps err to its Kind. Unrecognized errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
