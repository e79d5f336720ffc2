package uploader

import (
	"context"
	"time"
)

// CodeProvider supplies the SMS verification code the portal asks for
// mid-publish. It blocks until a human has the code or ctx ends.
type CodeProvider interface {
	VerificationCode(ctx context.Context) (string, error)
}

// LoginOptions configures Login.
type LoginOptions struct {
	// Headless hides the browser; interactive login normally needs it visible
	Headless bool

	// Timeout bounds the wait for the user to finish logging in.
	// Zero uses the configured login timeout.
	Timeout time.Duration
}

// LoginOutcome is the result of one Login call.
type LoginOutcome struct {
	Success     bool   `json:"success"`
	User        string `json:"user,omitempty"`
	CookieCount int    `json:"cookieCount,omitempty"`
	Error       string `json:"error,omitempty"`
	Kind        Kind   `json:"kind,omitempty"`
}

// CheckOptions configures CheckLogin.
type CheckOptions struct {
	// ShowBrowser runs the check in a visible window
	ShowBrowser bool
}

// CheckResult is the result of one CheckLogin call.
type CheckResult struct {
	IsValid bool   `json:"isValid"`
	User    string `json:"user,omitempty"`
}

// UploadRequest describes one video to publish.
type UploadRequest struct {
	VideoPath   string   `json:"videoPath"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Headless    bool     `json:"headless,omitempty"`

	// AutoPublish clicks the publish button; nil means true
	AutoPublish *bool `json:"autoPublish,omitempty"`
}

// ShouldPublish reports whether the publish button should be clicked.
func (r UploadRequest) ShouldPublish() bool {
	return r.AutoPublish == nil || *r.AutoPublish
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// Publish status labels.
const (
	StatusPublished  = "Published"
	StatusDraftSaved = "Draft saved"
)

// PublishOutcome is the terminal result of UploadVideo.
type PublishOutcome struct {
	Success   bool   `json:"success"`
	Title     string `json:"title,omitempty"`
	Published bool   `json:"published"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      Kind   `json:"kind,omitempty"`
}

// SessionInfo describes the stored session without launching a browser.
type SessionInfo struct {
	Exists  bool      `json:"exists"`
	Count   int       `json:"count,omitempty"`
	User    string    `json:"user,omitempty"`
	Created time.Time `json:"created,omitzero"`

	// File is where the credential is stored
	File string `json:"file,omitempty"`
}
