package uploader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/logging"
	"github.com/entrhq/douyin-uploader/pkg/portal"
)

// challengeHandler answers the SMS challenge the portal may show after a
// publish click. It holds no state between invocations; its only effect is
// on the live page.
type challengeHandler struct {
	codes   CodeProvider
	timeout time.Duration
	log     *logging.Logger
}

func newChallengeHandler(codes CodeProvider, timeout time.Duration, log *logging.Logger) *challengeHandler {
	return &challengeHandler{codes: codes, timeout: timeout, log: log}
}

// Detect reports whether the page text mentions SMS verification. An
// unreadable page is an error: guessing "no challenge" would click the
// confirmation dialog blind.
func (h *challengeHandler) Detect(page browser.Page) (bool, error) {
	text, err := page.InnerText("body")
	if err != nil {
		return false, fmt.Errorf("failed to read page after publish: %w", err)
	}
	for _, kw := range portal.VerificationKeywords {
		if strings.Contains(text, kw) {
			return true, nil
		}
	}
	return false, nil
}

// Resolve runs the full challenge: request a code, wait for it, enter it,
// confirm, then click publish again since the portal may drop the first
// click once verification completes. When no send button can be clicked
// nothing else is attempted.
func (h *challengeHandler) Resolve(ctx context.Context, page browser.Page, settle time.Duration) error {
	h.log.Infof("verification challenge detected")

	sent, err := h.RequestCode(page)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if !sent {
		h.log.Warnf("no send-code button available, skipping verification")
		return nil
	}
	h.log.Infof("verification code requested")

	code, err := h.awaitCode(ctx)
	if err != nil {
		return err
	}
	if err := h.SubmitCode(page, code); err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if err := h.Confirm(page); err != nil {
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	h.log.Infof("verification code submitted")

	if err := sleep(ctx, settle); err != nil {
		return err
	}
	clicked, err := clickButton(page, portal.RepublishButton)
	if err != nil {
		h.log.Warnf("republish lookup: %v", err)
	} else if !clicked {
		h.log.Debugf("no republish button after verification")
	}
	return nil
}

// RequestCode clicks the send-code button and reports whether it did.
func (h *challengeHandler) RequestCode(page browser.Page) (bool, error) {
	return clickButton(page, portal.SendCodeButton)
}

// awaitCode blocks on the code provider for at most the configured
// code-entry timeout.
func (h *challengeHandler) awaitCode(ctx context.Context) (string, error) {
	if h.codes == nil {
		return "", fmt.Errorf("%w: no verification code provider configured", ErrVerificationFailed)
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	code, err := h.codes.VerificationCode(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty verification code", ErrVerificationFailed)
	}
	return code, nil
}

// SubmitCode types code into the challenge inputs. Exactly 4 or 6 inputs
// are treated as one field per digit; any other count gets the whole code
// in the first field.
func (h *challengeHandler) SubmitCode(page browser.Page, code string) error {
	inputs, err := page.QuerySelectorAll(portal.VerificationCodeInputs)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		h.log.Warnf("no verification code inputs found")
		return nil
	}

	if n := len(inputs); n == 4 || n == 6 {
		digits := []rune(code)
		if len(digits) != n {
			h.log.Warnf("code has %d characters but the form has %d fields", len(digits), n)
		}
		for i := 0; i < len(digits) && i < n; i++ {
			if err := inputs[i].Type(string(digits[i])); err != nil {
				return err
			}
		}
		return nil
	}

	if len(inputs) > 1 {
		h.log.Warnf("unexpected %d code inputs, using the first", len(inputs))
	}
	return inputs[0].Type(code)
}

// Confirm clicks the button that submits the code, if one is present.
func (h *challengeHandler) Confirm(page browser.Page) error {
	clicked, err := clickButton(page, portal.SubmitCodeButton)
	if err != nil {
		return err
	}
	if !clicked {
		h.log.Warnf("no confirm button after entering code")
	}
	return nil
}
