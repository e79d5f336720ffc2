package uploader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/logging"
	"github.com/entrhq/douyin-uploader/pkg/portal"
)

// PublishState names the stages of the publish workflow.
type PublishState string

const (
	StateValidating           PublishState = "validating"
	StateSessionPrepared      PublishState = "session_prepared"
	StateFileUploaded         PublishState = "file_uploaded"
	StateMetadataEntered      PublishState = "metadata_entered"
	StatePublishAttempted     PublishState = "publish_attempted"
	StateVerificationHandling PublishState = "verification_handling"
	StatePublished            PublishState = "published"
	StateDraftSaved           PublishState = "draft_saved"
	StateFailed               PublishState = "failed"
)

// setTitleScript is the title fallback: assign the value directly and fire
// an input event so the page's reactive bindings see it.
const setTitleScript = `({ selector, title }) => {
	const input = document.querySelector(selector);
	if (!input) {
		return false;
	}
	input.value = title;
	input.dispatchEvent(new Event('input', { bubbles: true }));
	return true;
}`

// publishRun carries the state of one UploadVideo call.
type publishRun struct {
	u     *Uploader
	req   UploadRequest
	log   *logging.Logger
	state PublishState
	size  int64
}

func (r *publishRun) enter(s PublishState) {
	r.state = s
	r.log.Debugf("state -> %s", s)
}

// UploadVideo uploads req.VideoPath with the stored session, fills in the
// metadata and, unless req.AutoPublish is false, publishes it. If the
// portal asks for an SMS code after the publish click, the configured
// CodeProvider is asked for it.
func (u *Uploader) UploadVideo(ctx context.Context, req UploadRequest) PublishOutcome {
	r := &publishRun{u: u, req: req, log: u.logger.With("publish")}

	published, err := r.run(ctx)
	if err != nil {
		r.log.Errorf("upload failed during %s: %v", r.state, err)
		r.enter(StateFailed)
		return PublishOutcome{
			Success: false,
			Error:   err.Error(),
			Kind:    KindOf(err),
		}
	}

	status := StatusDraftSaved
	if published {
		status = StatusPublished
	}
	r.log.Infof("%q finished: %s", req.Title, status)
	return PublishOutcome{
		Success:   true,
		Title:     req.Title,
		Published: published,
		Status:    status,
	}
}

func (r *publishRun) run(ctx context.Context) (bool, error) {
	r.enter(StateValidating)
	if err := r.validate(); err != nil {
		return false, err
	}
	cred, err := r.u.loadCredential()
	if err != nil {
		return false, err
	}

	handle, err := r.u.acquire(ctx, r.req.Headless)
	if err != nil {
		return false, err
	}
	defer r.u.release(handle, r.log)

	if err := handle.AddCookies(cred); err != nil {
		return false, err
	}
	page := handle.Page()
	if err := r.openUploadPage(ctx, page); err != nil {
		return false, err
	}
	r.enter(StateSessionPrepared)

	if err := r.uploadFile(ctx, page); err != nil {
		return false, err
	}
	r.enter(StateFileUploaded)

	if err := r.fillMetadata(ctx, page); err != nil {
		return false, err
	}
	r.enter(StateMetadataEntered)

	if !r.req.ShouldPublish() {
		r.enter(StateDraftSaved)
		return false, nil
	}

	r.enter(StatePublishAttempted)
	clicked, err := clickButton(page, portal.PublishButton)
	if err != nil {
		return false, fmt.Errorf("failed to click publish: %w", err)
	}
	if !clicked {
		r.log.Warnf("publish button not found or disabled, leaving as draft")
		r.enter(StateDraftSaved)
		return false, nil
	}

	r.enter(StateVerificationHandling)
	if err := r.afterPublishClick(ctx, page); err != nil {
		return false, err
	}
	r.enter(StatePublished)
	return true, nil
}

func (r *publishRun) validate() error {
	info, err := os.Stat(r.req.VideoPath)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, r.req.VideoPath)
	}
	if strings.TrimSpace(r.req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	r.size = info.Size()
	return nil
}

// openUploadPage is the authoritative session check for this upload: a
// credential that passed CheckLogin earlier may have expired since.
func (r *publishRun) openUploadPage(ctx context.Context, page browser.Page) error {
	if err := r.u.navigator.Navigate(page, r.u.portal.UploadURL, browser.WaitUntilNetworkIdle); err != nil {
		return err
	}
	if err := sleep(ctx, r.u.timings.SettleDelay); err != nil {
		return err
	}
	if url := page.URL(); r.u.classifier.IsLoginPage(url) {
		return fmt.Errorf("%w: redirected to %s", ErrSessionExpired, url)
	}
	return nil
}

// uploadFile hands the video to the file input and then waits a
// size-scaled interval. The page exposes no reliable completion signal,
// so the wait is a heuristic.
func (r *publishRun) uploadFile(ctx context.Context, page browser.Page) error {
	input, err := page.WaitForSelector(portal.FileInputSelector, browser.WaitOptions{
		State:   browser.StateAttached,
		Timeout: r.u.timings.FileInputWait,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadControlNotFound, err)
	}
	if err := input.SetInputFiles(r.req.VideoPath); err != nil {
		return fmt.Errorf("failed to submit video file: %w", err)
	}

	wait := r.u.timings.UploadWait(r.size)
	r.log.Infof("uploading %d bytes, waiting %s", r.size, wait)
	return sleep(ctx, wait)
}

func (r *publishRun) fillMetadata(ctx context.Context, page browser.Page) error {
	if err := r.fillTitle(page); err != nil {
		return err
	}

	if r.req.Description != "" {
		if err := typeIntoEditor(page, r.req.Description); err != nil {
			r.log.Warnf("description skipped: %v", err)
		}
	}

	if len(r.req.Tags) > 0 {
		if err := typeIntoEditor(page, " "+formatTags(r.req.Tags)); err != nil {
			r.log.Warnf("tags skipped: %v", err)
		}
	}

	return sleep(ctx, r.u.timings.MetadataSettle)
}

// fillTitle types into the title field, falling back to a direct value
// assignment when the field cannot be driven through the keyboard.
func (r *publishRun) fillTitle(page browser.Page) error {
	err := func() error {
		input, err := page.WaitForSelector(portal.TitleInputSelector, browser.WaitOptions{
			Timeout: r.u.timings.TitleInputWait,
		})
		if err != nil {
			return err
		}
		if err := input.Click(); err != nil {
			return err
		}
		kb := page.Keyboard()
		if err := kb.Press("Control+A"); err != nil {
			return err
		}
		return kb.Type(r.req.Title)
	}()
	if err == nil {
		return nil
	}

	r.log.Warnf("title field not driveable (%v), assigning value directly", err)
	found, err := page.Evaluate(setTitleScript, map[string]string{
		"selector": portal.FallbackTitleSelector,
		"title":    r.req.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to fill title: %w", err)
	}
	if ok, _ := found.(bool); !ok {
		r.log.Warnf("no text input found for title")
	}
	return nil
}

// typeIntoEditor clicks the rich-text description area and types text at
// the caret.
func typeIntoEditor(page browser.Page, text string) error {
	editor, err := page.QuerySelector(portal.DescriptionSelector)
	if err != nil {
		return err
	}
	if editor == nil {
		return fmt.Errorf("no editable region matching %s", portal.DescriptionSelector)
	}
	if err := editor.Click(); err != nil {
		return err
	}
	return page.Keyboard().Type(text)
}

// formatTags renders tags as space-separated hashtags.
func formatTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		out = append(out, "#"+tag)
	}
	return strings.Join(out, " ")
}

// afterPublishClick settles, then either answers an SMS challenge or
// dismisses a plain confirmation dialog.
func (r *publishRun) afterPublishClick(ctx context.Context, page browser.Page) error {
	settle := r.u.timings.SettleDelay
	if err := sleep(ctx, settle); err != nil {
		return err
	}

	challenges := newChallengeHandler(r.u.codes, r.u.timings.CodeEntryTimeout, r.log.With("verify"))
	challenged, err := challenges.Detect(page)
	if err != nil {
		return err
	}
	if challenged {
		if err := challenges.Resolve(ctx, page, settle); err != nil {
			return err
		}
	} else if clicked, err := clickButton(page, portal.ConfirmDialogButton); err != nil {
		r.log.Warnf("confirm dialog lookup: %v", err)
	} else if clicked {
		r.log.Debugf("confirmation dialog dismissed")
	}

	return sleep(ctx, settle)
}
