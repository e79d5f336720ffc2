package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// pwPage adapts playwright.Page to Page.
type pwPage struct {
	page playwright.Page
}

// translate maps Playwright's timeout error onto ErrTimeout so callers do
// not need to import the driver.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func (p *pwPage) Goto(url string, opts NavigateOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}
	_, err := p.page.Goto(url, gotoOpts)
	return translate(err)
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) WaitForSelector(selector string, opts WaitOptions) (Element, error) {
	waitOpts := playwright.PageWaitForSelectorOptions{}
	state := opts.State
	if state == "" {
		state = StateVisible
	}
	pwState := playwright.WaitForSelectorState(state)
	waitOpts.State = &pwState
	if opts.Timeout > 0 {
		waitOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}

	el, err := p.page.WaitForSelector(selector, waitOpts)
	if err != nil {
		return nil, translate(err)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, selector)
	}
	return &pwElement{el: el}, nil
}

func (p *pwPage) QuerySelector(selector string) (Element, error) {
	el, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, translate(err)
	}
	if el == nil {
		return nil, nil
	}
	return &pwElement{el: el}, nil
}

func (p *pwPage) QuerySelectorAll(selector string) ([]Element, error) {
	els, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &pwElement{el: el})
	}
	return out, nil
}

func (p *pwPage) InnerText(selector string) (string, error) {
	text, err := p.page.InnerText(selector)
	return text, translate(err)
}

func (p *pwPage) Evaluate(script string, arg interface{}) (interface{}, error) {
	result, err := p.page.Evaluate(script, arg)
	return result, translate(err)
}

func (p *pwPage) Keyboard() Keyboard {
	return &pwKeyboard{kb: p.page.Keyboard()}
}

type pwElement struct {
	el playwright.ElementHandle
}

func (e *pwElement) Click() error {
	return translate(e.el.Click())
}

func (e *pwElement) Type(text string) error {
	//nolint:staticcheck // ElementHandle.Type is what the code boxes listen to
	return translate(e.el.Type(text))
}

func (e *pwElement) TextContent() (string, error) {
	text, err := e.el.TextContent()
	return text, translate(err)
}

func (e *pwElement) IsEnabled() (bool, error) {
	enabled, err := e.el.IsEnabled()
	return enabled, translate(err)
}

func (e *pwElement) SetInputFiles(path string) error {
	return translate(e.el.SetInputFiles(path))
}

type pwKeyboard struct {
	kb playwright.Keyboard
}

func (k *pwKeyboard) Press(key string) error {
	return translate(k.kb.Press(key))
}

func (k *pwKeyboard) Type(text string) error {
	return translate(k.kb.Type(text))
}
