// Package browsertest provides in-memory fakes for the browser package.
//
// The fakes model just enough page behavior to drive the upload workflows:
// a mutable URL, selector → element tables, button text, a focused element
// that receives keyboard input, and release counting on handles.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/session"
)

// Launcher is a fake browser.Launcher handing out a single Handle.
type Launcher struct {
	mu sync.Mutex

	// Handle is returned by every Acquire
	Handle *Handle

	// Err, when set, fails Acquire
	Err error

	calls   int
	options []browser.AcquireOptions
}

// NewLauncher returns a launcher serving page.
func NewLauncher(page *Page) *Launcher {
	return &Launcher{Handle: NewHandle(page)}
}

// Acquire implements browser.Launcher.
func (l *Launcher) Acquire(ctx context.Context, opts browser.AcquireOptions) (browser.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	l.options = append(l.options, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Handle, nil
}

// Calls returns how many times Acquire ran.
func (l *Launcher) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// LastOptions returns the options of the most recent Acquire.
func (l *Launcher) LastOptions() browser.AcquireOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.options) == 0 {
		return browser.AcquireOptions{}
	}
	return l.options[len(l.options)-1]
}

// Handle is a fake browser.Handle.
type Handle struct {
	FakePage *Page

	// Jar is returned by Cookies
	Jar []session.Cookie

	CookiesErr    error
	AddCookiesErr error

	mu        sync.Mutex
	installed []session.Cookie
	releases  atomic.Int32
}

// NewHandle returns a handle around page.
func NewHandle(page *Page) *Handle {
	return &Handle{FakePage: page}
}

func (h *Handle) Page() browser.Page { return h.FakePage }

func (h *Handle) Cookies() ([]session.Cookie, error) {
	if h.CookiesErr != nil {
		return nil, h.CookiesErr
	}
	return append([]session.Cookie(nil), h.Jar...), nil
}

func (h *Handle) AddCookies(cookies []session.Cookie) error {
	if h.AddCookiesErr != nil {
		return h.AddCookiesErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.installed = append(h.installed, cookies...)
	return nil
}

// Installed returns every cookie passed to AddCookies.
func (h *Handle) Installed() []session.Cookie {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]session.Cookie(nil), h.installed...)
}

func (h *Handle) Release() error {
	h.releases.Add(1)
	return nil
}

// Releases returns how many times Release was called.
func (h *Handle) Releases() int {
	return int(h.releases.Load())
}

// Page is a fake browser.Page.
type Page struct {
	mu sync.Mutex

	url string

	// URLFunc, when set, overrides URL. n counts calls starting at 1.
	URLFunc  func(n int) string
	urlCalls int

	// Redirects maps a requested URL to the URL the page lands on
	Redirects map[string]string

	// GotoErr fails every navigation
	GotoErr error

	// BodyText is returned by InnerText("body")
	BodyText    string
	InnerErr    error
	EvaluateErr error

	elements map[string][]*Element
	focused  *Element

	visited   []string
	evaluated []string
	evalArgs  []interface{}
	keys      []string
}

// NewPage returns a blank page.
func NewPage() *Page {
	return &Page{
		url:       "about:blank",
		Redirects: map[string]string{},
		elements:  map[string][]*Element{},
	}
}

// SetURL changes the current URL.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// SetBodyText changes the text returned for the body.
func (p *Page) SetBodyText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.BodyText = text
}

// Add registers elements under selector, appending to any already present.
func (p *Page) Add(selector string, els ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, el := range els {
		el.page = p
	}
	p.elements[selector] = append(p.elements[selector], els...)
	return p
}

// Remove drops every element registered under selector.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// AddButton registers a button with the given text.
func (p *Page) AddButton(text string) *Element {
	el := &Element{Text: text}
	p.Add("button", el)
	return el
}

// Visited returns every URL passed to Goto.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// Evaluated returns every script passed to Evaluate.
func (p *Page) Evaluated() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.evaluated...)
}

// EvaluatedArgs returns the argument of every Evaluate call.
func (p *Page) EvaluatedArgs() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.evalArgs...)
}

// Keys returns every key pressed.
func (p *Page) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func (p *Page) Goto(url string, opts browser.NavigateOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visited = append(p.visited, url)
	if p.GotoErr != nil {
		return p.GotoErr
	}
	if target, ok := p.Redirects[url]; ok {
		p.url = target
	} else {
		p.url = url
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urlCalls++
	if p.URLFunc != nil {
		return p.URLFunc(p.urlCalls)
	}
	return p.url
}

func (p *Page) WaitForSelector(selector string, opts browser.WaitOptions) (browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	els := p.elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: waiting for %s", browser.ErrTimeout, selector)
	}
	return els[0], nil
}

func (p *Page) QuerySelector(selector string) (browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	els := p.elements[selector]
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

func (p *Page) QuerySelectorAll(selector string) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	els := p.elements[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) InnerText(selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.InnerErr != nil {
		return "", p.InnerErr
	}
	if selector == "body" {
		return p.BodyText, nil
	}
	if els := p.elements[selector]; len(els) > 0 {
		return els[0].Text, nil
	}
	return "", fmt.Errorf("%w: %s", browser.ErrTimeout, selector)
}

func (p *Page) Evaluate(script string, arg interface{}) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evaluated = append(p.evaluated, script)
	p.evalArgs = append(p.evalArgs, arg)
	if p.EvaluateErr != nil {
		return nil, p.EvaluateErr
	}
	return nil, nil
}

func (p *Page) Keyboard() browser.Keyboard {
	return &keyboard{page: p}
}

func (p *Page) focus(el *Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focused = el
}

type keyboard struct {
	page *Page
}

func (k *keyboard) Press(key string) error {
	k.page.mu.Lock()
	k.page.keys = append(k.page.keys, key)
	focused := k.page.focused
	k.page.mu.Unlock()

	if focused != nil && strings.HasSuffix(key, "+A") {
		focused.selectAll()
	}
	return nil
}

func (k *keyboard) Type(text string) error {
	k.page.mu.Lock()
	focused := k.page.focused
	k.page.mu.Unlock()

	if focused == nil {
		return fmt.Errorf("no focused element")
	}
	return focused.Type(text)
}

// Element is a fake browser.Element.
type Element struct {
	// Text is the element's text content
	Text string

	// Disabled makes IsEnabled report false
	Disabled bool

	// OnClick runs after a successful click
	OnClick func()

	ClickErr error
	TypeErr  error
	FileErr  error

	mu       sync.Mutex
	page     *Page
	value    string
	selected bool
	clicks   int
	files    []string
}

func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.mu.Lock()
	e.clicks++
	page := e.page
	e.mu.Unlock()

	if page != nil {
		page.focus(e)
	}
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Type(text string) error {
	if e.TypeErr != nil {
		return e.TypeErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected {
		e.value = ""
		e.selected = false
	}
	e.value += text
	return nil
}

func (e *Element) selectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = true
}

func (e *Element) TextContent() (string, error) {
	return e.Text, nil
}

func (e *Element) IsEnabled() (bool, error) {
	return !e.Disabled, nil
}

func (e *Element) SetInputFiles(path string) error {
	if e.FileErr != nil {
		return e.FileErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = append(e.files, path)
	return nil
}

// Value returns everything typed into the element.
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Clicks returns how many times the element was clicked.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Files returns every path handed to SetInputFiles.
func (e *Element) Files() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.files...)
}
