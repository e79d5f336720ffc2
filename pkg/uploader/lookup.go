package uploader

import (
	"strings"

	"github.com/entrhq/douyin-uploader/pkg/browser"
	"github.com/entrhq/douyin-uploader/pkg/portal"
)

// firstText tries selectors in order and returns the first non-empty
// trimmed text. Lookup failures are skipped; fallback is returned when
// nothing matches.
func firstText(page browser.Page, selectors []string, fallback string) string {
	for _, sel := range selectors {
		el, err := page.QuerySelector(sel)
		if err != nil || el == nil {
			continue
		}
		text, err := el.TextContent()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return fallback
}

// identity extracts the logged-in account's display name.
func identity(page browser.Page) string {
	return firstText(page, portal.IdentitySelectors, portal.DefaultIdentityFallback)
}

func matches(text string, m portal.ButtonMatch) bool {
	text = strings.TrimSpace(text)
	for _, exact := range m.Exact {
		if text == exact {
			return true
		}
	}
	for _, sub := range m.Contains {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// findButton returns the first button in document order whose text
// satisfies m, or nil.
func findButton(page browser.Page, m portal.ButtonMatch) (browser.Element, error) {
	buttons, err := page.QuerySelectorAll("button")
	if err != nil {
		return nil, err
	}
	for _, btn := range buttons {
		text, err := btn.TextContent()
		if err != nil {
			continue
		}
		if matches(text, m) {
			return btn, nil
		}
	}
	return nil, nil
}

// clickButton clicks the first button matching m if it is enabled and
// reports whether a click happened. A matching but disabled button counts
// as not found.
func clickButton(page browser.Page, m portal.ButtonMatch) (bool, error) {
	btn, err := findButton(page, m)
	if err != nil || btn == nil {
		return false, err
	}
	enabled, err := btn.IsEnabled()
	if err != nil || !enabled {
		return false, err
	}
	if err := btn.Click(); err != nil {
		return false, err
	}
	return true, nil
}
