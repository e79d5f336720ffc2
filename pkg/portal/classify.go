package portal

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Default URL patterns. Each is matched against the full page URL.
var (
	// LoginPatterns mark any login route; used by session checks
	LoginPatterns = []string{"*login*"}

	// AuthPagePatterns mark the login flow pages, including passport redirects
	AuthPagePatterns = []string{"*/login*", "*passport*"}

	// CreatorHomePatterns mark pages only reachable when logged in
	CreatorHomePatterns = []string{
		"*creator.douyin.com/creator*",
		"*creator.douyin.com/home*",
	}
)

// Classifier decides authentication state from a page URL.
type Classifier struct {
	login       []glob.Glob
	authPage    []glob.Glob
	creatorHome []glob.Glob
}

// Patterns configures a Classifier.
type Patterns struct {
	Login       []string
	AuthPage    []string
	CreatorHome []string
}

// DefaultPatterns returns the patterns for the Douyin creator portal.
func DefaultPatterns() Patterns {
	return Patterns{
		Login:       LoginPatterns,
		AuthPage:    AuthPagePatterns,
		CreatorHome: CreatorHomePatterns,
	}
}

// NewClassifier compiles p.
func NewClassifier(p Patterns) (*Classifier, error) {
	login, err := compileAll(p.Login)
	if err != nil {
		return nil, err
	}
	authPage, err := compileAll(p.AuthPage)
	if err != nil {
		return nil, err
	}
	creatorHome, err := compileAll(p.CreatorHome)
	if err != nil {
		return nil, err
	}
	return &Classifier{login: login, authPage: authPage, creatorHome: creatorHome}, nil
}

// MustDefaultClassifier returns the classifier for DefaultPatterns.
// The default patterns are constants, so compilation cannot fail.
func MustDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid url pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchAny(globs []glob.Glob, url string) bool {
	for _, g := range globs {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// IsLoginPage reports whether url is a login route. A page that redirects
// here after cookies were installed means the session is stale.
func (c *Classifier) IsLoginPage(url string) bool {
	return matchAny(c.login, url)
}

// IsAuthenticated reports whether url shows a completed interactive login:
// off every auth page and on a creator home page.
func (c *Classifier) IsAuthenticated(url string) bool {
	if matchAny(c.authPage, url) {
		return false
	}
	return matchAny(c.creatorHome, url)
}
