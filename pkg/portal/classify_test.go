package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_IsAuthenticated(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://creator.douyin.com/creator-micro/home", true},
		{"https://creator.douyin.com/home", true},
		{"https://creator.douyin.com/", false},
		{"https://creator.douyin.com/login", false},
		{"https://creator.douyin.com/creator-micro/login?next=home", false},
		{"https://sso.douyin.com/passport/web/redirect?to=creator.douyin.com/creator", false},
		{"https://www.douyin.com/home", false},
		{"about:blank", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsAuthenticated(tt.url))
		})
	}
}

func TestClassifier_IsLoginPage(t *testing.T) {
	c := MustDefaultClassifier()

	assert.True(t, c.IsLoginPage("https://creator.douyin.com/login"))
	assert.True(t, c.IsLoginPage("https://creator.douyin.com/creator-micro/content/upload?redirect=login"))
	assert.False(t, c.IsLoginPage("https://creator.douyin.com/creator-micro/content/upload"))
}

func TestNewClassifier_CustomPatterns(t *testing.T) {
	c, err := NewClassifier(Patterns{
		Login:       []string{"*signin*"},
		AuthPage:    []string{"*signin*"},
		CreatorHome: []string{"https://example.test/dashboard*"},
	})
	require.NoError(t, err)

	assert.True(t, c.IsAuthenticated("https://example.test/dashboard/videos"))
	assert.False(t, c.IsAuthenticated("https://example.test/signin"))
	assert.True(t, c.IsLoginPage("https://example.test/signin"))
}

func TestNewClassifier_InvalidPattern(t *testing.T) {
	_, err := NewClassifier(Patterns{Login: []string{"[unterminated"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid url pattern")
}
