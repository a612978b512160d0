package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		text    string
		pattern string
		want    bool
	}{
		// Exact matches
		{"main", "main", true},
		{"master", "master", true},
		{"main", "master", false},
		{"main-feature", "main", false},

		// Wildcard suffix
		{"releases/v1.0", "releases/*", true},
		{"releases/v12.x", "releases/*", true},
		{"releases/", "releases/*", true},
		{"releases", "releases/*", false},
		{"other/v1.0", "releases/*", false},

		// Wildcard prefix
		{"feature-main", "*main", true},
		{"main", "*main", true},
		{"main-feature", "*main", false},

		// Wildcard in the middle
		{"feature-123-test", "feature-*-test", true},
		{"feature--test", "feature-*-test", true},
		{"feature-123-prod", "feature-*-test", false},

		// Multiple wildcards
		{"a/b/c", "*/*", true},
		{"foo/bar/baz", "*/*", true},

		// Star alone matches everything, including the empty string
		{"anything", "*", true},
		{"", "*", true},

		// Empty pattern only matches empty text
		{"", "", true},
		{"a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text, tt.pattern))
		})
	}
}

func TestMatchesPathological(t *testing.T) {
	// Many consecutive stars must not blow up or change semantics.
	pattern := strings.Repeat("*", 50) + "x"
	assert.True(t, Matches("aaaaax", pattern))
	assert.False(t, Matches("aaaaay", pattern))
	assert.True(t, Matches("x", strings.Repeat("*", 100)+"x"+strings.Repeat("*", 100)))
}

func TestIsProtected(t *testing.T) {
	patterns := []string{"main", "master", "releases/*"}

	assert.True(t, IsProtected("main", patterns))
	assert.True(t, IsProtected("master", patterns))
	assert.True(t, IsProtected("releases/v1.0", patterns))
	assert.False(t, IsProtected("feature/123", patterns))
	assert.False(t, IsProtected("develop", patterns))
}

func TestIsProtectedDefaultFallback(t *testing.T) {
	assert.True(t, IsProtected("main", nil))
	assert.True(t, IsProtected("master", nil))
	assert.False(t, IsProtected("develop", nil))
	assert.True(t, IsProtected("main", []string{}))
}
