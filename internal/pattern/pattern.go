// Package pattern implements the wildcard matching used to classify
// protected branches. Patterns are matched against the whole branch name;
// `*` matches any run of characters (including none) and everything else
// matches literally, case-sensitively.
package pattern

// DefaultProtected is the fallback pattern list used when no patterns are
// configured.
var DefaultProtected = []string{"main", "master"}

// Matches reports whether text matches pattern.
//
// The scan is iterative greedy-with-backtracking: on `*` we record the resume
// position and first try to match zero characters; on a later mismatch we
// retry from one character further into the text. Explicit saved-position
// state keeps memory bounded even for pathological inputs like runs of `*`.
func Matches(text, pattern string) bool {
	t, p := 0, 0
	starP := -1 // pattern position just after the last '*' seen
	starT := 0  // text position when that '*' was seen

	for t < len(text) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			starP = p + 1
			starT = t
			p++
		case p < len(pattern) && pattern[p] == text[t]:
			t++
			p++
		case starP >= 0:
			starT++
			t = starT
			p = starP
		default:
			return false
		}
	}

	// Trailing '*'s consume nothing.
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// IsProtected reports whether name matches any of the given patterns. An
// empty pattern list falls back to DefaultProtected.
func IsProtected(name string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultProtected
	}
	for _, p := range patterns {
		if Matches(name, p) {
			return true
		}
	}
	return false
}
