package browser

import "testing"

func TestOpenRejectsNonHTTP(t *testing.T) {
	for _, url := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "ftp://host"} {
		if err := Open(url); err == nil {
			t.Errorf("Open(%q) should have been refused", url)
		}
	}
}
