// Package render turns work item HTML into word-wrapped, styled terminal
// lines. The output model (Line/Span) is also what the interactive views
// compose their panes from.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Span is a run of text with a single style.
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line is one terminal row of styled spans.
type Line struct {
	Spans []Span
}

// NewLine builds a line from alternating text/style pairs.
func NewLine(spans ...Span) Line {
	return Line{Spans: spans}
}

// Text returns the unstyled contents of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width of the line.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// IsBlank reports whether the line has no visible content.
func (l Line) IsBlank() bool {
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}

// String renders the line with its styles applied.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Style.Render(s.Text))
	}
	return b.String()
}

// Wrap breaks plain text into lines no wider than maxWidth, splitting on
// whitespace. maxWidth <= 0 disables wrapping. The result always has at
// least one line.
func Wrap(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		switch {
		case current.Len() == 0:
			current.WriteString(word)
			currentWidth = wordWidth
		case currentWidth+1+wordWidth <= maxWidth:
			current.WriteByte(' ')
			current.WriteString(word)
			currentWidth += 1 + wordWidth
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			currentWidth = wordWidth
		}
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

// Truncate shortens s to maxWidth display columns, appending "..." when
// anything was cut.
func Truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if width+rw+3 > maxWidth {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	b.WriteString("...")
	return b.String()
}
