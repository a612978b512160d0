package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styling applied by the renderer itself. Structural styles (bold etc.) come
// from the tag stack; these are the fixed accents.
var (
	anchorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	imageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// entityReplacer decodes the fixed set of supported HTML entities. Unknown
// entities pass through literally.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&#x27;", "'",
	"&mdash;", "—",
	"&ndash;", "–",
	"&hellip;", "…",
	"&bull;", "•",
	"&copy;", "©",
	"&reg;", "®",
	"&trade;", "™",
)

type styleFlag int

const (
	styleBold styleFlag = iota
	styleUnderline
	styleStrike
)

// listState tracks one level of list nesting.
type listState struct {
	ordered bool
	counter int
}

// htmlParser is a forward single-pass scanner over an HTML document. It
// never backtracks over consumed input; all cross-document state lives in
// the stacks and flags below.
type htmlParser struct {
	styleStack []styleFlag
	listStack  []listState

	spans    []Span
	text     strings.Builder
	style    lipgloss.Style
	lines    []Line
	indent   string
	maxWidth int
	curWidth int

	lastWasBlank bool
	inAnchor     bool
	anchorID     int // work item id parsed from the anchor href, 0 if none
	inPre        bool
	inCode       bool
}

// HTML renders an HTML fragment into word-wrapped styled lines. maxWidth of
// 0 disables wrapping. The result is deterministic and the input is never
// mutated.
func HTML(html string, maxWidth int) []Line {
	p := &htmlParser{maxWidth: maxWidth}
	return p.parse(html)
}

func (p *htmlParser) parse(html string) []Line {
	inTag := false
	var tag strings.Builder
	var textRun strings.Builder

	flushRun := func() {
		if textRun.Len() == 0 {
			return
		}
		run := textRun.String()
		textRun.Reset()
		if p.inPre {
			p.addPreText(run)
			return
		}
		if normalized := normalizeWhitespace(run); normalized != "" {
			p.addText(normalized)
		}
	}

	for _, c := range html {
		switch {
		case c == '<' && !inTag:
			flushRun()
			inTag = true
			tag.Reset()
		case c == '>' && inTag:
			inTag = false
			p.processTag(tag.String())
		case inTag:
			tag.WriteRune(c)
		default:
			textRun.WriteRune(c)
		}
	}
	flushRun()

	p.flushLine()

	// Trim trailing blank lines.
	for len(p.lines) > 0 && p.lines[len(p.lines)-1].IsBlank() {
		p.lines = p.lines[:len(p.lines)-1]
	}
	return p.lines
}

// processTag dispatches a raw tag body (without angle brackets).
func (p *htmlParser) processTag(raw string) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "/"); ok {
		p.closeTag(tagName(rest))
		return
	}
	rest := strings.TrimSuffix(raw, "/")
	p.openTag(tagName(rest), rest)
}

func tagName(raw string) string {
	if i := strings.IndexFunc(raw, isSpace); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (p *htmlParser) openTag(name, raw string) {
	switch name {
	case "br":
		// A <br> on an empty line is an intentional blank.
		if len(p.spans) == 0 && p.text.Len() == 0 {
			p.blankLine()
		} else {
			p.flushLine()
		}

	case "p", "div", "h4", "h5", "h6":
		if len(p.spans) > 0 || p.text.Len() > 0 {
			p.flushLine()
		}

	case "h1", "h2", "h3":
		p.flushLine()
		if len(p.lines) > 0 {
			p.blankLine()
		}
		p.pushStyle(styleBold)

	case "b", "strong":
		p.pushStyle(styleBold)
	case "u":
		p.pushStyle(styleUnderline)
	case "s", "strike", "del":
		p.pushStyle(styleStrike)

	case "a":
		p.flushText()
		p.inAnchor = true
		p.anchorID = 0
		if href, ok := attrValue(raw, "href"); ok {
			if id, ok := ParseWorkItemURL(href); ok {
				p.anchorID = id
			}
		}
		p.style = p.computeStyle()

	case "ul":
		p.flushLine()
		p.listStack = append(p.listStack, listState{})
		p.updateIndent()
	case "ol":
		p.flushLine()
		p.listStack = append(p.listStack, listState{ordered: true})
		p.updateIndent()
	case "li":
		p.flushLine()
		prefix := "• "
		if n := len(p.listStack); n > 0 && p.listStack[n-1].ordered {
			p.listStack[n-1].counter++
			prefix = fmt.Sprintf("%d. ", p.listStack[n-1].counter)
		}
		p.spans = append(p.spans, Span{Text: prefix})
		p.curWidth = runewidth.StringWidth(prefix)

	case "img":
		p.flushText()
		p.spans = append(p.spans, Span{Text: "[image]", Style: imageStyle})

	case "table", "tbody", "tr":
		p.flushLine()
	case "td", "th":
		if p.text.Len() > 0 || len(p.spans) > 0 {
			p.addText(" | ")
		}

	case "code":
		p.flushText()
		p.inCode = true
		p.style = p.computeStyle()
	case "pre":
		p.flushText()
		p.inPre = true
		p.inCode = true
		p.style = p.computeStyle()
	}
}

func (p *htmlParser) closeTag(name string) {
	switch name {
	case "p":
		p.blankLine()

	case "div", "h4", "h5", "h6":
		p.flushLine()

	case "h1", "h2", "h3":
		p.popStyle()
		p.flushLine()

	case "b", "strong", "u", "s", "strike", "del":
		p.popStyle()

	case "a":
		p.flushText()
		if p.anchorID > 0 {
			ref := fmt.Sprintf("#%d", p.anchorID)
			if len(p.spans) > 0 && !strings.HasSuffix(p.spans[len(p.spans)-1].Text, " ") {
				ref = " " + ref
			}
			p.spans = append(p.spans, Span{Text: ref, Style: anchorStyle})
			p.curWidth += runewidth.StringWidth(ref)
		}
		p.inAnchor = false
		p.anchorID = 0
		p.style = p.computeStyle()

	case "ul", "ol":
		p.flushLine()
		if len(p.listStack) > 0 {
			p.listStack = p.listStack[:len(p.listStack)-1]
		}
		p.updateIndent()

	case "tr", "table":
		p.flushLine()

	case "code":
		p.flushText()
		p.inCode = false
		p.style = p.computeStyle()
	case "pre":
		p.flushText()
		p.inPre = false
		p.inCode = false
		p.style = p.computeStyle()
	}
}

// pushStyle flushes pending text and adds a modifier to the stack.
func (p *htmlParser) pushStyle(f styleFlag) {
	p.flushText()
	p.styleStack = append(p.styleStack, f)
	p.style = p.computeStyle()
}

// popStyle removes the innermost modifier. Unbalanced close tags are
// ignored rather than underflowing the stack.
func (p *htmlParser) popStyle() {
	p.flushText()
	if len(p.styleStack) > 0 {
		p.styleStack = p.styleStack[:len(p.styleStack)-1]
	}
	p.style = p.computeStyle()
}

func (p *htmlParser) computeStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	for _, f := range p.styleStack {
		switch f {
		case styleBold:
			style = style.Bold(true)
		case styleUnderline:
			style = style.Underline(true)
		case styleStrike:
			style = style.Strikethrough(true)
		}
	}
	if p.inAnchor {
		style = style.Foreground(anchorStyle.GetForeground())
	}
	if p.inCode {
		style = style.Foreground(codeStyle.GetForeground())
	}
	return style
}

func (p *htmlParser) updateIndent() {
	if n := len(p.listStack); n > 1 {
		p.indent = strings.Repeat("  ", n-1)
	} else {
		p.indent = ""
	}
}

// addText appends normalized text content, wrapping words as needed.
func (p *htmlParser) addText(text string) {
	text = entityReplacer.Replace(text)

	indentWidth := runewidth.StringWidth(p.indent)
	for _, word := range splitInclusive(text) {
		wordWidth := runewidth.StringWidth(word)
		if p.maxWidth > 0 {
			effectiveMax := p.maxWidth - indentWidth
			if effectiveMax < 0 {
				effectiveMax = 0
			}
			if p.curWidth > 0 && p.curWidth+wordWidth > effectiveMax {
				p.flushLine()
			}
		}
		p.text.WriteString(word)
		p.curWidth += wordWidth
	}
}

// addPreText appends preformatted content verbatim: no whitespace
// normalization, no wrapping, embedded newlines become line breaks.
func (p *htmlParser) addPreText(text string) {
	text = entityReplacer.Replace(text)
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			p.flushLine()
		}
		p.text.WriteString(part)
		p.curWidth += runewidth.StringWidth(part)
	}
}

// flushText converts accumulated text into a span on the current line.
func (p *htmlParser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.spans = append(p.spans, Span{Text: p.text.String(), Style: p.style})
	p.text.Reset()
}

// flushLine finishes the current line. An empty line produces no output
// (blank lines are emitted only through blankLine), except inside <pre>
// where every line is significant.
func (p *htmlParser) flushLine() {
	p.flushText()

	line := Line{Spans: p.spans}
	p.spans = nil
	p.curWidth = 0

	if line.IsBlank() && !p.inPre {
		return
	}
	if p.indent != "" {
		line.Spans = append([]Span{{Text: p.indent}}, line.Spans...)
	}
	p.lines = append(p.lines, line)
	p.lastWasBlank = line.IsBlank()
}

// blankLine flushes pending content and appends one blank separator line.
// Consecutive blanks collapse to a single one.
func (p *htmlParser) blankLine() {
	p.flushLine()
	if p.lastWasBlank && len(p.lines) > 0 {
		return
	}
	p.lines = append(p.lines, Line{})
	p.lastWasBlank = true
}

// splitInclusive splits text after every whitespace character, so each
// chunk is a word together with its trailing separator.
func splitInclusive(text string) []string {
	var parts []string
	start := 0
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			parts = append(parts, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

// normalizeWhitespace collapses whitespace runs into single spaces.
func normalizeWhitespace(s string) string {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
		} else {
			b.WriteRune(r)
			lastWasSpace = false
		}
	}
	return b.String()
}

// attrValue extracts a quoted attribute value from a raw tag body.
func attrValue(raw, name string) (string, bool) {
	lower := strings.ToLower(raw)
	idx := strings.Index(lower, name+"=")
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(name)+1:]
	if rest == "" {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		// Unquoted value, runs to the next whitespace.
		if end := strings.IndexFunc(rest, isSpace); end >= 0 {
			return rest[:end], true
		}
		return rest, true
	}
	rest = rest[1:]
	if end := strings.IndexByte(rest, quote); end >= 0 {
		return rest[:end], true
	}
	return "", false
}

// ParseWorkItemURL extracts a work item id from URLs shaped
// ".../workitems/edit/<id>" or ".../workitems/<id>".
func ParseWorkItemURL(href string) (int, bool) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}

	segments := strings.Split(strings.Trim(href, "/"), "/")
	for i, seg := range segments {
		// Both the web UI (_workitems) and the REST API (workitems) shape.
		if !strings.HasSuffix(strings.ToLower(seg), "workitems") || i+1 >= len(segments) {
			continue
		}
		candidate := segments[i+1]
		if strings.EqualFold(candidate, "edit") {
			if i+2 >= len(segments) {
				continue
			}
			candidate = segments[i+2]
		}
		if id, err := strconv.Atoi(candidate); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}
