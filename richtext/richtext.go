// Package richtext turns node text into display markup. Node text is stored
// raw; links are only recognized when rendering.
package richtext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"
)

// MaxURLDisplay is how many characters of a bare URL are shown before it is
// cut off with "...".
const MaxURLDisplay = 30

var (
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)|https?://[^\s<]+`)
	breakPattern = regexp.MustCompile(`\n+`)
)

// SpanKind classifies a piece of node text.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanLink
	SpanURL
)

// Span is a run of plain text, a markdown link or a bare URL.
type Span struct {
	Kind  SpanKind
	Text  string
	URL   string
	Label string
}

// Display returns the visible text of the span.
func (s Span) Display() string {
	switch s.Kind {
	case SpanLink:
		return s.Label
	case SpanURL:
		return TruncateURL(s.URL)
	default:
		return s.Text
	}
}

// TruncateURL shortens long URLs for display.
func TruncateURL(u string) string {
	if len([]rune(u)) <= MaxURLDisplay {
		return u
	}
	return string([]rune(u)[:MaxURLDisplay]) + "..."
}

// Parse splits one line of text into spans.
func Parse(line string) []Span {
	var spans []Span
	pos := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > pos {
			spans = append(spans, Span{Kind: SpanText, Text: line[pos:m[0]]})
		}
		if m[2] >= 0 {
			spans = append(spans, Span{Kind: SpanLink, Label: line[m[2]:m[3]], URL: line[m[4]:m[5]]})
		} else {
			spans = append(spans, Span{Kind: SpanURL, URL: line[m[0]:m[1]]})
		}
		pos = m[1]
	}
	if pos < len(line) {
		spans = append(spans, Span{Kind: SpanText, Text: line[pos:]})
	}
	return spans
}

// Lines splits text on runs of newlines and parses each line.
func Lines(text string) [][]Span {
	parts := breakPattern.Split(text, -1)
	out := make([][]Span, len(parts))
	for i, p := range parts {
		out[i] = Parse(p)
	}
	return out
}

// Render converts node text to HTML. Runs of newlines become a single <br>,
// except directly after a link. Links whose host equals host open in the
// same window; all others open a new one.
func Render(text, host string) string {
	var b strings.Builder
	lines := Lines(text)
	for i, spans := range lines {
		for _, s := range spans {
			switch s.Kind {
			case SpanText:
				b.Write(util.EscapeHTML([]byte(s.Text)))
			default:
				writeAnchor(&b, s, host)
			}
		}
		if i < len(lines)-1 && !endsWithLink(spans) {
			b.WriteString("<br>")
		}
	}
	return b.String()
}

// Plain returns the text as displayed, with link markup replaced by labels
// and long URLs shortened.
func Plain(text string) string {
	lines := Lines(text)
	out := make([]string, len(lines))
	for i, spans := range lines {
		var b strings.Builder
		for _, s := range spans {
			b.WriteString(s.Display())
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

func endsWithLink(spans []Span) bool {
	return len(spans) > 0 && spans[len(spans)-1].Kind != SpanText
}

func writeAnchor(b *strings.Builder, s Span, host string) {
	target := "_blank"
	if IsInternal(s.URL, host) {
		target = "_top"
	}
	b.WriteString(`<a href="`)
	b.Write(util.EscapeHTML(util.URLEscape([]byte(s.URL), false)))
	b.WriteString(`" target="`)
	b.WriteString(target)
	b.WriteString(`">`)
	b.Write(util.EscapeHTML([]byte(s.Display())))
	b.WriteString("</a>")
}

// IsInternal reports whether rawURL points at host.
func IsInternal(rawURL, host string) bool {
	if host == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
