// Package lexers finds code blocks and directives in the supported markup
// languages. Every lexer returns regions carrying lexemes and no evaluator.
package lexers

import (
	"sort"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/document"
)

// line is one line of a document. End excludes the newline.
type line struct {
	Start int
	End   int
	Text  string
}

// next returns the offset just past the line's newline.
func (l line) next(text string) int {
	if l.End < len(text) {
		return l.End + 1
	}
	return l.End
}

func splitLines(text string) []line {
	var lines []line
	for pos := 0; pos < len(text); {
		end := strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += pos
		}
		lines = append(lines, line{Start: pos, End: end, Text: text[pos:end]})
		pos = end + 1
	}
	return lines
}

func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

func lineEnd(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// dedent strips the longest common leading whitespace from the non-blank
// lines. Blank lines become empty and every line ends with a newline.
func dedent(lines []string) string {
	common := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if n := indentOf(l); common < 0 || n < common {
			common = n
		}
	}
	var b strings.Builder
	for _, l := range lines {
		if !isBlank(l) {
			b.WriteString(l[common:])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// source builds the "source" lexeme for a block whose content begins at
// contentStart of a region that begins at regionStart.
func source(text, body string, regionStart, contentStart int) document.Lexeme {
	return document.Lexeme{
		Text:       body,
		Offset:     contentStart - regionStart,
		LineOffset: strings.Count(text[regionStart:contentStart], "\n"),
	}
}

// span is a half-open byte range.
type span struct{ start, end int }

type spans []span

func (s spans) contains(pos int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].end > pos })
	return i < len(s) && s[i].start <= pos
}

// excluded returns the spans covered by the regions of lexers, sorted.
func excluded(d *document.Document, lexers []document.Lexer) (spans, error) {
	regions, err := document.LexAll(d, lexers...)
	if err != nil {
		return nil, err
	}
	out := make(spans, 0, len(regions))
	for _, r := range regions {
		out = append(out, span{r.Start, r.End})
	}
	return out, nil
}
