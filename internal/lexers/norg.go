package lexers

import (
	"regexp"

	"github.com/jorge-barreto/doccmd/internal/document"
)

var (
	norgCodeRe = regexp.MustCompile(`^[ \t]*@code(?:[ \t]+(\S+))?[ \t]*$`)
	norgEndRe  = regexp.MustCompile(`^[ \t]*@end[ \t]*$`)
)

// NorgCodeBlock lexes Norg @code ... @end ranged tags. Unclosed tags are
// ignored.
type NorgCodeBlock struct {
	// Language keeps only blocks in this language when set.
	Language string
}

// Lex implements document.Lexer.
func (l *NorgCodeBlock) Lex(d *document.Document) ([]*document.Region, error) {
	text := d.Original()
	lines := splitLines(text)
	var regions []*document.Region

	for i := 0; i < len(lines); i++ {
		m := norgCodeRe.FindStringSubmatch(lines[i].Text)
		if m == nil {
			continue
		}
		head := lines[i]
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if norgEndRe.MatchString(lines[j].Text) {
				end = j
				break
			}
		}
		if end < 0 {
			continue
		}
		var body []string
		for _, ln := range lines[i+1 : end] {
			body = append(body, ln.Text)
		}
		i = end

		lang := m[1]
		if l.Language != "" && lang != l.Language {
			continue
		}
		var src string
		if len(body) > 0 {
			src = dedent(body)
		}
		regions = append(regions, &document.Region{
			Start: head.Start,
			End:   lines[end].End,
			Lexemes: map[string]any{
				"language": lang,
				"source":   source(text, src, head.Start, head.next(text)),
			},
		})
	}
	return regions, nil
}
