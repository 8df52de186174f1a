package lexers

import (
	"regexp"

	"github.com/jorge-barreto/doccmd/internal/document"
)

var (
	restCodeRe   = regexp.MustCompile(`^([ \t]*)\.\.[ \t]+(?:code-block|code|sourcecode)::[ \t]*(\S*)[ \t]*$`)
	restOptionRe = regexp.MustCompile(`^[ \t]+:[\w-]+:`)
)

// ReSTCodeBlock lexes reStructuredText code-block, code and sourcecode
// directives. The region spans the directive line through the last
// non-blank line of its indented body; the source is the dedented body.
type ReSTCodeBlock struct {
	// Language keeps only blocks in this language when set.
	Language string
}

// Lex implements document.Lexer.
func (l *ReSTCodeBlock) Lex(d *document.Document) ([]*document.Region, error) {
	text := d.Original()
	lines := splitLines(text)
	var regions []*document.Region

	for i := 0; i < len(lines); i++ {
		m := restCodeRe.FindStringSubmatch(lines[i].Text)
		if m == nil {
			continue
		}
		head := lines[i]
		indent := len(m[1])
		lang := m[2]

		j := i + 1
		for j < len(lines) && restOptionRe.MatchString(lines[j].Text) && indentOf(lines[j].Text) > indent {
			j++
		}
		for j < len(lines) && isBlank(lines[j].Text) {
			j++
		}
		bodyStart := j
		lastBody := -1
		for j < len(lines) {
			if !isBlank(lines[j].Text) {
				if indentOf(lines[j].Text) <= indent {
					break
				}
				lastBody = j
			}
			j++
		}

		if l.Language != "" && lang != l.Language {
			if lastBody >= 0 {
				i = lastBody
			}
			continue
		}

		region := &document.Region{Start: head.Start, End: head.End}
		var body []string
		contentStart := head.next(text)
		if lastBody >= 0 {
			for _, ln := range lines[bodyStart : lastBody+1] {
				body = append(body, ln.Text)
			}
			contentStart = lines[bodyStart].Start
			region.End = lines[lastBody].End
			i = lastBody
		}
		var src string
		if len(body) > 0 {
			src = dedent(body)
		}
		region.Lexemes = map[string]any{
			"language": lang,
			"source":   source(text, src, head.Start, contentStart),
		}
		regions = append(regions, region)
	}
	return regions, nil
}
