package lexers

import (
	"regexp"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/document"
)

var djotFenceRe = regexp.MustCompile("^((?:[ \t]*>[ \t]?)*)[ \t]*(`{3,})[ \t]*(\\S*)[ \t]*$")

// DjotCodeBlock lexes Djot code fences, including fences inside block
// quotes. A fence that is never closed ends with its block quote, or with
// the document.
type DjotCodeBlock struct {
	// Language keeps only blocks in this language when set.
	Language string
}

// Lex implements document.Lexer.
func (l *DjotCodeBlock) Lex(d *document.Document) ([]*document.Region, error) {
	text := d.Original()
	lines := splitLines(text)
	var regions []*document.Region

	for i := 0; i < len(lines); i++ {
		m := djotFenceRe.FindStringSubmatch(lines[i].Text)
		if m == nil {
			continue
		}
		head := lines[i]
		quote := strings.TrimRight(m[1], " \t")
		fence := m[2]
		lang := m[3]

		var body strings.Builder
		end := head.End
		j := i + 1
		for ; j < len(lines); j++ {
			content, ok := unquote(lines[j].Text, quote)
			if !ok {
				break
			}
			trimmed := strings.TrimSpace(content)
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, "`") == "" {
				end = lines[j].End
				j++
				break
			}
			body.WriteString(content)
			body.WriteByte('\n')
			end = lines[j].End
		}
		i = j - 1

		// Raw blocks such as ``` =html hold markup, not code.
		if strings.HasPrefix(lang, "=") || (l.Language != "" && lang != l.Language) {
			continue
		}
		regions = append(regions, &document.Region{
			Start: head.Start,
			End:   end,
			Lexemes: map[string]any{
				"language": lang,
				"source":   source(text, body.String(), head.Start, min(head.End+1, len(text))),
			},
		})
	}
	return regions, nil
}

// unquote strips a block quote prefix such as "> >" from s. It reports
// false when s is outside the quote.
func unquote(s, quote string) (string, bool) {
	if quote == "" {
		return s, true
	}
	rest := s
	for _, marker := range strings.Fields(strings.ReplaceAll(quote, ">", " > ")) {
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, marker) {
			return "", false
		}
		rest = strings.TrimPrefix(rest[len(marker):], " ")
	}
	return rest, true
}
