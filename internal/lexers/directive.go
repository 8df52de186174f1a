package lexers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/document"
)

// Syntax is how a markup language writes a directive comment. Its format
// verb is replaced by the quoted directive name; the pattern must capture
// the name and then the arguments.
type Syntax string

const (
	// HTMLComment matches <!-- name: arguments -->, the form used by
	// Markdown, and also the MyST and MDX forms below.
	HTMLComment Syntax = `(?m)^[ \t]*<!--+[ \t]*(%s):[ \t]*([^\n]*?)[ \t]*(?:--+>)?[ \t]*$`
	// Percent matches MyST's % name: arguments comments.
	Percent Syntax = `(?m)^[ \t]*%%[ \t]*(%s):[ \t]*([^\n]*?)[ \t]*$`
	// JSXComment matches MDX's {/* name: arguments */}.
	JSXComment Syntax = `(?m)^[ \t]*\{/\*[ \t]*(%s):[ \t]*([^\n]*?)[ \t]*\*/\}[ \t]*$`
	// ReST matches .. name: arguments comments.
	ReST Syntax = `(?m)^[ \t]*\.\.[ \t]+(%s):[ \t]*([^\n]*?)[ \t]*$`
	// Djot matches {% name: arguments %}.
	Djot Syntax = `(?m)^[ \t]*\{%%[ \t]*(%s):[ \t]*([^\n]*?)[ \t]*%%\}[ \t]*$`
	// Norg matches .name: arguments and a bare .name.
	Norg Syntax = `(?m)^[ \t]*\.(%s)(?::[ \t]*([^\n]*?))?[ \t]*$`
)

// Directive lexes single-line directive comments such as
// <!-- group: start -->. Regions end before the line's newline and carry
// the "directive" and "arguments" lexemes. Directives inside the regions
// found by Exclude are ignored.
type Directive struct {
	Name    string
	Syntax  Syntax
	Exclude []document.Lexer

	re *regexp.Regexp
}

// NewDirective compiles the lexer for the named directive.
func NewDirective(name string, syntax Syntax, exclude ...document.Lexer) (*Directive, error) {
	re, err := regexp.Compile(fmt.Sprintf(string(syntax), regexp.QuoteMeta(name)))
	if err != nil {
		return nil, fmt.Errorf("compiling %s directive: %w", name, err)
	}
	return &Directive{Name: name, Syntax: syntax, Exclude: exclude, re: re}, nil
}

// Lex implements document.Lexer.
func (l *Directive) Lex(d *document.Document) ([]*document.Region, error) {
	skip, err := excluded(d, l.Exclude)
	if err != nil {
		return nil, err
	}
	text := d.Original()
	var regions []*document.Region
	for _, m := range l.re.FindAllStringSubmatchIndex(text, -1) {
		if skip.contains(m[0]) {
			continue
		}
		var args string
		if m[4] >= 0 {
			args = text[m[4]:m[5]]
		}
		regions = append(regions, &document.Region{
			Start: m[0],
			End:   m[1],
			Lexemes: map[string]any{
				"directive": text[m[2]:m[3]],
				"arguments": strings.TrimSpace(args),
			},
		})
	}
	return regions, nil
}
