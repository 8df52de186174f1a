// Package markup describes the supported markup languages and builds the
// parsers doccmd runs over each of them.
package markup

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/group"
	"github.com/jorge-barreto/doccmd/internal/lexers"
	"github.com/jorge-barreto/doccmd/internal/skip"
)

// Language is one markup language.
type Language struct {
	Name       string
	Extensions []string
	// Syntaxes are the directive comment forms the language accepts.
	Syntaxes []lexers.Syntax
	// Attributes reports whether code blocks carry key="value" attributes
	// that AttributeGroupParser can group by.
	Attributes bool

	codeBlocks func(language string) document.Lexer
	codeBlock  func(code, language string) string
	comment    func(directive, argument string) string
}

var (
	Markdown = &Language{
		Name:       "markdown",
		Extensions: []string{".md", ".markdown"},
		Syntaxes:   []lexers.Syntax{lexers.HTMLComment},
		codeBlocks: func(lang string) document.Lexer { return &lexers.Fenced{Language: lang} },
		codeBlock:  fence,
		comment:    htmlComment,
	}
	MyST = &Language{
		Name:       "myst",
		Extensions: []string{".myst.md", ".myst"},
		Syntaxes:   []lexers.Syntax{lexers.Percent, lexers.HTMLComment},
		codeBlocks: func(lang string) document.Lexer { return &lexers.Fenced{Language: lang, MyST: true} },
		codeBlock: func(code, lang string) string {
			return "```{code-block} " + lang + "\n" + withNewline(code) + "```"
		},
		comment: func(directive, argument string) string {
			return "% " + directive + ": " + argument
		},
	}
	MDX = &Language{
		Name:       "mdx",
		Extensions: []string{".mdx"},
		Syntaxes:   []lexers.Syntax{lexers.JSXComment, lexers.HTMLComment},
		Attributes: true,
		codeBlocks: func(lang string) document.Lexer { return &lexers.Fenced{Language: lang} },
		codeBlock:  fence,
		comment: func(directive, argument string) string {
			return "{/* " + directive + ": " + argument + " */}"
		},
	}
	ReST = &Language{
		Name:       "rest",
		Extensions: []string{".rst", ".rest"},
		Syntaxes:   []lexers.Syntax{lexers.ReST},
		codeBlocks: func(lang string) document.Lexer { return &lexers.ReSTCodeBlock{Language: lang} },
		codeBlock: func(code, lang string) string {
			var b strings.Builder
			b.WriteString(".. code-block:: " + lang + "\n")
			for _, l := range strings.SplitAfter(withNewline(code), "\n") {
				if strings.TrimSpace(l) != "" {
					b.WriteString("\n   " + strings.TrimSuffix(l, "\n"))
				} else if l != "" {
					b.WriteString("\n")
				}
			}
			return b.String()
		},
		comment: func(directive, argument string) string {
			return ".. " + directive + ": " + argument
		},
	}
	Djot = &Language{
		Name:       "djot",
		Extensions: []string{".dj", ".djot"},
		Syntaxes:   []lexers.Syntax{lexers.Djot},
		codeBlocks: func(lang string) document.Lexer { return &lexers.DjotCodeBlock{Language: lang} },
		codeBlock:  fence,
		comment: func(directive, argument string) string {
			return "{% " + directive + ": " + argument + " %}"
		},
	}
	Norg = &Language{
		Name:       "norg",
		Extensions: []string{".norg"},
		Syntaxes:   []lexers.Syntax{lexers.Norg},
		codeBlocks: func(lang string) document.Lexer { return &lexers.NorgCodeBlock{Language: lang} },
		codeBlock: func(code, lang string) string {
			return "@code " + lang + "\n" + withNewline(code) + "@end"
		},
		comment: func(directive, argument string) string {
			return "." + directive + ": " + argument
		},
	}
)

// All returns every supported language.
func All() []*Language {
	return []*Language{Markdown, MyST, MDX, ReST, Djot, Norg}
}

// ByName looks a language up by name, ignoring case.
func ByName(name string) (*Language, error) {
	for _, l := range All() {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	names := make([]string, 0, len(All()))
	for _, l := range All() {
		names = append(names, l.Name)
	}
	return nil, fmt.Errorf("unknown markup language %q (known: %s)", name, strings.Join(names, ", "))
}

// ForPath picks a language by file extension. overrides maps extensions
// such as ".md" to language names and wins over the defaults. The longest
// matching extension is used.
func ForPath(path string, overrides map[string]string) (*Language, bool) {
	base := strings.ToLower(filepath.Base(path))

	exts := make([]string, 0, len(overrides))
	for ext := range overrides {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	for _, ext := range exts {
		if strings.HasSuffix(base, strings.ToLower(ext)) {
			if l, err := ByName(overrides[ext]); err == nil {
				return l, true
			}
		}
	}

	var best *Language
	bestLen := 0
	for _, l := range All() {
		for _, ext := range l.Extensions {
			if strings.HasSuffix(base, ext) && len(ext) > bestLen {
				best, bestLen = l, len(ext)
			}
		}
	}
	return best, best != nil
}

// CodeBlocks returns the code block lexer, keeping only blocks in language
// when it is set.
func (l *Language) CodeBlocks(language string) document.Lexer {
	return l.codeBlocks(language)
}

// Directives returns one lexer per directive syntax of the language. They
// never match inside code blocks.
func (l *Language) Directives(name string) ([]document.Lexer, error) {
	out := make([]document.Lexer, 0, len(l.Syntaxes))
	for _, syntax := range l.Syntaxes {
		lx, err := lexers.NewDirective(name, syntax, l.codeBlocks(""))
		if err != nil {
			return nil, err
		}
		out = append(out, lx)
	}
	return out, nil
}

// CodeBlock renders a code block, for scaffolding and tests.
func (l *Language) CodeBlock(code, language string) string {
	return l.codeBlock(code, language)
}

// Comment renders a directive comment.
func (l *Language) Comment(directive, argument string) string {
	return l.comment(directive, argument)
}

func (l *Language) String() string {
	return l.Name
}

func fence(code, lang string) string {
	return "```" + lang + "\n" + withNewline(code) + "```"
}

func htmlComment(directive, argument string) string {
	return "<!-- " + directive + ": " + argument + " -->"
}

func withNewline(code string) string {
	if code == "" || strings.HasSuffix(code, "\n") {
		return code
	}
	return code + "\n"
}

// CodeBlockParser evaluates every code block in language with ev. Blocks
// rejected by any of keep are left out.
func (l *Language) CodeBlockParser(language string, ev document.Evaluator, keep ...func(*document.Region) bool) document.Parser {
	lx := l.codeBlocks(language)
	return document.ParserFunc(func(d *document.Document) ([]*document.Region, error) {
		lexed, err := lx.Lex(d)
		if err != nil {
			return nil, err
		}
		regions := lexed[:0]
	next:
		for _, r := range lexed {
			for _, k := range keep {
				if !k(r) {
					continue next
				}
			}
			src, _ := r.Lexeme("source")
			r.Parsed = src
			r.Evaluator = ev
			regions = append(regions, r)
		}
		return regions, nil
	})
}

// WithoutAttribute keeps code blocks that do not set attribute, so they can
// be parsed alongside an AttributeGroupParser.
func WithoutAttribute(attribute string) func(*document.Region) bool {
	return func(r *document.Region) bool {
		return r.Attributes()[attribute] == ""
	}
}

// GroupedSourceParser groups code blocks between directive: start and
// directive: end markers, pairing the markers when the document is parsed.
func (l *Language) GroupedSourceParser(directive string, ev document.Evaluator, opts combine.Options) (*group.SourceParser, error) {
	lx, err := l.Directives(directive)
	if err != nil {
		return nil, err
	}
	return &group.SourceParser{Lexers: lx, Evaluator: ev, Directive: directive, Combine: opts}, nil
}

// GroupedBlockParser groups code blocks between directive: start and
// directive: end markers as they are evaluated.
func (l *Language) GroupedBlockParser(directive string, ev document.Evaluator, opts combine.Options) (*group.BlockParser, error) {
	lx, err := l.Directives(directive)
	if err != nil {
		return nil, err
	}
	return &group.BlockParser{Lexers: lx, Evaluator: ev, Directive: directive, Combine: opts}, nil
}

// GroupAllParser groups every code block of a document.
func (l *Language) GroupAllParser(ev document.Evaluator, opts combine.Options) *group.AllParser {
	return &group.AllParser{Evaluator: ev, Combine: opts}
}

// SkipParser handles directive: next, start and end comments.
func (l *Language) SkipParser(directive string, onSkip func(*document.Example)) (*skip.Parser, error) {
	lx, err := l.Directives(directive)
	if err != nil {
		return nil, err
	}
	return &skip.Parser{Lexers: lx, Directive: directive, OnSkip: onSkip}, nil
}

// AttributeGroupParser groups code blocks in language that share a value
// of attribute. Only languages with code block attributes support it.
func (l *Language) AttributeGroupParser(language, attribute string, ev document.Evaluator, opts combine.Options) (*group.AttributeParser, error) {
	if !l.Attributes {
		return nil, fmt.Errorf("%s code blocks have no attributes to group by", l.Name)
	}
	return &group.AttributeParser{
		Lexers:    []document.Lexer{l.codeBlocks(language)},
		Evaluator: ev,
		Attribute: attribute,
		Combine:   opts,
	}, nil
}
