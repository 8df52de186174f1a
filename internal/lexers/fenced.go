package lexers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/jorge-barreto/doccmd/internal/document"
)

var (
	closingFenceRe = regexp.MustCompile("^[ \t>]*(?:`{3,}|~{3,})[ \t]*$")
	attributeRe    = regexp.MustCompile(`([\w-]+)=(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
	mystOptionRe   = regexp.MustCompile(`^[ \t]*:[\w-]+:`)
)

// mystCodeDirectives are the MyST directives whose body is code.
var mystCodeDirectives = map[string]bool{
	"code":            true,
	"code-block":      true,
	"code-cell":       true,
	"sourcecode":      true,
	"jupyter-execute": true,
}

// markdownParser is a CommonMark block parser with indented code blocks
// turned off, so only fences count as code.
var markdownParser = sync.OnceValue(func() parser.Parser {
	indented := reflect.TypeOf(parser.NewCodeBlockParser())
	var blocks []util.PrioritizedValue
	for _, v := range parser.DefaultBlockParsers() {
		if reflect.TypeOf(v.Value) == indented {
			continue
		}
		blocks = append(blocks, v)
	}
	return parser.NewParser(
		parser.WithBlockParsers(blocks...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
})

// Fenced lexes fenced code blocks in Markdown, MyST and MDX.
//
// Each region spans the opening fence through the closing fence and
// carries "language", "source" and, when the info string has key=value
// pairs, "attributes".
type Fenced struct {
	// Language keeps only blocks in this language when set.
	Language string
	// MyST accepts {code-block} style directive fences and drops their
	// leading :option: lines.
	MyST bool
}

// Lex implements document.Lexer.
func (f *Fenced) Lex(d *document.Document) ([]*document.Region, error) {
	src := []byte(d.Original())
	root := markdownParser().Parse(text.NewReader(src))

	var regions []*document.Region
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if r := f.region(d.Original(), src, fence); r != nil {
			regions = append(regions, r)
		}
		return ast.WalkSkipChildren, nil
	})
	return regions, err
}

func (f *Fenced) region(doc string, src []byte, fence *ast.FencedCodeBlock) *document.Region {
	segments := fence.Lines()

	var info string
	var start int
	switch {
	case fence.Info != nil:
		info = strings.TrimSpace(string(fence.Info.Segment.Value(src)))
		start = lineStart(doc, fence.Info.Segment.Start)
	case segments.Len() > 0:
		first := lineStart(doc, segments.At(0).Start)
		if first == 0 {
			return nil
		}
		start = lineStart(doc, first-1)
	default:
		return nil
	}

	fields := strings.Fields(info)
	var lang string
	if len(fields) > 0 {
		lang = fields[0]
	}
	directive := false
	if f.MyST && strings.HasPrefix(lang, "{") && strings.HasSuffix(lang, "}") {
		if !mystCodeDirectives[strings.Trim(lang, "{}")] {
			return nil
		}
		directive = true
		lang = ""
		if len(fields) > 1 {
			lang = fields[1]
		}
	}
	if f.Language != "" && lang != f.Language {
		return nil
	}

	openEnd := lineEnd(doc, start)
	contentStart := -1
	afterSkipped := min(openEnd+1, len(doc))
	last := openEnd
	var body strings.Builder
	skipping, sawOption := directive, false
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		value := string(seg.Value(src))
		last = lineEnd(doc, max(seg.Stop-1, seg.Start))
		if skipping {
			if mystOptionRe.MatchString(value) {
				sawOption = true
				afterSkipped = min(last+1, len(doc))
				continue
			}
			skipping = false
			if sawOption && isBlank(value) {
				afterSkipped = min(last+1, len(doc))
				continue
			}
		}
		if contentStart < 0 {
			contentStart = seg.Start
		}
		body.WriteString(value)
	}
	if contentStart < 0 {
		contentStart = afterSkipped
	}

	end := last
	if last < len(doc) {
		next := last + 1
		closeEnd := lineEnd(doc, next)
		if closingFenceRe.MatchString(doc[next:closeEnd]) {
			end = closeEnd
		}
	}

	lexemes := map[string]any{
		"language": lang,
		"source":   source(doc, body.String(), start, contentStart),
	}
	if attrs := parseAttributes(fields); len(attrs) > 0 {
		lexemes["attributes"] = attrs
	}
	return &document.Region{Start: start, End: end, Lexemes: lexemes}
}

func parseAttributes(fields []string) map[string]string {
	if len(fields) < 2 {
		return nil
	}
	attrs := make(map[string]string)
	for _, m := range attributeRe.FindAllStringSubmatch(strings.Join(fields[1:], " "), -1) {
		attrs[m[1]] = m[2] + m[3] + m[4]
	}
	return attrs
}
