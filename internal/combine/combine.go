// Package combine merges the source of several examples into one virtual
// example whose line numbers can be made to match the original document.
package combine

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/markers"
)

// Options controls how member texts are joined.
type Options struct {
	// Pad inserts enough blank lines between members that line k of the
	// combined text is line first+k of the document.
	Pad bool
	// Separator is the number of newlines between members when Pad is
	// off. Zero means one.
	Separator int
	// Delimiters, when set, wraps every member in block markers.
	Delimiters *markers.Delimiters
}

// Text returns the payload a member contributes: its parsed lexeme, or its
// "source" lexeme when the payload is not a lexeme.
func Text(ex *document.Example) document.Lexeme {
	if l, ok := ex.Region.ParsedLexeme(); ok {
		return l
	}
	l, _ := ex.Region.Lexeme("source")
	return l
}

// CountLines counts lines the way a line splitter does: a trailing newline
// does not open a new line and the empty string has none.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// Lexeme joins the member texts. Members must be in strictly increasing
// source order. It also returns where each member landed in the combined
// text, before any markers were inserted.
func Lexeme(members []*document.Example, opts Options) (document.Lexeme, []markers.BlockPosition, error) {
	if len(members) == 0 {
		return document.Lexeme{}, nil, fmt.Errorf("no examples to combine")
	}
	first := members[0]
	result := Text(first)
	var b strings.Builder
	b.WriteString(result.Text)
	positions := []markers.BlockPosition{{StartLine: 0, EndLine: CountLines(result.Text), BlockIndex: 0}}

	for i, ex := range members[1:] {
		prev := members[i]
		if ex.Region.Start <= prev.Region.Start {
			return document.Lexeme{}, nil, fmt.Errorf(
				"examples out of order: line %d does not follow line %d", ex.Line, prev.Line)
		}
		acc := b.String()
		b.WriteString(strings.Repeat("\n", padding(acc, ex.Line-first.Line, opts)))

		text := Text(ex).Text
		start := strings.Count(b.String(), "\n")
		positions = append(positions, markers.BlockPosition{
			StartLine:  start,
			EndLine:    start + CountLines(text),
			BlockIndex: i + 1,
		})
		b.WriteString(text)
	}

	combined := b.String()
	if opts.Delimiters != nil {
		marked, err := markers.Insert(combined, positions, *opts.Delimiters)
		if err != nil {
			return document.Lexeme{}, nil, err
		}
		combined = marked
	}
	return document.Lexeme{Text: combined, Offset: result.Offset, LineOffset: result.LineOffset}, positions, nil
}

// padding returns the newlines to put between acc and a member starting
// lineDelta lines below the first member. It never goes below what is needed
// to start the member on a line of its own.
func padding(acc string, lineDelta int, opts Options) int {
	minimum := 0
	if acc != "" && !strings.HasSuffix(acc, "\n") {
		minimum = 1
	}
	n := opts.Separator
	if n <= 0 {
		n = 1
	}
	if opts.Pad {
		n = lineDelta - CountLines(acc)
	}
	if n < minimum {
		n = minimum
	}
	return n
}

// Region builds the region for a combined example. It spans the first
// member's start to the last member's end and reuses the first member's
// lexemes.
func Region(members []*document.Example, ev document.Evaluator, opts Options) (*document.Region, error) {
	parsed, _, err := Lexeme(members, opts)
	if err != nil {
		return nil, err
	}
	return &document.Region{
		Start:     members[0].Region.Start,
		End:       members[len(members)-1].Region.End,
		Parsed:    parsed,
		Lexemes:   members[0].Region.Lexemes,
		Evaluator: ev,
	}, nil
}

// Example builds the combined example for members, located at the first
// member.
func Example(members []*document.Example, ev document.Evaluator, opts Options) (*document.Example, error) {
	region, err := Region(members, ev, opts)
	if err != nil {
		return nil, err
	}
	first := members[0]
	return &document.Example{
		Document:   first.Document,
		Region:     region,
		Line:       first.Line,
		Column:     first.Column,
		Members:    members,
		Delimiters: opts.Delimiters,
	}, nil
}
