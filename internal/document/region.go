package document

import (
	"context"
	"fmt"
)

// Lexeme is a slice of text lifted out of a document. Offset is its position
// within the enclosing construct and LineOffset counts the newlines between
// the start of the construct and the first character of Text.
type Lexeme struct {
	Text       string
	Offset     int
	LineOffset int
}

func (l Lexeme) String() string {
	return l.Text
}

// Evaluator evaluates one example.
type Evaluator interface {
	Evaluate(ctx context.Context, ex *Example) error
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, ex *Example) error

func (f EvaluatorFunc) Evaluate(ctx context.Context, ex *Example) error {
	return f(ctx, ex)
}

// Region is a half-open [Start, End) byte span of a document's original text.
type Region struct {
	Start     int
	End       int
	Parsed    any
	Lexemes   map[string]any
	Evaluator Evaluator
}

// Lexeme returns the named lexeme when it holds a Lexeme.
func (r *Region) Lexeme(name string) (Lexeme, bool) {
	switch v := r.Lexemes[name].(type) {
	case Lexeme:
		return v, true
	case *Lexeme:
		if v != nil {
			return *v, true
		}
	}
	return Lexeme{}, false
}

// String returns the named lexeme as text, or "" when it is absent.
func (r *Region) String(name string) string {
	switch v := r.Lexemes[name].(type) {
	case string:
		return v
	case Lexeme:
		return v.Text
	case *Lexeme:
		if v != nil {
			return v.Text
		}
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// Attributes returns the "attributes" lexeme.
func (r *Region) Attributes() map[string]string {
	attrs, _ := r.Lexemes["attributes"].(map[string]string)
	return attrs
}

// HasSource reports whether the region carries a "source" lexeme.
func (r *Region) HasSource() bool {
	_, ok := r.Lexemes["source"]
	return ok
}

// ParsedLexeme returns Parsed when it is a Lexeme.
func (r *Region) ParsedLexeme() (Lexeme, bool) {
	switch v := r.Parsed.(type) {
	case Lexeme:
		return v, true
	case *Lexeme:
		if v != nil {
			return *v, true
		}
	}
	return Lexeme{}, false
}
