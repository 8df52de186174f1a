package document

import (
	"context"
	"fmt"

	"github.com/jorge-barreto/doccmd/internal/markers"
)

// Example is a region bound to its document, located by 1-based line and
// column of the region start.
type Example struct {
	Document *Document
	Region   *Region
	Line     int
	Column   int

	// Members lists the examples a combined example was built from, in
	// source order. It is empty for plain examples.
	Members []*Example
	// Delimiters is set when a combined example's text wraps every member
	// in block markers.
	Delimiters *markers.Delimiters
}

// Evaluate runs the example through its document.
func (ex *Example) Evaluate(ctx context.Context) error {
	return ex.Document.Evaluate(ctx, ex)
}

// Parsed returns the region payload as a Lexeme. Non-lexeme payloads give
// the zero Lexeme.
func (ex *Example) Parsed() Lexeme {
	l, _ := ex.Region.ParsedLexeme()
	return l
}

// Path returns the document path.
func (ex *Example) Path() string {
	return ex.Document.Path
}

// Namespace returns the document namespace.
func (ex *Example) Namespace() map[string]any {
	return ex.Document.Namespace
}

func (ex *Example) String() string {
	return fmt.Sprintf("%s, line %d, column %d", ex.Document.Path, ex.Line, ex.Column)
}
