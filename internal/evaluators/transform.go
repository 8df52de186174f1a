// Package evaluators holds the evaluators bound to parsed examples: running
// a command over a block, writing blocks back, and collecting their text.
package evaluators

import (
	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/pycon"
)

// SourcePreparer turns an example into the text handed to a command.
type SourcePreparer interface {
	Prepare(ex *document.Example) (string, error)
}

// ResultTransformer turns what a command left in its file back into the
// text of the example.
type ResultTransformer interface {
	Transform(content string, ex *document.Example) (string, error)
}

// Identity passes text through unchanged in both directions.
type Identity struct{}

func (Identity) Prepare(ex *document.Example) (string, error) {
	return ex.Parsed().Text, nil
}

func (Identity) Transform(content string, _ *document.Example) (string, error) {
	return content, nil
}

// Pycon prepares interactive transcripts as plain Python and puts the
// prompts and output back afterwards.
type Pycon struct{}

func (Pycon) Prepare(ex *document.Example) (string, error) {
	return pycon.ToPython(ex.Parsed().Text)
}

func (Pycon) Transform(content string, ex *document.Example) (string, error) {
	return pycon.FromPython(content, ex.Parsed().Text), nil
}
