package evaluators

import (
	"context"
	"fmt"

	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/splice"
)

// Write writes the example's parsed text back over the block's source.
// With NamespaceKey set, the text stored under that key is written instead
// and examples with nothing stored are left alone.
type Write struct {
	NamespaceKey string
	// StripPadding drops the leading newlines a padded file would have
	// added before the block.
	StripPadding bool
}

func (w Write) Evaluate(_ context.Context, ex *document.Example) error {
	content := ex.Parsed().Text
	if w.NamespaceKey != "" {
		v, ok := ex.Namespace()[w.NamespaceKey]
		if !ok {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("namespace key %q holds %T, not text", w.NamespaceKey, v)
		}
		content = s
	}
	old := ex.Parsed().Text
	if src, ok := ex.Region.Lexeme("source"); ok {
		old = src.Text
	}
	strip := 0
	if w.StripPadding {
		strip = ex.Line + ex.Parsed().LineOffset
	}
	_, err := splice.Rewrite(ex, old, content, strip)
	return err
}

// BlockAccumulator appends the parsed text of every example to a []string
// in the document namespace.
type BlockAccumulator struct {
	Key string
}

func (a BlockAccumulator) Evaluate(_ context.Context, ex *document.Example) error {
	ns := ex.Namespace()
	blocks, _ := ns[a.Key].([]string)
	ns[a.Key] = append(blocks, ex.Parsed().Text)
	return nil
}

// Multi runs evaluators in order and stops at the first error.
type Multi []document.Evaluator

func (m Multi) Evaluate(ctx context.Context, ex *document.Example) error {
	for _, ev := range m {
		if err := ev.Evaluate(ctx, ex); err != nil {
			return err
		}
	}
	return nil
}

// NoOp accepts every example.
type NoOp struct{}

func (NoOp) Evaluate(context.Context, *document.Example) error {
	return nil
}
