package group

import (
	"context"
	"sync"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
)

// AllParser groups every source example of a document into one example,
// evaluated at the end of the document.
type AllParser struct {
	Evaluator document.Evaluator
	Combine   combine.Options
}

type allState struct {
	mu      sync.Mutex
	members []*document.Example
}

// Parse installs the parser as an interceptor and returns one empty region
// at the end of the document that triggers the evaluation.
func (p *AllParser) Parse(d *document.Document) ([]*document.Region, error) {
	d.Attach(p, &allState{})
	d.Push(p)
	end := len(d.Original())
	return []*document.Region{{Start: end, End: end, Parsed: "", Evaluator: p}}, nil
}

// Intercept collects every source example.
func (p *AllParser) Intercept(ctx context.Context, ex *document.Example) (document.Outcome, error) {
	if ex.Region.Evaluator == p {
		return document.Handled, p.Evaluate(ctx, ex)
	}
	if !ex.Region.HasSource() {
		return document.NotApplicable, nil
	}
	v, ok := ex.Document.Attachment(p)
	if !ok {
		return document.NotApplicable, nil
	}
	st := v.(*allState)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.members = append(st.members, ex)
	return document.Handled, nil
}

// Evaluate evaluates everything collected, then uninstalls the parser.
func (p *AllParser) Evaluate(ctx context.Context, ex *document.Example) error {
	d := ex.Document
	v, ok := d.Attachment(p)
	if !ok {
		return nil
	}
	d.Remove(p)
	d.Detach(p)

	st := v.(*allState)
	st.mu.Lock()
	members := sortByStart(st.members)
	st.mu.Unlock()
	if len(members) == 0 {
		return nil
	}
	combined, err := combine.Example(members, p.Evaluator, p.Combine)
	if err != nil {
		return err
	}
	return p.Evaluator.Evaluate(ctx, combined)
}
