// Package skip implements the skip directive: "next" skips the following
// example, "start" and "end" skip everything in between.
package skip

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/group"
)

// Parser turns skip directives into regions that install it as an
// interceptor while skipping is in effect.
type Parser struct {
	Lexers    []document.Lexer
	Directive string
	// OnSkip, when set, is called for every skipped example.
	OnSkip func(ex *document.Example)
}

type state struct {
	mu   sync.Mutex
	last string
}

// Parse returns one region per directive.
func (p *Parser) Parse(d *document.Document) ([]*document.Region, error) {
	lexed, err := document.LexAll(d, p.Lexers...)
	if err != nil {
		return nil, err
	}
	regions := make([]*document.Region, 0, len(lexed))
	for _, r := range lexed {
		action, err := group.Action(r, p.Directive, "next", "start", "end")
		if err != nil {
			return nil, err
		}
		regions = append(regions, &document.Region{
			Start:     r.Start,
			End:       r.End,
			Parsed:    action,
			Lexemes:   r.Lexemes,
			Evaluator: p,
		})
	}
	return regions, nil
}

// Evaluate applies one skip directive.
func (p *Parser) Evaluate(_ context.Context, ex *document.Example) error {
	action, _ := ex.Region.Parsed.(string)
	d := ex.Document
	st := p.state(d)

	st.mu.Lock()
	defer st.mu.Unlock()
	switch action {
	case "next", "start":
		if st.last == "start" {
			return fmt.Errorf("'%s: %s' cannot follow '%s: start'", p.Directive, action, p.Directive)
		}
		if st.last == "" || st.last == "end" {
			d.Push(p)
		}
	case "end":
		if st.last != "start" {
			return fmt.Errorf("'%s: end' must follow '%s: start'", p.Directive, p.Directive)
		}
		d.Remove(p)
		d.Detach(p)
		return nil
	}
	st.last = action
	return nil
}

// Intercept claims every example while skipping is in effect.
func (p *Parser) Intercept(ctx context.Context, ex *document.Example) (document.Outcome, error) {
	if ex.Region.Evaluator == p {
		return document.Handled, p.Evaluate(ctx, ex)
	}
	d := ex.Document
	st := p.state(d)

	st.mu.Lock()
	switch st.last {
	case "next":
		st.last = ""
		d.Remove(p)
		d.Detach(p)
	case "start":
	default:
		st.mu.Unlock()
		return document.NotApplicable, nil
	}
	st.mu.Unlock()

	log.Debug().Str("path", d.Path).Int("line", ex.Line).Msg("skipping example")
	if p.OnSkip != nil {
		p.OnSkip(ex)
	}
	return document.Handled, nil
}

func (p *Parser) state(d *document.Document) *state {
	if v, ok := d.Attachment(p); ok {
		return v.(*state)
	}
	st := &state{}
	d.Attach(p, st)
	return st
}
