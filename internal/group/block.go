package group

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
)

// BlockParser groups the code blocks between a start and an end directive,
// tracking the directives as they are evaluated. Examples must be evaluated
// in source order.
type BlockParser struct {
	Lexers    []document.Lexer
	Evaluator document.Evaluator
	Directive string
	Combine   combine.Options
}

type blockState struct {
	mu      sync.Mutex
	last    string
	members []*document.Example
}

// Parse turns every directive found by the lexers into a region evaluated by
// the parser.
func (p *BlockParser) Parse(d *document.Document) ([]*document.Region, error) {
	lexed, err := document.LexAll(d, p.Lexers...)
	if err != nil {
		return nil, err
	}
	regions := make([]*document.Region, 0, len(lexed))
	for _, r := range lexed {
		action, err := Action(r, p.Directive, "start", "end")
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

// Evaluate advances the start/end state machine. A start directive installs
// the parser as an interceptor; an end directive evaluates what was
// collected and uninstalls it.
func (p *BlockParser) Evaluate(ctx context.Context, ex *document.Example) error {
	action, _ := ex.Region.Parsed.(string)
	d := ex.Document
	st := p.state(d)

	st.mu.Lock()
	switch action {
	case "start":
		if st.last == "start" {
			st.mu.Unlock()
			return fmt.Errorf("'%s: start' cannot follow '%s: start'", p.Directive, p.Directive)
		}
		st.last = "start"
		st.members = nil
		st.mu.Unlock()
		d.Push(p)
		return nil
	case "end":
		if st.last != "start" {
			st.mu.Unlock()
			return fmt.Errorf("'%s: end' must follow '%s: start'", p.Directive, p.Directive)
		}
		members := sortByStart(st.members)
		st.mu.Unlock()
		d.Remove(p)
		d.Detach(p)
		if len(members) == 0 {
			return nil
		}
		combined, err := combine.Example(members, p.Evaluator, p.Combine)
		if err != nil {
			return err
		}
		log.Debug().Str("path", d.Path).Int("line", combined.Line).
			Int("members", len(members)).Str("directive", p.Directive).Msg("evaluating group")
		return p.Evaluator.Evaluate(ctx, combined)
	}
	st.mu.Unlock()
	return nil
}

// Intercept collects source examples while a group is open.
func (p *BlockParser) Intercept(ctx context.Context, ex *document.Example) (document.Outcome, error) {
	if ex.Region.Evaluator == p {
		return document.Handled, p.Evaluate(ctx, ex)
	}
	if !ex.Region.HasSource() {
		return document.NotApplicable, nil
	}
	st := p.state(ex.Document)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.members = append(st.members, ex)
	return document.Handled, nil
}

func (p *BlockParser) state(d *document.Document) *blockState {
	if v, ok := d.Attachment(p); ok {
		return v.(*blockState)
	}
	st := &blockState{}
	d.Attach(p, st)
	return st
}
