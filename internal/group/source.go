package group

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
)

// SourceParser pairs start and end directives when a document is parsed.
// Every group's span is fixed before evaluation begins, so member examples
// may be evaluated in any order or concurrently; the combined text is always
// built in source order.
type SourceParser struct {
	Lexers    []document.Lexer
	Evaluator document.Evaluator
	Directive string
	Combine   combine.Options
	// MemberWait bounds how long an end directive waits for members that
	// are still being evaluated on other goroutines. Zero does not wait.
	MemberWait time.Duration
}

type sourceMarker struct {
	Action string
	ID     int
}

type span struct {
	id    int
	start int
	end   int
}

// sourceState is the per-document state, attached under the parser.
type sourceState struct {
	mu     sync.Mutex
	spans  []span
	groups map[int]*sourceGroup
}

type sourceGroup struct {
	mu      sync.Mutex
	members []*document.Example
	added   chan struct{}
	done    bool
}

// Parse pairs the directives found by the lexers into groups and installs
// the parser as an interceptor on d.
func (p *SourceParser) Parse(d *document.Document) ([]*document.Region, error) {
	lexed, err := document.LexAll(d, p.Lexers...)
	if err != nil {
		return nil, err
	}
	actions := make([]string, len(lexed))
	for i, r := range lexed {
		if actions[i], err = Action(r, p.Directive, "start", "end"); err != nil {
			return nil, err
		}
	}
	if len(lexed) == 0 {
		return nil, nil
	}

	st := &sourceState{groups: make(map[int]*sourceGroup)}
	regions := make([]*document.Region, 0, len(lexed))
	for i, id := 0, 0; i < len(lexed); i, id = i+2, id+1 {
		if actions[i] != "start" {
			return nil, fmt.Errorf("'%s: %s' must follow '%s: start'", p.Directive, actions[i], p.Directive)
		}
		if i+1 >= len(lexed) || actions[i+1] != "end" {
			return nil, fmt.Errorf("'%s: start' was not followed by '%s: end'", p.Directive, p.Directive)
		}
		open, end := lexed[i], lexed[i+1]
		st.spans = append(st.spans, span{id: id, start: open.Start, end: end.End})
		st.groups[id] = &sourceGroup{added: make(chan struct{})}
		regions = append(regions,
			&document.Region{Start: open.Start, End: open.End, Lexemes: open.Lexemes,
				Parsed: sourceMarker{Action: "start", ID: id}, Evaluator: p},
			&document.Region{Start: end.Start, End: end.End, Lexemes: end.Lexemes,
				Parsed: sourceMarker{Action: "end", ID: id}, Evaluator: p},
		)
	}

	d.Attach(p, st)
	d.Push(p)
	return regions, nil
}

// Intercept collects source examples that lie strictly inside a registered
// group and handles the parser's own directives.
func (p *SourceParser) Intercept(ctx context.Context, ex *document.Example) (document.Outcome, error) {
	if ex.Region.Evaluator == p {
		return document.Handled, p.Evaluate(ctx, ex)
	}
	st := p.state(ex.Document)
	if st == nil || !ex.Region.HasSource() {
		return document.NotApplicable, nil
	}
	g := st.containing(ex.Region.Start)
	if g == nil {
		return document.NotApplicable, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return document.NotApplicable, nil
	}
	g.members = append(g.members, ex)
	close(g.added)
	g.added = make(chan struct{})
	return document.Handled, nil
}

// Evaluate handles a group directive. An end directive evaluates the group's
// combined example and then drops the group.
func (p *SourceParser) Evaluate(ctx context.Context, ex *document.Example) error {
	m, ok := ex.Region.Parsed.(sourceMarker)
	if !ok || m.Action != "end" {
		return nil
	}
	st := p.state(ex.Document)
	if st == nil {
		return nil
	}
	g := st.group(m.ID)
	if g == nil {
		return nil
	}
	defer p.cleanup(ex.Document, st, m.ID)

	p.waitForMembers(ctx, ex.Document, st, g, m.ID)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.done = true
	if len(g.members) == 0 {
		return nil
	}
	combined, err := combine.Example(sortByStart(g.members), p.Evaluator, p.Combine)
	if err != nil {
		return err
	}
	log.Debug().Str("path", ex.Document.Path).Int("line", combined.Line).
		Int("members", len(g.members)).Str("directive", p.Directive).Msg("evaluating group")
	return p.Evaluator.Evaluate(ctx, combined)
}

func (p *SourceParser) waitForMembers(ctx context.Context, d *document.Document, st *sourceState, g *sourceGroup, id int) {
	if p.MemberWait <= 0 {
		return
	}
	sp, ok := st.span(id)
	if !ok {
		return
	}
	timer := time.NewTimer(p.MemberWait)
	defer timer.Stop()
	for {
		claims := d.Claims()
		expected := 0
		for _, other := range d.Examples() {
			if !other.Region.HasSource() || other.Region.Start <= sp.start || other.Region.Start >= sp.end {
				continue
			}
			// Blocks another interceptor handled, such as skipped ones, never join.
			if ic, ok := d.ClaimedBy(other); ok && ic != document.Interceptor(p) {
				continue
			}
			expected++
		}
		g.mu.Lock()
		n, added := len(g.members), g.added
		g.mu.Unlock()
		if n >= expected {
			return
		}
		select {
		case <-added:
		case <-claims:
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *SourceParser) cleanup(d *document.Document, st *sourceState, id int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.groups, id)
	kept := st.spans[:0]
	for _, sp := range st.spans {
		if sp.id != id {
			kept = append(kept, sp)
		}
	}
	st.spans = kept
	if len(st.groups) == 0 {
		d.Detach(p)
		d.Remove(p)
	}
}

func (p *SourceParser) state(d *document.Document) *sourceState {
	v, ok := d.Attachment(p)
	if !ok {
		return nil
	}
	return v.(*sourceState)
}

func (st *sourceState) containing(pos int) *sourceGroup {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, sp := range st.spans {
		if sp.start < pos && pos < sp.end {
			return st.groups[sp.id]
		}
	}
	return nil
}

func (st *sourceState) group(id int) *sourceGroup {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.groups[id]
}

func (st *sourceState) span(id int) (span, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, sp := range st.spans {
		if sp.id == id {
			return sp, true
		}
	}
	return span{}, false
}
