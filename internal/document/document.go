// Package document holds a source file's text, the regions parsed out of
// it, and the examples evaluated against it.
package document

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jorge-barreto/doccmd/internal/atomicfile"
	"github.com/jorge-barreto/doccmd/internal/position"
)

// Parser finds regions in a document.
type Parser interface {
	Parse(d *Document) ([]*Region, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(d *Document) ([]*Region, error)

func (f ParserFunc) Parse(d *Document) ([]*Region, error) {
	return f(d)
}

// Lexer finds raw markup constructs. Its regions carry lexemes but no
// evaluator; parsers decide how they are evaluated.
type Lexer interface {
	Lex(d *Document) ([]*Region, error)
}

// LexerFunc adapts a function to Lexer.
type LexerFunc func(d *Document) ([]*Region, error)

func (f LexerFunc) Lex(d *Document) ([]*Region, error) {
	return f(d)
}

// LexAll runs every lexer and returns their regions in source order.
func LexAll(d *Document, lexers ...Lexer) ([]*Region, error) {
	var regions []*Region
	for _, lx := range lexers {
		found, err := lx.Lex(d)
		if err != nil {
			return nil, err
		}
		regions = append(regions, found...)
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	return regions, nil
}

// Outcome is the result of offering an example to an Interceptor.
type Outcome int

const (
	// NotApplicable passes the example on to the next handler.
	NotApplicable Outcome = iota
	// Handled claims the example.
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "not applicable"
}

// Interceptor is offered every example of a document before the example's
// own evaluator runs. A non-nil error means the example was claimed and
// failed.
type Interceptor interface {
	Intercept(ctx context.Context, ex *Example) (Outcome, error)
}

// ParseError is returned when a document cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Edit replaces Len bytes at At with Text.
type Edit struct {
	At   int
	Len  int
	Text string
}

// Apply returns s with the edit applied.
func (e Edit) Apply(s string) string {
	return s[:e.At] + e.Text + s[e.At+e.Len:]
}

// Document is one source file. Text changes as examples are written back;
// region offsets always refer to the text as it was parsed.
//
// Namespace is shared by every example of the document and is not guarded;
// evaluators touching it must not run concurrently.
type Document struct {
	Path      string
	Namespace map[string]any

	original string
	index    *position.Index
	examples []*Example

	mu           sync.Mutex
	text         string
	edits        []Edit
	interceptors []Interceptor
	attachments  map[any]any
	claims       map[*Example]Interceptor
	claimed      chan struct{}
}

// New returns a document for text that lives at path.
func New(path, text string) *Document {
	return &Document{
		Path:        path,
		Namespace:   make(map[string]any),
		original:    text,
		index:       position.New(text),
		text:        text,
		attachments: make(map[any]any),
		claims:      make(map[*Example]Interceptor),
		claimed:     make(chan struct{}),
	}
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, string(data)), nil
}

// Original returns the text the document was parsed from.
func (d *Document) Original() string {
	return d.original
}

// Index returns the line index of the original text.
func (d *Document) Index() *position.Index {
	return d.index
}

// Text returns the current text, including any write-backs.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Parse runs parsers over the document and builds its examples in source
// order. Overlapping regions are an error.
func (d *Document) Parse(parsers ...Parser) error {
	var regions []*Region
	for _, p := range parsers {
		found, err := p.Parse(d)
		if err != nil {
			return &ParseError{Path: d.Path, Err: err}
		}
		regions = append(regions, found...)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if cur.Start < prev.End {
			return &ParseError{Path: d.Path, Err: fmt.Errorf(
				"region at line %d overlaps region at line %d",
				d.index.LineAt(cur.Start), d.index.LineAt(prev.Start))}
		}
	}

	d.examples = make([]*Example, 0, len(regions))
	for _, r := range regions {
		d.examples = append(d.examples, &Example{
			Document: d,
			Region:   r,
			Line:     d.index.LineAt(r.Start),
			Column:   d.index.ColumnAt(r.Start),
		})
	}
	return nil
}

// Examples returns the examples built by Parse, in source order.
func (d *Document) Examples() []*Example {
	return d.examples
}

// Push installs an interceptor above those already installed.
func (d *Document) Push(ic Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interceptors = append(d.interceptors, ic)
}

// Remove uninstalls the topmost occurrence of ic. It reports whether ic was
// installed.
func (d *Document) Remove(ic Interceptor) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.interceptors) - 1; i >= 0; i-- {
		if d.interceptors[i] == ic {
			d.interceptors = append(d.interceptors[:i], d.interceptors[i+1:]...)
			return true
		}
	}
	return false
}

// Evaluate offers ex to the installed interceptors, newest first, and falls
// back to the region's own evaluator when none claims it.
func (d *Document) Evaluate(ctx context.Context, ex *Example) error {
	d.mu.Lock()
	chain := make([]Interceptor, len(d.interceptors))
	copy(chain, d.interceptors)
	d.mu.Unlock()

	for i := len(chain) - 1; i >= 0; i-- {
		outcome, err := chain[i].Intercept(ctx, ex)
		if err != nil {
			return err
		}
		if outcome == Handled {
			d.claim(ex, chain[i])
			return nil
		}
	}
	if ex.Region.Evaluator == nil {
		return nil
	}
	return ex.Region.Evaluator.Evaluate(ctx, ex)
}

func (d *Document) claim(ex *Example, ic Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims[ex] = ic
	close(d.claimed)
	d.claimed = make(chan struct{})
}

// ClaimedBy returns the interceptor that handled ex, if one has.
func (d *Document) ClaimedBy(ex *Example) (Interceptor, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ic, ok := d.claims[ex]
	return ic, ok
}

// Claims returns a channel that is closed the next time an interceptor
// handles an example.
func (d *Document) Claims() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.claimed
}

// Attach stores state owned by key on the document.
func (d *Document) Attach(key, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attachments[key] = value
}

// Attachment returns the state stored under key.
func (d *Document) Attachment(key any) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.attachments[key]
	return v, ok
}

// Detach drops the state stored under key.
func (d *Document) Detach(key any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.attachments, key)
}

// CurrentOffset maps an offset in the original text onto the current text.
// Offsets inside a replaced span map to the start of its replacement.
func (d *Document) CurrentOffset(original int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentOffset(original)
}

func (d *Document) currentOffset(pos int) int {
	for _, e := range d.edits {
		switch {
		case pos >= e.At+e.Len:
			pos += len(e.Text) - e.Len
		case pos > e.At:
			pos = e.At
		}
	}
	return pos
}

// Update computes an edit against the current text and, when it changes the
// text, writes the result to disk before adopting it. fn receives the
// current text and a mapper from original to current offsets; a nil edit
// means no change. Update reports whether the document changed.
func (d *Document) Update(fn func(current string, offset func(int) int) (*Edit, error)) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := fn(d.text, d.currentOffset)
	if err != nil || e == nil {
		return false, err
	}
	updated := e.Apply(d.text)
	if updated == d.text {
		return false, nil
	}
	if err := d.persist(updated); err != nil {
		return false, fmt.Errorf("writing %s: %w", d.Path, err)
	}
	d.text = updated
	d.edits = append(d.edits, *e)
	return true, nil
}

func (d *Document) persist(text string) error {
	if d.Path == "" {
		return nil
	}
	return atomicfile.Write(d.Path, []byte(text), 0o644)
}
