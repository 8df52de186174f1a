package group

import (
	"context"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
)

// DefaultAttribute is the code block attribute AttributeParser groups by.
const DefaultAttribute = "group"

// AttributeParser groups code blocks that share a value of an attribute,
// such as group="setup" on an MDX fence. Each group becomes one example at
// the position of its first block; blocks without the attribute are left
// out.
type AttributeParser struct {
	Lexers    []document.Lexer
	Evaluator document.Evaluator
	Attribute string
	Combine   combine.Options
}

type attributeGroup struct {
	parser  *AttributeParser
	members []*document.Example
}

func (p *AttributeParser) attribute() string {
	if p.Attribute == "" {
		return DefaultAttribute
	}
	return p.Attribute
}

// Parse lexes code blocks and returns one region per attribute value, in
// order of each group's first block.
func (p *AttributeParser) Parse(d *document.Document) ([]*document.Region, error) {
	lexed, err := document.LexAll(d, p.Lexers...)
	if err != nil {
		return nil, err
	}
	var order []string
	byName := make(map[string][]*document.Example)
	ix := d.Index()
	for _, r := range lexed {
		name := r.Attributes()[p.attribute()]
		if name == "" || !r.HasSource() {
			continue
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], &document.Example{
			Document: d,
			Region:   r,
			Line:     ix.LineAt(r.Start),
			Column:   ix.ColumnAt(r.Start),
		})
	}

	regions := make([]*document.Region, 0, len(order))
	for _, name := range order {
		members := byName[name]
		parsed, _, err := combine.Lexeme(members, p.Combine)
		if err != nil {
			return nil, err
		}
		first := members[0].Region
		regions = append(regions, &document.Region{
			Start:     first.Start,
			End:       first.End,
			Parsed:    parsed,
			Lexemes:   first.Lexemes,
			Evaluator: &attributeGroup{parser: p, members: members},
		})
	}
	return regions, nil
}

func (g *attributeGroup) Evaluate(ctx context.Context, _ *document.Example) error {
	combined, err := combine.Example(g.members, g.parser.Evaluator, g.parser.Combine)
	if err != nil {
		return err
	}
	return g.parser.Evaluator.Evaluate(ctx, combined)
}
