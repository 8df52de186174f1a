// Package group combines code blocks into groups that are evaluated as one
// example: between start and end directives, across a whole document, or by
// a shared attribute.
package group

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/document"
)

// Action returns the argument of a directive region after checking it is one
// of allowed. fallback names the directive when the region does not.
func Action(r *document.Region, fallback string, allowed ...string) (string, error) {
	directive := r.String("directive")
	if directive == "" {
		directive = fallback
	}
	args := strings.TrimSpace(r.String("arguments"))
	if args == "" {
		return "", fmt.Errorf("missing arguments to %s", directive)
	}
	if !slices.Contains(allowed, args) {
		return "", fmt.Errorf("malformed arguments to %s: '%s'", directive, args)
	}
	return args, nil
}

func sortByStart(examples []*document.Example) []*document.Example {
	sorted := slices.Clone(examples)
	slices.SortStableFunc(sorted, func(a, b *document.Example) int {
		return a.Region.Start - b.Region.Start
	})
	return sorted
}
