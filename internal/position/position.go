// Package position maps between line numbers and byte offsets of a text.
package position

import (
	"sort"
	"strings"
)

// LineOffsets returns the byte offset at which each line of text begins.
// offsets[0] is always 0 and there is one entry per '\n' plus one.
func LineOffsets(text string) []int {
	offsets := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// Index answers repeated line/offset lookups for one text.
type Index struct {
	offsets []int
	size    int
}

// New builds an Index for text.
func New(text string) *Index {
	return &Index{offsets: LineOffsets(text), size: len(text)}
}

// Lines returns the number of line starts in the text.
func (ix *Index) Lines() int {
	return len(ix.offsets)
}

// Offset returns the offset where the 0-indexed line begins. Lines past the
// end map to the end of the text.
func (ix *Index) Offset(line int) int {
	switch {
	case line <= 0:
		return 0
	case line >= len(ix.offsets):
		return ix.size
	}
	return ix.offsets[line]
}

// Span converts the 0-indexed, end-exclusive line range [startLine, endLine)
// into a byte range.
func (ix *Index) Span(startLine, endLine int) (start, end int) {
	return ix.Offset(startLine), ix.Offset(endLine)
}

// LineAt returns the 1-based line containing offset.
func (ix *Index) LineAt(offset int) int {
	return sort.Search(len(ix.offsets), func(i int) bool {
		return ix.offsets[i] > offset
	})
}

// ColumnAt returns the 1-based byte column of offset within its line.
func (ix *Index) ColumnAt(offset int) int {
	line := ix.LineAt(offset)
	return offset - ix.offsets[line-1] + 1
}
