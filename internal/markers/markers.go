// Package markers inserts and recovers comment delimiters around the blocks
// of a combined group so that a tool may reformat the group as one file and
// each block can still be written back on its own.
package markers

import (
	"fmt"
	"sort"
	"strings"
)

// Delimiters holds the start and end templates. Each template carries one
// %d verb for the zero-based block index.
type Delimiters struct {
	StartTemplate string
	EndTemplate   string
}

// StartMarker returns the start delimiter line for block i.
func (d Delimiters) StartMarker(i int) string {
	return fmt.Sprintf(d.StartTemplate, i)
}

// EndMarker returns the end delimiter line for block i.
func (d Delimiters) EndMarker(i int) string {
	return fmt.Sprintf(d.EndTemplate, i)
}

// BlockPosition locates one block inside combined text, in 0-indexed,
// end-exclusive line coordinates.
type BlockPosition struct {
	StartLine  int
	EndLine    int
	BlockIndex int
}

// Error reports a malformed marker sequence.
type Error struct {
	Line  int // 1-based, 0 when the error is not tied to a line
	Block int
	Msg   string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

var commentStyles = map[string]string{
	"python":     "#",
	"ruby":       "#",
	"bash":       "#",
	"shell":      "#",
	"sh":         "#",
	"perl":       "#",
	"r":          "#",
	"yaml":       "#",
	"dockerfile": "#",
	"makefile":   "#",
	"javascript": "//",
	"typescript": "//",
	"java":       "//",
	"c":          "//",
	"cpp":        "//",
	"cxx":        "//",
	"c++":        "//",
	"cs":         "//",
	"csharp":     "//",
	"go":         "//",
	"rust":       "//",
	"swift":      "//",
	"kotlin":     "//",
	"scala":      "//",
	"php":        "//",
	"lua":        "--",
	"sql":        "--",
	"haskell":    "--",
	"elm":        "--",
	"html":       "<!--",
	"xml":        "<!--",
}

// SupportedLanguages returns the sorted language names ForLanguage accepts.
func SupportedLanguages() []string {
	names := make([]string, 0, len(commentStyles))
	for name := range commentStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForLanguage returns comment-based delimiters for a language name.
// The lookup is case-insensitive.
func ForLanguage(language string) (Delimiters, error) {
	lower := strings.ToLower(language)
	comment, ok := commentStyles[lower]
	if !ok {
		return Delimiters{}, fmt.Errorf("Language '%s' is not supported. Supported languages: %s",
			language, strings.Join(SupportedLanguages(), ", "))
	}
	suffix := ""
	if lower == "html" || lower == "xml" {
		suffix = " -->"
	}
	return Delimiters{
		StartTemplate: comment + " doccmd-group-delimiter: start-block-%d" + suffix,
		EndTemplate:   comment + " doccmd-group-delimiter: end-block-%d" + suffix,
	}, nil
}

// Insert wraps each positioned block of source in its start and end marker
// lines. Positions must be sorted, non-overlapping and within source.
func Insert(source string, positions []BlockPosition, d Delimiters) (string, error) {
	lines := SplitLines(source)
	var b strings.Builder
	b.Grow(len(source) + len(positions)*2*len(d.StartTemplate))

	current := 0
	for _, p := range positions {
		if p.StartLine < current || p.EndLine < p.StartLine || p.EndLine > len(lines) {
			return "", fmt.Errorf("block %d at lines [%d, %d) is out of order or out of range",
				p.BlockIndex, p.StartLine, p.EndLine)
		}
		for ; current < p.StartLine; current++ {
			b.WriteString(lines[current])
		}
		b.WriteString(d.StartMarker(p.BlockIndex))
		b.WriteByte('\n')
		for ; current < p.EndLine; current++ {
			b.WriteString(lines[current])
		}
		if p.EndLine > p.StartLine && !strings.HasSuffix(lines[p.EndLine-1], "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(d.EndMarker(p.BlockIndex))
		b.WriteByte('\n')
	}
	for ; current < len(lines); current++ {
		b.WriteString(lines[current])
	}
	return b.String(), nil
}

// Extract recovers the blocks of marked text. Block indices must appear in
// order from 0; lines outside any block are dropped.
func Extract(marked string, d Delimiters) ([]string, error) {
	var (
		blocks   []string
		current  strings.Builder
		inside   bool
		expected int
	)
	for i, line := range SplitLines(marked) {
		lineNum := i + 1
		stripped := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		if stripped == d.StartMarker(expected) {
			if inside {
				return nil, &Error{Line: lineNum, Block: expected,
					Msg: fmt.Sprintf("Found start marker while already inside block %d", expected)}
			}
			inside = true
			current.Reset()
			continue
		}
		if stripped == d.EndMarker(expected) {
			if !inside {
				return nil, &Error{Line: lineNum, Block: expected,
					Msg: fmt.Sprintf("Found end marker without matching start marker for block %d", expected)}
			}
			blocks = append(blocks, current.String())
			current.Reset()
			inside = false
			expected++
			continue
		}
		if inside {
			current.WriteString(line)
		}
	}
	if inside {
		return nil, &Error{Block: expected,
			Msg: fmt.Sprintf("Unclosed block %d: missing end marker", expected)}
	}
	return blocks, nil
}

// Validate reports whether marked extracts cleanly into exactly want blocks.
func Validate(marked string, d Delimiters, want int) bool {
	blocks, err := Extract(marked, d)
	return err == nil && len(blocks) == want
}

// SplitLines splits text after each '\n', keeping the terminators. A final
// line without a terminator is kept; an empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
