// Package splice writes rewritten code back into the document it came
// from, one block at a time.
package splice

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/document"
)

// EmptyBlockError is returned when new content is written into a block
// that was empty: with no existing line there is no indentation to copy.
type EmptyBlockError struct {
	Path string
	Line int
}

func (e *EmptyBlockError) Error() string {
	return fmt.Sprintf("Cannot replace empty code block in %s on line %d. "+
		"Replacing empty code blocks is not supported as we cannot determine the indentation.",
		filepath.ToSlash(e.Path), e.Line)
}

// Indentation returns the prefix the markup puts in front of the block's
// lines: the text before the block's first line on the first region line
// that holds it, less the first line's own indentation. Only whitespace
// and block quote markers count as prefix.
func Indentation(regionText, parsed string) string {
	first, _, _ := strings.Cut(parsed, "\n")
	trimmed := strings.TrimLeft(first, " \t")
	if trimmed == "" {
		return ""
	}
	own := len(first) - len(trimmed)
	for _, line := range strings.Split(regionText, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasSuffix(line, trimmed) {
			continue
		}
		prefix := line[:len(line)-len(trimmed)]
		if strings.TrimLeft(prefix, " \t>") != "" {
			continue
		}
		if own > len(prefix) {
			return ""
		}
		return prefix[:len(prefix)-own]
	}
	return ""
}

// Indent puts prefix in front of every non-blank line of text. Inside a
// block quote, blank lines keep the quote markers.
func Indent(text, prefix string) string {
	if prefix == "" {
		return text
	}
	blank := ""
	if strings.Contains(prefix, ">") {
		blank = strings.TrimRight(prefix, " \t")
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if strings.TrimSpace(line) == "" {
			b.WriteString(blank)
		} else {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}

// LStripNewlines removes at most n leading newlines from s.
func LStripNewlines(s string, n int) string {
	i := 0
	for i < len(s) && i < n && s[i] == '\n' {
		i++
	}
	return s[i:]
}

// Replace returns the edit that swaps the first occurrence of old at or
// after from in text for replacement, or nil when old does not occur there.
func Replace(text string, from int, old, replacement string) *document.Edit {
	if from > len(text) {
		return nil
	}
	i := strings.Index(text[from:], old)
	if i < 0 {
		return nil
	}
	return &document.Edit{At: from + i, Len: len(old), Text: replacement}
}

// Write replaces the code of ex in its document with content. strip is the
// number of newlines of padding content may start with; they are dropped.
// It reports whether the document changed.
//
// The block is found by its original text, indented as the markup indents
// it, searching from where the block's region starts in the current text.
func Write(ex *document.Example, content string, strip int) (bool, error) {
	return Rewrite(ex, ex.Parsed().Text, content, strip)
}

// Rewrite is Write for a block whose text in the document is old rather
// than the example's parsed text.
func Rewrite(ex *document.Example, old, content string, strip int) (bool, error) {
	d := ex.Document
	content = LStripNewlines(strings.TrimRight(content, "\n"), strip)

	if old == "" {
		if content == "" {
			return false, nil
		}
		return false, &EmptyBlockError{Path: d.Path, Line: ex.Line}
	}

	region := ex.Region
	indent := Indentation(d.Original()[region.Start:region.End], old)
	existing := strings.TrimRight(Indent(old, indent), "\n")
	replacement := Indent(content, indent)

	changed, err := d.Update(func(current string, offset func(int) int) (*document.Edit, error) {
		e := Replace(current, offset(region.Start), existing, replacement)
		if e == nil {
			log.Debug().Str("path", d.Path).Int("line", ex.Line).Msg("block not found for write-back")
		}
		return e, nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		log.Debug().Str("path", d.Path).Int("line", ex.Line).Msg("wrote block back")
	}
	return changed, nil
}
