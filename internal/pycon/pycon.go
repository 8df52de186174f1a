// Package pycon converts between interactive Python transcripts and plain
// Python source, keeping the transcript's output lines across a round trip.
package pycon

import (
	"fmt"
	"strings"
)

const (
	primary   = ">>>"
	secondary = "..."
)

// InvalidTranscriptError is returned for transcripts with content before
// their first prompt.
type InvalidTranscriptError struct {
	Line int
	Text string
}

func (e *InvalidTranscriptError) Error() string {
	return fmt.Sprintf("invalid pycon transcript: line %d comes before the first prompt: %q", e.Line, e.Text)
}

// Chunk is one interaction: the input lines with prompts removed and the
// output printed after them.
type Chunk struct {
	Input  []string
	Output []string
}

// Transcript is a parsed interactive session.
type Transcript struct {
	Chunks []Chunk
}

// splitLines splits s after every newline. A trailing newline does not
// start another line.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func bare(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// input returns the code of a prompt line and whether line has prompt.
func input(line, prompt string) (string, bool) {
	switch {
	case bare(line) == prompt:
		return "\n", true
	case strings.HasPrefix(line, prompt+" "):
		return line[len(prompt)+1:], true
	}
	return "", false
}

// ToPython strips the prompts from a transcript and drops its output.
// Blank lines may come before the first prompt; anything else is an
// *InvalidTranscriptError.
func ToPython(transcript string) (string, error) {
	var b strings.Builder
	started := false
	for i, line := range splitLines(transcript) {
		if code, ok := input(line, primary); ok {
			started = true
			b.WriteString(code)
			continue
		}
		if !started {
			if strings.TrimSpace(line) != "" {
				return "", &InvalidTranscriptError{Line: i + 1, Text: bare(line)}
			}
			continue
		}
		if code, ok := input(line, secondary); ok {
			b.WriteString(code)
		}
	}
	return b.String(), nil
}

// ParseTranscript splits a transcript into chunks. Lines before the first
// prompt are ignored.
func ParseTranscript(text string) Transcript {
	var t Transcript
	var cur *Chunk
	for _, line := range splitLines(text) {
		if code, ok := input(line, primary); ok {
			if cur != nil {
				t.Chunks = append(t.Chunks, *cur)
			}
			cur = &Chunk{Input: []string{code}}
			continue
		}
		if cur == nil {
			continue
		}
		if code, ok := input(line, secondary); ok {
			cur.Input = append(cur.Input, code)
			continue
		}
		cur.Output = append(cur.Output, line)
	}
	if cur != nil {
		t.Chunks = append(t.Chunks, *cur)
	}
	return t
}

func withPrompt(prompt, line string) string {
	if line == "" || line == "\n" || line == "\r\n" {
		return prompt + line
	}
	return prompt + " " + line
}

func isSeparator(group []string) bool {
	for _, line := range group {
		if b := bare(line); b != primary && b != secondary {
			return false
		}
	}
	return true
}

// FromPython puts prompts back on python: the first line of every
// top-level statement gets ">>> ", its other lines "... ", and a blank
// line right after a "... " line stays a bare "...". Lines outside any
// statement get ">>> ".
//
// Output lines of original are put back after their statements when the
// statements line up with original's chunks, either all of them or those
// that are more than a bare prompt. Otherwise output is dropped. When
// python does not parse, every line gets ">>> ".
func FromPython(python, original string) string {
	if python == "" {
		return ""
	}
	lines := splitLines(python)
	stmts, err := statements(lines)
	if err != nil {
		var b strings.Builder
		for _, line := range lines {
			b.WriteString(primary + " " + line)
		}
		return b.String()
	}

	continuation := make(map[int]bool)
	for _, s := range stmts {
		for i := s[0] + 1; i <= s[1]; i++ {
			continuation[i] = true
		}
	}

	var groups [][]string
	for i, line := range lines {
		switch {
		case continuation[i]:
			groups[len(groups)-1] = append(groups[len(groups)-1], withPrompt(secondary, line))
		case len(groups) > 0 && bare(line) == "" && lastStartsWith(groups, secondary+" "):
			groups[len(groups)-1] = append(groups[len(groups)-1], withPrompt(secondary, line))
		default:
			groups = append(groups, []string{withPrompt(primary, line)})
		}
	}

	chunks := ParseTranscript(original).Chunks
	chunkFor := make([]int, len(groups))
	for i := range chunkFor {
		chunkFor[i] = -1
	}
	if len(groups) == len(chunks) {
		for i := range chunkFor {
			chunkFor[i] = i
		}
	} else {
		var substantive []int
		for i, g := range groups {
			if !isSeparator(g) {
				substantive = append(substantive, i)
			}
		}
		if len(substantive) == len(chunks) {
			for c, g := range substantive {
				chunkFor[g] = c
			}
		}
	}

	var b strings.Builder
	for i, g := range groups {
		for _, line := range g {
			b.WriteString(line)
		}
		if c := chunkFor[i]; c >= 0 {
			for _, line := range chunks[c].Output {
				b.WriteString(line)
			}
		}
	}
	return b.String()
}

func lastStartsWith(groups [][]string, prefix string) bool {
	g := groups[len(groups)-1]
	return strings.HasPrefix(g[len(g)-1], prefix)
}
