package pycon

import (
	"errors"
	"fmt"
	"strings"
)

// logicalLine is one Python logical line: physical lines joined by open
// brackets, multi-line strings or backslashes.
type logicalLine struct {
	first, last int
	indent      int
	// blank is set for lines holding nothing but whitespace and comments.
	blank bool
	// colon is set when the last token is a ':' outside any bracket.
	colon bool
	head  string
}

var errSyntax = errors.New("invalid python")

func syntaxError(line int, msg string) error {
	return fmt.Errorf("%w: line %d: %s", errSyntax, line+1, msg)
}

// logicalLines scans lines, each of which keeps its line ending.
func logicalLines(lines []string) ([]logicalLine, error) {
	var out []logicalLine
	var cur *logicalLine
	depth := 0
	quote := ""
	var last byte

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		if cur == nil {
			trimmed := strings.TrimLeft(line, " \t")
			cur = &logicalLine{first: i, indent: len(line) - len(trimmed), blank: true, head: trimmed}
			last = 0
		}
		continued := false

	scan:
		for j := 0; j < len(line); j++ {
			c := line[j]
			if quote != "" {
				switch {
				case c == '\\':
					if j == len(line)-1 {
						continued = true
					}
					j++
				case strings.HasPrefix(line[j:], quote):
					j += len(quote) - 1
					quote = ""
					last = c
				}
				continue
			}
			switch c {
			case ' ', '\t', '\f':
				continue
			case '#':
				break scan
			case '\\':
				if j == len(line)-1 {
					continued = true
					continue
				}
				return nil, syntaxError(i, "unexpected character after line continuation")
			case '\'', '"':
				quote = string(c)
				if strings.HasPrefix(line[j:], strings.Repeat(string(c), 3)) {
					quote = strings.Repeat(string(c), 3)
					j += 2
				}
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth < 0 {
					return nil, syntaxError(i, "unmatched '"+string(c)+"'")
				}
			}
			cur.blank = false
			last = c
		}

		if len(quote) == 1 && !continued {
			return nil, syntaxError(i, "unterminated string literal")
		}
		if depth > 0 || quote != "" || continued {
			continue
		}
		cur.last = i
		cur.colon = last == ':'
		out = append(out, *cur)
		cur = nil
	}
	if cur != nil {
		return nil, syntaxError(cur.first, "unexpected end of input")
	}
	return out, nil
}

func isClause(head string) bool {
	word := head
	if i := strings.IndexFunc(head, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}); i >= 0 {
		word = head[:i]
	}
	switch word {
	case "elif", "else", "except", "finally":
		return true
	}
	return false
}

// statements returns the first and last physical line, both 0-based and
// inclusive, of every top-level statement. Decorators belong to the
// statement they decorate; a compound statement runs to the last line of
// its final clause's body.
func statements(lines []string) ([][2]int, error) {
	lls, err := logicalLines(lines)
	if err != nil {
		return nil, err
	}

	var stmts [][2]int
	for i := 0; i < len(lls); {
		ll := lls[i]
		if ll.blank {
			i++
			continue
		}
		if ll.indent > 0 {
			return nil, syntaxError(ll.first, "unexpected indent")
		}
		if isClause(ll.head) {
			return nil, syntaxError(ll.first, "clause without a statement")
		}
		end, next, err := extent(lls, i)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, [2]int{ll.first, end})
		i = next
	}
	return stmts, nil
}

func nextNonBlank(lls []logicalLine, k int) int {
	for k < len(lls) && lls[k].blank {
		k++
	}
	return k
}

// extent finds where the statement starting at logical line i ends. It
// returns the last physical line and the next logical line to look at.
func extent(lls []logicalLine, i int) (int, int, error) {
	cur := lls[i]
	next := i + 1
	for strings.HasPrefix(cur.head, "@") {
		k := nextNonBlank(lls, next)
		if k == len(lls) || lls[k].indent > 0 {
			return 0, 0, syntaxError(cur.last, "decorator without a definition")
		}
		cur = lls[k]
		next = k + 1
	}
	end := cur.last
	if !cur.colon {
		return end, next, nil
	}

	for {
		lastBody := -1
		k := next
		for ; k < len(lls); k++ {
			if lls[k].blank {
				continue
			}
			if lls[k].indent == 0 {
				break
			}
			lastBody = k
		}
		if lastBody < 0 {
			return 0, 0, syntaxError(end, "expected an indented block")
		}
		end = lls[lastBody].last
		next = lastBody + 1

		k = nextNonBlank(lls, next)
		if k < len(lls) && lls[k].indent == 0 && isClause(lls[k].head) && lls[k].colon {
			end = lls[k].last
			next = k + 1
			continue
		}
		return end, next, nil
	}
}
