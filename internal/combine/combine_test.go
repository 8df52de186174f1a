package combine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/markers"
)

const rest = `.. code-block:: python

   x = []

.. group: start

.. code-block:: python

   x = [*x, 1]

.. code-block:: python

   x = [*x, 2]

.. group: end
`

// blocks parses every ".. code-block::" directive of text into an example
// whose payload is its dedented body.
func blocks(t *testing.T, text string) []*document.Example {
	t.Helper()
	d := document.New("doc.rst", text)
	parser := document.ParserFunc(func(d *document.Document) ([]*document.Region, error) {
		var regions []*document.Region
		src := d.Original()
		for from := 0; ; {
			i := strings.Index(src[from:], ".. code-block::")
			if i < 0 {
				return regions, nil
			}
			start := from + i
			bodyStart := strings.Index(src[start:], "\n\n") + start + 2
			bodyEnd := strings.Index(src[bodyStart:], "\n\n")
			if bodyEnd < 0 {
				bodyEnd = len(src) - bodyStart
			}
			bodyEnd += bodyStart + 1
			body := strings.ReplaceAll(src[bodyStart:bodyEnd], "   ", "")
			lex := document.Lexeme{Text: body, Offset: bodyStart - start, LineOffset: 2}
			regions = append(regions, &document.Region{
				Start:   start,
				End:     bodyEnd,
				Parsed:  lex,
				Lexemes: map[string]any{"source": lex, "language": "python"},
			})
			from = bodyEnd
		}
	})
	require.NoError(t, d.Parse(parser))
	return d.Examples()
}

func TestLexeme_Padded(t *testing.T) {
	examples := blocks(t, rest)
	require.Len(t, examples, 3)

	got, positions, err := Lexeme(examples[1:], Options{Pad: true})
	require.NoError(t, err)
	require.Equal(t, "x = [*x, 1]\n\n\n\nx = [*x, 2]\n", got.Text)
	require.Equal(t, 2, got.LineOffset)
	require.Equal(t, []markers.BlockPosition{
		{StartLine: 0, EndLine: 1, BlockIndex: 0},
		{StartLine: 4, EndLine: 5, BlockIndex: 1},
	}, positions)

	// line k of the combined text is line first+k of the document
	docLines := strings.Split(rest, "\n")
	first := examples[1].Line + got.LineOffset - 1
	for k, line := range strings.Split(strings.TrimSuffix(got.Text, "\n"), "\n") {
		if line != "" {
			require.Equal(t, line, strings.TrimSpace(docLines[first+k]))
		}
	}
}

func TestLexeme_Unpadded(t *testing.T) {
	examples := blocks(t, rest)

	got, _, err := Lexeme(examples[1:], Options{})
	require.NoError(t, err)
	require.Equal(t, "x = [*x, 1]\n\nx = [*x, 2]\n", got.Text)

	got, _, err = Lexeme(examples[1:], Options{Separator: 3})
	require.NoError(t, err)
	require.Equal(t, "x = [*x, 1]\n\n\n\nx = [*x, 2]\n", got.Text)
}

func TestLexeme_SingleMemberUnchanged(t *testing.T) {
	examples := blocks(t, rest)
	got, _, err := Lexeme(examples[:1], Options{Pad: true})
	require.NoError(t, err)
	require.Equal(t, examples[0].Parsed(), got)
}

func TestLexeme_WithDelimiters(t *testing.T) {
	examples := blocks(t, rest)
	d, err := markers.ForLanguage("python")
	require.NoError(t, err)

	got, _, err := Lexeme(examples[1:], Options{Delimiters: &d})
	require.NoError(t, err)
	require.Equal(t,
		"# doccmd-group-delimiter: start-block-0\nx = [*x, 1]\n# doccmd-group-delimiter: end-block-0\n"+
			"\n"+
			"# doccmd-group-delimiter: start-block-1\nx = [*x, 2]\n# doccmd-group-delimiter: end-block-1\n",
		got.Text)

	parts, err := markers.Extract(got.Text, d)
	require.NoError(t, err)
	require.Equal(t, []string{"x = [*x, 1]\n", "x = [*x, 2]\n"}, parts)
}

func TestLexeme_RejectsOutOfOrder(t *testing.T) {
	examples := blocks(t, rest)
	_, _, err := Lexeme([]*document.Example{examples[2], examples[1]}, Options{Pad: true})
	require.ErrorContains(t, err, "out of order")

	_, _, err = Lexeme(nil, Options{})
	require.Error(t, err)
}

func TestPadding_ClampsAbuttingBlocks(t *testing.T) {
	require.Equal(t, 0, padding("a\n", 0, Options{Pad: true}))
	require.Equal(t, 1, padding("a", 0, Options{Pad: true}))
	require.Equal(t, 3, padding("a\n", 4, Options{Pad: true}))
}

func TestExample_SpansMembers(t *testing.T) {
	examples := blocks(t, rest)
	ex, err := Example(examples[1:], nil, Options{Pad: true})
	require.NoError(t, err)
	require.Equal(t, examples[1].Region.Start, ex.Region.Start)
	require.Equal(t, examples[2].Region.End, ex.Region.End)
	require.Equal(t, examples[1].Line, ex.Line)
	require.Equal(t, examples[1:], ex.Members)
	require.Equal(t, "python", ex.Region.String("language"))
}

func TestCountLines(t *testing.T) {
	require.Equal(t, 0, CountLines(""))
	require.Equal(t, 1, CountLines("a"))
	require.Equal(t, 1, CountLines("a\n"))
	require.Equal(t, 2, CountLines("a\n\n"))
	require.Equal(t, 2, CountLines("a\nb"))
}
