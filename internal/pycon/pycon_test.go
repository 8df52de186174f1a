package pycon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToPython(t *testing.T) {
	transcript := "\n>>> x = 1\n>>> if x:\n...     y = 2\n...\n>>> x\n1\n>>>\n"
	got, err := ToPython(transcript)
	require.NoError(t, err)
	require.Equal(t, "x = 1\nif x:\n    y = 2\n\nx\n\n", got)
}

func TestToPython_ContentBeforeFirstPrompt(t *testing.T) {
	_, err := ToPython("\nsome output\n>>> x\n")
	var invalid *InvalidTranscriptError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 2, invalid.Line)
	require.Equal(t, "some output", invalid.Text)
	require.EqualError(t, err, `invalid pycon transcript: line 2 comes before the first prompt: "some output"`)
}

func TestParseTranscript(t *testing.T) {
	tr := ParseTranscript(">>> for i in range(2):\n...     print(i)\n...\n0\n1\n>>> x\n")
	require.Len(t, tr.Chunks, 2)
	require.Equal(t, []string{"for i in range(2):\n", "    print(i)\n", "\n"}, tr.Chunks[0].Input)
	require.Equal(t, []string{"0\n", "1\n"}, tr.Chunks[0].Output)
	require.Equal(t, []string{"x\n"}, tr.Chunks[1].Input)
	require.Empty(t, tr.Chunks[1].Output)
}

func TestFromPython_KeepsOutputWhenStatementsLineUp(t *testing.T) {
	original := ">>> x=1+1\n>>> x\n2\n"
	require.Equal(t, ">>> x = 1 + 1\n>>> x\n2\n", FromPython("x = 1 + 1\nx\n", original))
}

func TestFromPython_DropsOutputOnMismatch(t *testing.T) {
	original := ">>> x=1\n>>> x\n1\n"
	require.Equal(t, ">>> x = 1\n>>> y = 2\n>>> x\n", FromPython("x = 1\ny = 2\nx\n", original))
}

func TestFromPython_IgnoresAddedSeparators(t *testing.T) {
	original := ">>> x\n1\n>>> y\n2\n"
	require.Equal(t, ">>> x\n1\n>>>\n>>> y\n2\n", FromPython("x\n\ny\n", original))
}

func TestFromPython_InvalidPythonFallsBack(t *testing.T) {
	require.Equal(t, ">>> x = (\n>>> \n", FromPython("x = (\n\n", ">>> x = (\n"))
}

func TestFromPython_Empty(t *testing.T) {
	require.Empty(t, FromPython("", ">>> x\n"))
}

func TestRoundTrip(t *testing.T) {
	transcripts := map[string]string{
		"simple":        ">>> x = 1\n>>> x\n1\n",
		"function":      ">>> def f(x):\n...     return x\n...\n>>> f(2)\n2\n",
		"decorator":     ">>> @decorator\n... def g():\n...     pass\n",
		"call":          ">>> print(\n...     'hi'\n... )\nhi\n",
		"triple quoted": ">>> s = '''a\n... b'''\n>>> s\n'a\\nb'\n",
		"try":           ">>> try:\n...     1/0\n... except ZeroDivisionError:\n...     pass\n... finally:\n...     print('done')\n...\ndone\n",
		"comment":       ">>> # a comment\n>>> x = 1\n",
		"separator":     ">>> x = 1\n>>>\n>>> x\n1\n",
		"continuation":  ">>> total = 1 + \\\n...     2\n>>> total\n3\n",
		"nested":        ">>> class A:\n...     def m(self):\n...         if True:\n...             return 1\n...         return 2\n...\n>>> A().m()\n1\n",
	}
	for name, transcript := range transcripts {
		t.Run(name, func(t *testing.T) {
			python, err := ToPython(transcript)
			require.NoError(t, err)
			require.Equal(t, transcript, FromPython(python, transcript))
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want [][2]int
	}{
		{"simple", "a = 1\nb = 2\n", [][2]int{{0, 0}, {1, 1}}},
		{"brackets", "f(\n  1,\n)\nx\n", [][2]int{{0, 2}, {3, 3}}},
		{"if else", "if a:\n    b\nelif c:\n    d\nelse:\n    e\nf\n", [][2]int{{0, 5}, {6, 6}}},
		{"trailing comment", "if a:\n    b\n    # done\nc\n", [][2]int{{0, 1}, {3, 3}}},
		{"one line compound", "if a: b\nc\n", [][2]int{{0, 0}, {1, 1}}},
		{"colon in string", "x = 'a:'\n", [][2]int{{0, 0}}},
		{"comment with bracket", "x = 1  # (\ny = 2\n", [][2]int{{0, 0}, {1, 1}}},
		{"escaped quote", "s = 'it\\'s'\n", [][2]int{{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := statements(splitLines(tt.src))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStatements_SyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"x = (\n",
		"x = )\n",
		"  x = 1\n",
		"s = 'open\n",
		"if x:\n",
		"else:\n    y\n",
		"@decorator\n",
		"s = '''never closed\n",
	} {
		_, err := statements(splitLines(src))
		require.ErrorIs(t, err, errSyntax, src)
	}
}
