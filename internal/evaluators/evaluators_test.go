package evaluators

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/markers"
	"github.com/jorge-barreto/doccmd/internal/markup"
	"github.com/jorge-barreto/doccmd/internal/pycon"
	"github.com/jorge-barreto/doccmd/internal/shell"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

// spaceEquals rewrites "a=b" as "a = b" in the file given as its last
// argument.
var spaceEquals = []string{"sh", "-c", `sed 's/\([^ ]\)=\([^ ]\)/\1 = \2/g' "$1" > "$1.new" && mv "$1.new" "$1"`, "sh"}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}

func writeDoc(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func evaluateAll(t *testing.T, d *document.Document, parsers ...document.Parser) error {
	t.Helper()
	require.NoError(t, d.Parse(parsers...))
	for _, ex := range d.Examples() {
		if err := ex.Evaluate(context.Background()); err != nil {
			return err
		}
	}
	return nil
}

func load(t *testing.T, path string) *document.Document {
	t.Helper()
	d, err := document.Load(path)
	require.NoError(t, err)
	return d
}

func TestShellCommand_WritesBack(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "# Title\n\n```python\nx=1\n```\n")
	ev := &ShellCommand{Args: spaceEquals, WriteToFile: true}

	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))
	require.Equal(t, "# Title\n\n```python\nx = 1\n```\n", readDoc(t, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are removed")
}

func TestShellCommand_NoWriteBackByDefault(t *testing.T) {
	requireShell(t)
	text := "```python\nx=1\n```\n"
	path := writeDoc(t, "doc.md", text)
	ev := &ShellCommand{Args: spaceEquals}

	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))
	require.Equal(t, text, readDoc(t, path))
}

func TestShellCommand_PadFile(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "# Title\n\n```python\nx=1\n```\n")
	var out bytes.Buffer
	ev := &ShellCommand{Args: []string{"cat"}, PadFile: true, Stdout: &out}

	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))
	require.Equal(t, "\n\n\nx=1\n", out.String())
}

func TestShellCommand_PadFileWriteBackStripsPadding(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "# Title\n\n```python\nx=1\n```\n")
	ev := &ShellCommand{Args: spaceEquals, PadFile: true, WriteToFile: true}

	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))
	require.Equal(t, "# Title\n\n```python\nx = 1\n```\n", readDoc(t, path))
}

func TestShellCommand_TempFileName(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "my-doc.md", "Text\n\n```python\nx\n```\n")
	var out bytes.Buffer
	ev := &ShellCommand{
		Args:       []string{"sh", "-c", `basename "$1"`, "sh"},
		TempPrefix: "doccmd",
		TempSuffix: ".py",
		Stdout:     &out,
	}

	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))
	require.Regexp(t, `^doccmd_my_doc_md_l3_[0-9a-f]{4}\.py\n$`, out.String())
}

func TestShellCommand_FailureAfterWriteBack(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "```python\nx=1\n```\n")
	args := []string{"sh", "-c", `sed 's/=/ = /' "$1" > "$1.new" && mv "$1.new" "$1"; echo broken >&2; exit 3`, "sh"}
	var stderr bytes.Buffer
	ev := &ShellCommand{Args: args, WriteToFile: true, Stderr: &stderr}

	err := evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev))
	var runErr *shell.RunError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, 3, runErr.ExitCode)
	require.Equal(t, "broken\n", runErr.Stderr)
	require.Equal(t, "broken\n", stderr.String())
	require.Equal(t, "```python\nx = 1\n```\n", readDoc(t, path))
}

func TestShellCommand_MissingProgram(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "```python\nx\n```\n")
	ev := &ShellCommand{Args: []string{"doccmd-test-no-such-program"}}

	err := evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev))
	require.Error(t, err)
	var runErr *shell.RunError
	require.False(t, errors.As(err, &runErr))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestShellCommand_EmptyBlock(t *testing.T) {
	requireShell(t)
	text := "```python\n```\n"
	path := writeDoc(t, "doc.md", text)

	ev := &ShellCommand{Args: []string{"true"}, WriteToFile: true}
	require.NoError(t, evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev)))

	ev = &ShellCommand{Args: []string{"sh", "-c", `echo x > "$1"`, "sh"}, WriteToFile: true}
	err := evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("python", ev))
	require.ErrorContains(t, err, "Cannot replace empty code block")
	require.Equal(t, text, readDoc(t, path))
}

func TestShellCommand_DelimitedGroup(t *testing.T) {
	requireShell(t)
	text := "<!-- group: start -->\n\n```python\nx=1\n```\n\nBetween\n\n```python\ny=2\n```\n\n<!-- group: end -->\n"
	path := writeDoc(t, "doc.md", text)

	delims, err := markers.ForLanguage("python")
	require.NoError(t, err)
	ev := &ShellCommand{Args: spaceEquals, WriteToFile: true}
	g, err := markup.Markdown.GroupedSourceParser("group", ev, combine.Options{Pad: true, Delimiters: &delims})
	require.NoError(t, err)

	d := load(t, path)
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", NoOp{}), g))
	want := "<!-- group: start -->\n\n```python\nx = 1\n```\n\nBetween\n\n```python\ny = 2\n```\n\n<!-- group: end -->\n"
	require.Equal(t, want, readDoc(t, path))
	require.Equal(t, want, d.Text())
}

func TestShellCommand_GroupWithoutDelimitersWarns(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	prev := ux.Out
	ux.Out = &out
	t.Cleanup(func() { ux.Out = prev })

	text := "<!-- group: start -->\n\n```python\nx=1\n```\n\n```python\ny=2\n```\n\n<!-- group: end -->\n"
	path := writeDoc(t, "doc.md", text)
	ev := &ShellCommand{Args: spaceEquals, WriteToFile: true, NamespaceKey: "combined"}
	g, err := markup.Markdown.GroupedSourceParser("group", ev, combine.Options{Pad: true})
	require.NoError(t, err)

	d := load(t, path)
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", NoOp{}), g))
	require.Equal(t, text, readDoc(t, path))
	require.Contains(t, out.String(), "not written back without group-delimiters")
	require.Contains(t, d.Namespace["combined"], "x = 1")
}

func TestPyconShellCommand(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "```pycon\n>>> x=1+1\n>>> x\n2\n```\n")
	args := []string{"sh", "-c", `sed 's/x=1+1/x = 1 + 1/' "$1" > "$1.new" && mv "$1.new" "$1"`, "sh"}
	ev := NewPyconShellCommand(ShellCommand{Args: args, WriteToFile: true, PadFile: true})

	d := load(t, path)
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("pycon", ev)))
	require.Equal(t, "```pycon\n>>> x = 1 + 1\n>>> x\n2\n```\n", readDoc(t, path))
	require.Equal(t, ">>> x = 1 + 1\n>>> x\n2\n", d.Namespace[PyconNamespaceKey])
}

func TestPyconShellCommand_InvalidTranscript(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.md", "```pycon\noutput\n>>> x\n```\n")
	ev := NewPyconShellCommand(ShellCommand{Args: []string{"true"}})

	err := evaluateAll(t, load(t, path), markup.Markdown.CodeBlockParser("pycon", ev))
	var invalid *pycon.InvalidTranscriptError
	require.ErrorAs(t, err, &invalid)
}

func TestWrite_ParsedText(t *testing.T) {
	d := document.New("", "Text\n\n```python\nx = 1\n```\n")
	ev := document.EvaluatorFunc(func(ctx context.Context, ex *document.Example) error {
		parsed := ex.Parsed()
		parsed.Text = "y = 2\nz = 3\n"
		ex.Region.Parsed = parsed
		return Write{}.Evaluate(ctx, ex)
	})
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", ev)))
	require.Equal(t, "Text\n\n```python\ny = 2\nz = 3\n```\n", d.Text())
}

func TestWrite_FromNamespace(t *testing.T) {
	requireShell(t)
	path := writeDoc(t, "doc.rst", ".. code-block:: python\n\n   x=1\n")
	ev := Multi{
		&ShellCommand{Args: spaceEquals, NamespaceKey: "formatted"},
		Write{NamespaceKey: "formatted"},
	}
	require.NoError(t, evaluateAll(t, load(t, path), markup.ReST.CodeBlockParser("python", ev)))
	require.Equal(t, ".. code-block:: python\n\n   x = 1\n", readDoc(t, path))
}

func TestWrite_NothingStored(t *testing.T) {
	d := document.New("", "```python\nx\n```\n")
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", Write{NamespaceKey: "missing"})))
	require.Equal(t, "```python\nx\n```\n", d.Text())

	d = document.New("", "```python\nx\n```\n")
	d.Namespace["wrong"] = 3
	err := evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", Write{NamespaceKey: "wrong"}))
	require.EqualError(t, err, `namespace key "wrong" holds int, not text`)
}

func TestBlockAccumulator(t *testing.T) {
	d := document.New("", "```python\na\n```\n\n```python\nb\n```\n")
	require.NoError(t, evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", BlockAccumulator{Key: "blocks"})))
	require.Equal(t, []string{"a\n", "b\n"}, d.Namespace["blocks"])
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	count := document.EvaluatorFunc(func(context.Context, *document.Example) error {
		calls++
		return nil
	})
	fail := document.EvaluatorFunc(func(context.Context, *document.Example) error {
		return boom
	})

	d := document.New("", "```python\na\n```\n")
	err := evaluateAll(t, d, markup.Markdown.CodeBlockParser("python", Multi{count, fail, count}))
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestIdentity(t *testing.T) {
	d := document.New("", "```python\na\n```\n")
	require.NoError(t, d.Parse(markup.Markdown.CodeBlockParser("python", NoOp{})))
	ex := d.Examples()[0]

	src, err := Identity{}.Prepare(ex)
	require.NoError(t, err)
	require.Equal(t, "a\n", src)
	out, err := Identity{}.Transform("b\n", ex)
	require.NoError(t, err)
	require.Equal(t, "b\n", out)
}
