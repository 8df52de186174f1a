package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jorge-barreto/doccmd/internal/config"
	"github.com/jorge-barreto/doccmd/internal/report"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

func setup(t *testing.T, files map[string]string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	prev := ux.Out
	ux.Out = io.Discard
	t.Cleanup(func() { ux.Out = prev })

	dir := t.TempDir()
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(args ...string) error {
	return newApp().Run(context.Background(), append([]string{"doccmd"}, args...))
}

func TestRun_FlagsOnly(t *testing.T) {
	dir := setup(t, map[string]string{"doc.md": "```python\nx = 1\n```\n"})
	out := filepath.Join(dir, "out.json")

	if err := run("run", "--command", "true", "--language", "python", "--report", out, filepath.Join(dir, "doc.md")); err != nil {
		t.Fatal(err)
	}
	r, err := report.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if passed, _, _ := r.Counts(); passed != 1 {
		t.Fatalf("passed = %d", passed)
	}
}

func TestRun_Failure(t *testing.T) {
	dir := setup(t, map[string]string{"doc.md": "```python\nx = 1\n```\n"})

	err := run("run", "--command", "false", "--language", "python", dir)
	if err == nil || err.Error() != "1 of 1 examples failed" {
		t.Fatalf("got %v", err)
	}
}

func TestRun_ConfigWithOverrides(t *testing.T) {
	dir := setup(t, map[string]string{
		config.FileName: "command: [sh, -c, 'echo \"# checked\" >> \"$1\"', sh]\nlanguages: [bash]\n",
		"doc.md":        "```python\nx = 1\n```\n\n```bash\necho\n```\n",
	})

	err := run("run", "--config", filepath.Join(dir, config.FileName), "--language", "python", "--write", "--pad-file=false", filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "```python\nx = 1\n# checked\n```\n\n```bash\necho\n```\n" {
		t.Fatalf("doc.md = %q", got)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := setup(t, nil)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"run", "--language", "python", dir}, "'command' is required"},
		{[]string{"run", "--command", "doccmd-no-such-program", "--language", "python", dir}, "not found in PATH"},
		{[]string{"run", "--command", "true", "--language", "python", "--env", "NOEQUALS", dir}, "want KEY=VALUE"},
		{[]string{"docs", "nonexistent"}, "unknown topic"},
		{[]string{"report", filepath.Join(dir, "missing.json")}, "loading report"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			err := run(tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
