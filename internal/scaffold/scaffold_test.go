package scaffold

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/doccmd/internal/config"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

func quiet(t *testing.T) {
	t.Helper()
	prev := ux.Out
	ux.Out = io.Discard
	t.Cleanup(func() { ux.Out = prev })
}

func write(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetect_CountsLanguages(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, map[string]string{
		"README.md":      "```python\nx = 1\n```\n\n```bash\necho\n```\n",
		"docs/guide.rst": ".. code-block:: python\n\n   y = 2\n",
		"docs/conf.py":   "ignored\n",
	})

	p, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Documents != 2 {
		t.Fatalf("Documents = %d, want 2", p.Documents)
	}
	if strings.Join(p.Languages, ",") != "python,bash" {
		t.Fatalf("Languages = %v", p.Languages)
	}
	if p.Command() != "ruff format" {
		t.Fatalf("Command = %q", p.Command())
	}
}

func TestDetect_FallsBackToProjectFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, map[string]string{"go.mod": "module x\n", "README.md": "# x\n"})

	p, err := Detect(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Languages) != 1 || p.Languages[0] != "go" || p.Command() != "gofmt -w" {
		t.Fatalf("project = %+v, command %q", p, p.Command())
	}
}

func TestInit_GeneratedConfigIsValid(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	write(t, dir, map[string]string{"README.md": "```ruby\nputs 1\n```\n"})

	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("config.Load failed on generated config: %v", err)
	}
	if err := config.Validate(cfg, dir); err != nil {
		t.Fatalf("generated config does not validate: %v", err)
	}
	if strings.Join(cfg.Command, " ") != "rubocop -a" {
		t.Fatalf("Command = %q", cfg.Command)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "ruby" {
		t.Fatalf("Languages = %v", cfg.Languages)
	}
}

func TestInit_EmptyDirectory(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "python" || cfg.Command[0] != "cat" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestInit_FailsIfConfigExists(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, map[string]string{config.FileName: "command: true\n"})

	err := Init(dir)
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}
