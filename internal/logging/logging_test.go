package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_Verbose(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	var buf bytes.Buffer
	Setup(&buf, true)

	log.Debug().Str("path", "doc.md").Msg("parsed")
	out := buf.String()
	if !strings.Contains(out, "parsed") || !strings.Contains(out, "path=doc.md") {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer, got %q", out)
	}
}

func TestSetup_Quiet(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	var buf bytes.Buffer
	Setup(&buf, false)

	log.Debug().Msg("hidden")
	log.Info().Msg("also hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}
	log.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Fatal("regular file reported as a terminal")
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer reported as a terminal")
	}
}
