package scaffold

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/discover"
	"github.com/jorge-barreto/doccmd/internal/document"
)

// maxDocuments bounds how many documents are read while detecting.
const maxDocuments = 500

// formatters suggests a command for a detected language.
var formatters = map[string]string{
	"python":     "ruff format",
	"pycon":      "ruff format",
	"go":         "gofmt -w",
	"rust":       "rustfmt",
	"bash":       "shellcheck",
	"sh":         "shellcheck",
	"shell":      "shellcheck",
	"javascript": "prettier --write",
	"js":         "prettier --write",
	"typescript": "prettier --write",
	"ts":         "prettier --write",
	"ruby":       "rubocop -a",
}

// projectFiles hint at a language when the documents have no code blocks.
var projectFiles = []struct {
	name     string
	language string
}{
	{"pyproject.toml", "python"},
	{"setup.py", "python"},
	{"requirements.txt", "python"},
	{"go.mod", "go"},
	{"Cargo.toml", "rust"},
	{"package.json", "javascript"},
	{"Gemfile", "ruby"},
}

// Project is what Detect learned about a directory.
type Project struct {
	Documents int
	// Languages are the code block languages in use, most frequent first.
	Languages []string
}

// Detect counts the documents under root and the code block languages they
// use. Unreadable documents are skipped.
func Detect(root string) (*Project, error) {
	docs, err := discover.Find([]string{root}, discover.Options{})
	if err != nil {
		return nil, err
	}
	p := &Project{Documents: len(docs)}

	counts := make(map[string]int)
	for i, doc := range docs {
		if i == maxDocuments {
			break
		}
		d, err := document.Load(doc.Path)
		if err != nil {
			log.Debug().Err(err).Str("path", doc.Path).Msg("skipping unreadable document")
			continue
		}
		regions, err := doc.Markup.CodeBlocks("").Lex(d)
		if err != nil {
			log.Debug().Err(err).Str("path", doc.Path).Msg("skipping document")
			continue
		}
		for _, r := range regions {
			if lang := strings.ToLower(r.String("language")); lang != "" {
				counts[lang]++
			}
		}
	}

	for lang := range counts {
		p.Languages = append(p.Languages, lang)
	}
	slices.SortFunc(p.Languages, func(a, b string) int {
		return cmp.Or(counts[b]-counts[a], strings.Compare(a, b))
	})

	if len(p.Languages) == 0 {
		for _, f := range projectFiles {
			if _, err := os.Stat(filepath.Join(root, f.name)); err == nil {
				p.Languages = []string{f.language}
				break
			}
		}
	}
	return p, nil
}

// Command suggests a command for the first language that has one.
func (p *Project) Command() string {
	for _, lang := range p.Languages {
		if c, ok := formatters[lang]; ok {
			return c
		}
	}
	return "cat"
}
