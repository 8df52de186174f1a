// Package discover finds the documents to check.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/jorge-barreto/doccmd/internal/markup"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"__pycache__":  true,
	".tox":         true,
}

// Document is a file with the markup it is written in.
type Document struct {
	Path   string
	Markup *markup.Language
}

// Options controls which files are picked up.
type Options struct {
	// Exclude holds glob patterns matched against each file's base name and
	// its path relative to the directory being walked.
	Exclude []string
	// Markup maps file suffixes to markup languages ahead of the defaults.
	Markup map[string]string
}

// Find returns the documents under paths, sorted and without duplicates.
// Directories are walked; files given directly must have a known markup.
func Find(paths []string, opts Options) ([]Document, error) {
	for _, pattern := range opts.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
	}

	seen := make(map[string]bool)
	var docs []Document
	add := func(path string, lang *markup.Language) {
		if !seen[path] {
			seen[path] = true
			docs = append(docs, Document{Path: path, Markup: lang})
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			lang, ok := markup.ForPath(root, opts.Markup)
			if !ok {
				return nil, fmt.Errorf("%s: unknown markup (set one with the markup option)", root)
			}
			if !excluded(opts.Exclude, filepath.Base(root), filepath.Base(root)) {
				add(filepath.Clean(root), lang)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || excluded(opts.Exclude, d.Name(), rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if excluded(opts.Exclude, d.Name(), rel) {
				return nil
			}
			if lang, ok := markup.ForPath(path, opts.Markup); ok {
				add(path, lang)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(docs, func(a, b Document) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
	return docs, nil
}

func excluded(patterns []string, name, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}
