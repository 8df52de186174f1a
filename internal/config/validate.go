package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/markers"
	"github.com/jorge-barreto/doccmd/internal/markup"
)

var (
	varNameRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	directiveRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// Validate checks the config for errors and sets defaults. Relative paths
// are resolved against projectRoot.
func Validate(cfg *Config, projectRoot string) error {
	if len(cfg.Command) == 0 {
		return fmt.Errorf("config: 'command' is required")
	}
	if len(cfg.Languages) == 0 {
		return fmt.Errorf("config: at least one language is required")
	}
	for _, lang := range cfg.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("config: 'languages' entries must be non-empty")
		}
	}

	for suffix, name := range cfg.Markup {
		if !strings.HasPrefix(suffix, ".") {
			return fmt.Errorf("config: markup: suffix %q must start with '.'", suffix)
		}
		if _, err := markup.ByName(name); err != nil {
			return fmt.Errorf("config: markup: %q: %w", suffix, err)
		}
	}

	if len(cfg.GroupDirectives) == 0 {
		cfg.GroupDirectives = []string{"group"}
	}
	if len(cfg.SkipDirectives) == 0 {
		cfg.SkipDirectives = []string{"skip"}
	}
	seen := make(map[string]string)
	for _, list := range []struct {
		field string
		names []string
	}{{"group-directives", cfg.GroupDirectives}, {"skip-directives", cfg.SkipDirectives}} {
		for _, name := range list.names {
			if !directiveRe.MatchString(name) {
				return fmt.Errorf("config: %s: %q is not a valid directive name (must match [A-Za-z][A-Za-z0-9_-]*)", list.field, name)
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("config: directive %q appears in both %s and %s", name, prev, list.field)
			}
			seen[name] = list.field
		}
	}
	if cfg.GroupAttribute != "" && !directiveRe.MatchString(cfg.GroupAttribute) {
		return fmt.Errorf("config: group-attribute: %q is not a valid attribute name", cfg.GroupAttribute)
	}

	if cfg.GroupSeparator < 0 {
		return fmt.Errorf("config: group-separator must be >= 0")
	}
	if cfg.GroupDelimiters {
		if cfg.Pycon {
			return fmt.Errorf("config: group-delimiters and pycon cannot be combined")
		}
		for _, lang := range cfg.Languages {
			if _, err := markers.ForLanguage(lang); err != nil {
				return fmt.Errorf("config: group-delimiters: %w", err)
			}
		}
	}

	switch cfg.Newline {
	case "", "lf", "crlf":
	default:
		return fmt.Errorf("config: unknown newline %q (must be lf or crlf)", cfg.Newline)
	}

	for key := range cfg.Env {
		if !varNameRe.MatchString(key) {
			return fmt.Errorf("config: env: %q is not a valid variable name (must match [A-Za-z_][A-Za-z0-9_]*)", key)
		}
	}

	if cfg.Jobs < 0 {
		return fmt.Errorf("config: jobs must be >= 0")
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}
	if cfg.TempFilePrefix == "" {
		cfg.TempFilePrefix = "doccmd"
	}
	if len(cfg.Files) == 0 {
		cfg.Files = []string{"."}
	}
	for i, f := range cfg.Files {
		if !filepath.IsAbs(f) {
			cfg.Files[i] = filepath.Join(projectRoot, f)
		}
	}
	if cfg.Report != "" && !filepath.IsAbs(cfg.Report) {
		cfg.Report = filepath.Join(projectRoot, cfg.Report)
	}
	return nil
}
