package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jorge-barreto/doccmd/internal/combine"
	"github.com/jorge-barreto/doccmd/internal/config"
	"github.com/jorge-barreto/doccmd/internal/discover"
	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/evaluators"
	"github.com/jorge-barreto/doccmd/internal/markers"
	"github.com/jorge-barreto/doccmd/internal/markup"
	"github.com/jorge-barreto/doccmd/internal/report"
	"github.com/jorge-barreto/doccmd/internal/shell"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

// suffixes gives temporary files an extension tools recognize when none is
// configured.
var suffixes = map[string]string{
	"python":     ".py",
	"pycon":      ".py",
	"javascript": ".js",
	"js":         ".js",
	"typescript": ".ts",
	"ts":         ".ts",
	"bash":       ".sh",
	"sh":         ".sh",
	"shell":      ".sh",
	"console":    ".sh",
	"ruby":       ".rb",
	"go":         ".go",
	"rust":       ".rs",
	"yaml":       ".yaml",
	"json":       ".json",
	"toml":       ".toml",
	"html":       ".html",
}

// Runner checks documents with the configured command.
type Runner struct {
	Config      *config.Config
	ProjectRoot string
	Report      *report.Report
	// Stdout and Stderr receive command output; nil means ours.
	Stdout io.Writer
	Stderr io.Writer
}

// Run evaluates every example of docs, running up to Config.Jobs documents
// at once. Failing examples do not stop the run; an error is returned at
// the end when any failed.
func (r *Runner) Run(ctx context.Context, docs []discover.Document) error {
	if r.Report == nil {
		r.Report = report.New(r.Config.Command)
	}
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(max(r.Config.Jobs, 1))
	var headers sync.Mutex
	for i, doc := range docs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			for _, lang := range r.Config.Languages {
				if err := r.checkDocument(ctx, i, len(docs), doc, lang, &headers); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	r.Report.Finish()

	passed, failed, skipped := r.Report.Counts()
	ux.Summary(passed, failed, skipped, time.Since(start))
	if r.Config.Report != "" {
		if saveErr := r.Report.Save(r.Config.Report); saveErr != nil {
			ux.Warn("%v", saveErr)
		}
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d examples failed", failed, passed+failed)
	}
	return nil
}

// checkDocument runs one language's pass over a document. Each pass loads
// the document again so it sees what earlier passes wrote.
func (r *Runner) checkDocument(ctx context.Context, index, total int, doc discover.Document, lang string, headers *sync.Mutex) error {
	d, err := document.Load(doc.Path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", doc.Path, err)
	}

	skipped := make(map[*document.Example]bool)
	parsers, err := r.parsers(doc.Markup, lang, func(ex *document.Example) { skipped[ex] = true })
	if err == nil {
		err = d.Parse(parsers...)
	}
	if err != nil {
		var parseErr *document.ParseError
		if !errors.As(err, &parseErr) {
			err = &document.ParseError{Path: doc.Path, Err: err}
		}
		ux.ExampleFail(doc.Path, err.Error())
		r.Report.Add(report.Entry{Path: doc.Path, Status: report.StatusFailed, Error: err.Error()}, time.Now())
		return nil
	}

	examples := d.Examples()
	if len(examples) == 0 {
		return nil
	}
	headers.Lock()
	ux.DocumentHeader(index, total, doc.Path, len(examples))
	headers.Unlock()

	for _, ex := range examples {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		start := time.Now()
		err := ex.Evaluate(ctx)
		entry := report.Entry{Path: doc.Path, Line: ex.Line, Column: ex.Column, Status: report.StatusPassed}
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			entry.Status = report.StatusFailed
			entry.Error = err.Error()
			var runErr *shell.RunError
			if errors.As(err, &runErr) {
				entry.ExitCode = runErr.ExitCode
			}
			ux.ExampleFail(ex.String(), err.Error())
		case skipped[ex]:
			entry.Status = report.StatusSkipped
			ux.ExampleSkip(ex.String())
		case !ex.Region.HasSource():
			// Directives only show up when they fail.
			continue
		default:
			ux.ExamplePass(ex.String(), time.Since(start))
		}
		r.Report.Add(entry, start)
	}

	if d.Text() != d.Original() {
		r.Report.AddUpdated(doc.Path)
		ux.Written(doc.Path)
	}
	log.Debug().Str("path", doc.Path).Str("language", lang).Int("examples", len(examples)).Msg("checked document")
	return nil
}

// parsers builds the parsers for one language of a document. Skip parsers
// come last so they see examples before any group does.
func (r *Runner) parsers(lang *markup.Language, language string, onSkip func(*document.Example)) ([]document.Parser, error) {
	cfg := r.Config
	ev := r.evaluator(language)
	opts := combine.Options{Pad: cfg.PadGroup(), Separator: cfg.GroupSeparator}
	if cfg.GroupDelimiters {
		delims, err := markers.ForLanguage(language)
		if err != nil {
			return nil, err
		}
		opts.Delimiters = &delims
	}

	var parsers []document.Parser
	if cfg.GroupAttribute != "" && lang.Attributes {
		ag, err := lang.AttributeGroupParser(language, cfg.GroupAttribute, ev, opts)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, lang.CodeBlockParser(language, ev, markup.WithoutAttribute(cfg.GroupAttribute)), ag)
	} else {
		parsers = append(parsers, lang.CodeBlockParser(language, ev))
	}
	if cfg.GroupAll {
		parsers = append(parsers, lang.GroupAllParser(ev, opts))
	}
	for _, name := range cfg.GroupDirectives {
		g, err := lang.GroupedSourceParser(name, ev, opts)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, g)
	}
	for _, name := range cfg.SkipDirectives {
		s, err := lang.SkipParser(name, onSkip)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, s)
	}
	return parsers, nil
}

func (r *Runner) evaluator(language string) document.Evaluator {
	cfg := r.Config
	suffix := cfg.TempFileSuffix
	if suffix == "" {
		suffix = suffixes[strings.ToLower(language)]
	}
	sc := evaluators.ShellCommand{
		Args:        shell.ExpandArgs(cfg.Command, map[string]string{"PROJECT_ROOT": r.ProjectRoot}),
		Env:         shell.BuildEnv(cfg.Env),
		PadFile:     cfg.Pad(),
		WriteToFile: cfg.WriteToFile,
		UsePTY:      cfg.UsePTY,
		TempPrefix:  cfg.TempFilePrefix,
		TempSuffix:  suffix,
		Newline:     cfg.NewlineSequence(),
		Stdout:      r.Stdout,
		Stderr:      r.Stderr,
	}
	if cfg.Pycon || strings.EqualFold(language, "pycon") {
		return evaluators.NewPyconShellCommand(sc)
	}
	return &sc
}
