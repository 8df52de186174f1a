package evaluators

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jorge-barreto/doccmd/internal/document"
	"github.com/jorge-barreto/doccmd/internal/markers"
	"github.com/jorge-barreto/doccmd/internal/shell"
	"github.com/jorge-barreto/doccmd/internal/splice"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

// PyconNamespaceKey is where NewPyconShellCommand leaves the rewritten
// transcript of each example.
const PyconNamespaceKey = "pycon_modified_content"

// ShellCommand runs a command over an example. The prepared source goes to
// a temporary file next to the document, named after it, and the file path
// is appended to Args.
type ShellCommand struct {
	Args []string
	// Env is the complete child environment; nil inherits ours.
	Env []string
	Dir string

	// PadFile puts the source on the same line of the temporary file as it
	// has in the document, so reported line numbers match.
	PadFile bool
	// WriteToFile writes what the command left in the file back into the
	// document.
	WriteToFile bool
	UsePTY      bool

	TempPrefix string
	TempSuffix string
	// Newline replaces "\n" in the temporary file when set.
	Newline string

	Preparer    SourcePreparer
	Transformer ResultTransformer
	// NamespaceKey, when set, stores the transformed result in the
	// document namespace.
	NamespaceKey string

	Stdout io.Writer
	Stderr io.Writer
}

// NewPyconShellCommand returns base set up for interactive Python
// transcripts.
func NewPyconShellCommand(base ShellCommand) *ShellCommand {
	base.Preparer = Pycon{}
	base.Transformer = Pycon{}
	if base.NamespaceKey == "" {
		base.NamespaceKey = PyconNamespaceKey
	}
	return &base
}

func (s *ShellCommand) preparer() SourcePreparer {
	if s.Preparer == nil {
		return Identity{}
	}
	return s.Preparer
}

func (s *ShellCommand) transformer() ResultTransformer {
	if s.Transformer == nil {
		return Identity{}
	}
	return s.Transformer
}

// Evaluate runs the command. A non-zero exit is returned as a
// *shell.RunError after any write-back has happened.
func (s *ShellCommand) Evaluate(ctx context.Context, ex *document.Example) error {
	if s.UsePTY && runtime.GOOS == "windows" {
		return shell.ErrPTYUnsupported
	}
	source, err := s.preparer().Prepare(ex)
	if err != nil {
		return err
	}
	pad := 0
	if s.PadFile {
		pad = max(ex.Line+ex.Parsed().LineOffset-1, 0)
	}

	path := shell.TempFilePath(ex.Path(), ex.Line, s.TempPrefix, s.TempSuffix)
	if err := shell.WriteTempFile(path, strings.Repeat("\n", pad)+source, s.Newline); err != nil {
		return fmt.Errorf("writing temporary file: %w", err)
	}
	log.Debug().Str("example", ex.String()).Str("file", path).Int("pad", pad).Msg("wrote temporary file")

	result, runErr := shell.Run(ctx, shell.Command{
		Args:   append(slices.Clone(s.Args), path),
		Env:    s.Env,
		Dir:    s.Dir,
		UsePTY: s.UsePTY,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
	content, readErr := shell.ReadTempFile(path)
	if err := shell.RemoveTempFile(path); err != nil {
		log.Debug().Err(err).Str("file", path).Msg("removing temporary file")
	}
	if runErr != nil {
		return runErr
	}
	if readErr != nil {
		return fmt.Errorf("reading temporary file: %w", readErr)
	}

	if s.PadFile {
		content = splice.LStripNewlines(content, pad+1)
	}
	if err := s.writeBack(ex, content); err != nil {
		return err
	}
	return result.Err()
}

func (s *ShellCommand) writeBack(ex *document.Example, content string) error {
	if !s.WriteToFile && s.NamespaceKey == "" {
		return nil
	}
	if ex.Delimiters != nil && len(ex.Members) > 0 {
		return s.writeMembers(ex, content)
	}
	out, err := s.transformer().Transform(content, ex)
	if err != nil {
		return err
	}
	if s.NamespaceKey != "" {
		ex.Namespace()[s.NamespaceKey] = out
	}
	if !s.WriteToFile {
		return nil
	}
	if len(ex.Members) > 1 {
		// The combined text does not occur in the document.
		ux.Warn("%s: changes to grouped blocks are not written back without group-delimiters", ex)
		return nil
	}
	_, err = splice.Write(ex, out, 0)
	return err
}

// writeMembers writes each block of a delimited group back into the member
// it came from.
func (s *ShellCommand) writeMembers(ex *document.Example, content string) error {
	if s.NamespaceKey != "" {
		ex.Namespace()[s.NamespaceKey] = content
	}
	if !s.WriteToFile {
		return nil
	}
	blocks, err := markers.Extract(content, *ex.Delimiters)
	if err != nil {
		return fmt.Errorf("%s: recovering group blocks: %w", ex, err)
	}
	if len(blocks) != len(ex.Members) {
		return fmt.Errorf("%s: found %d group blocks, want %d", ex, len(blocks), len(ex.Members))
	}
	for i, m := range ex.Members {
		out, err := s.transformer().Transform(blocks[i], m)
		if err != nil {
			return err
		}
		if _, err := splice.Write(m, out, 0); err != nil {
			return err
		}
	}
	return nil
}
