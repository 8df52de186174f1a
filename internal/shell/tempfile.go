package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var sanitizer = strings.NewReplacer(".", "_", "-", "_")

// TempFilePath returns a path next to docPath for the example at line:
//
//	{prefix}_{name}_l{line}_{random}{suffix}
//
// where name is the document's file name with dots and dashes replaced so
// the result is a valid module name, and random is four hex digits. The
// prefix part is left out when prefix is empty.
func TempFilePath(docPath string, line int, prefix, suffix string) string {
	name := fmt.Sprintf("%s_l%d_%s%s",
		sanitizer.Replace(filepath.Base(docPath)),
		line,
		strings.ReplaceAll(uuid.NewString(), "-", "")[:4],
		suffix)
	if prefix != "" {
		name = prefix + "_" + name
	}
	return filepath.Join(filepath.Dir(docPath), name)
}

// WriteTempFile writes content to path, adding a trailing newline when it
// is missing. When newline is set, every "\n" is written as newline.
func WriteTempFile(path, content, newline string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if newline != "" && newline != "\n" {
		content = strings.ReplaceAll(content, "\n", newline)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// ReadTempFile reads back a file a command may have rewritten, with line
// endings normalized to "\n". A file the command removed reads as empty.
func ReadTempFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// RemoveTempFile deletes path. A missing file is not an error.
func RemoveTempFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
