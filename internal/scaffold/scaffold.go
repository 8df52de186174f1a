package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jorge-barreto/doccmd/internal/config"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

// maxLanguages caps how many detected languages go into the config.
const maxLanguages = 3

const configTemplate = `# doccmd configuration. Run 'doccmd docs config' for every field.

# Command run against each code block. The temporary file's path is
# appended as the last argument.
command: %s

# Code block languages to check.
languages: [%s]

# Files and directories to check, relative to this file.
files: [.]

# Write the command's changes back into the documents.
write-to-file: false

# Mark grouped blocks so a formatter's changes can be written back.
group-delimiters: false
`

// Init creates .doccmd.yaml in targetDir, filled in from the documents
// found there.
func Init(targetDir string) error {
	path := filepath.Join(targetDir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, targetDir)
	}

	project, err := Detect(targetDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", targetDir, err)
	}
	languages := project.Languages
	if len(languages) > maxLanguages {
		languages = languages[:maxLanguages]
	}
	listed := languages
	if len(listed) == 0 {
		listed = []string{"python"}
	}

	text := fmt.Sprintf(configTemplate, project.Command(), strings.Join(listed, ", "))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}

	ux.Initialized(config.FileName, languages, project.Documents)
	return nil
}
