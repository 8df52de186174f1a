package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up from the working directory.
const FileName = ".doccmd.yaml"

// Args is a command line. In YAML it is either a list or a single string
// split on whitespace.
type Args []string

func (a *Args) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	}
	return fmt.Errorf("line %d: command must be a string or a list of strings", node.Line)
}

type Config struct {
	Command   Args     `yaml:"command"`
	Languages []string `yaml:"languages"`
	// Markup maps file suffixes to markup language names.
	Markup  map[string]string `yaml:"markup"`
	Files   []string          `yaml:"files"`
	Exclude []string          `yaml:"exclude"`

	PadFile     *bool `yaml:"pad-file"`
	PadGroups   *bool `yaml:"pad-groups"`
	WriteToFile bool  `yaml:"write-to-file"`
	UsePTY      bool  `yaml:"use-pty"`

	GroupDirectives []string `yaml:"group-directives"`
	SkipDirectives  []string `yaml:"skip-directives"`
	GroupAttribute  string   `yaml:"group-attribute"`
	GroupAll        bool     `yaml:"group-all"`
	GroupDelimiters bool     `yaml:"group-delimiters"`
	GroupSeparator  int      `yaml:"group-separator"`

	TempFilePrefix string `yaml:"temp-file-prefix"`
	TempFileSuffix string `yaml:"temp-file-suffix"`
	// Newline is "lf", "crlf" or empty for the platform default.
	Newline string `yaml:"newline"`
	Pycon   bool   `yaml:"pycon"`

	Env    map[string]string `yaml:"env"`
	Jobs   int               `yaml:"jobs"`
	Report string            `yaml:"report"`
}

// Load reads a YAML config file. The result is not validated so that
// command line flags can be applied first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find walks up from dir looking for FileName and returns its path.
func Find(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Pad reports whether temporary files are padded.
func (c *Config) Pad() bool {
	return c.PadFile == nil || *c.PadFile
}

// PadGroup reports whether grouped blocks keep their document line numbers.
func (c *Config) PadGroup() bool {
	return c.PadGroups == nil || *c.PadGroups
}

// NewlineSequence returns the line ending to write temporary files with.
func (c *Config) NewlineSequence() string {
	if c.Newline == "crlf" {
		return "\r\n"
	}
	return ""
}
