package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/doccmd/internal/config"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "Config file (default: nearest " + config.FileName + ")"},
		&cli.StringFlag{Name: "command", Aliases: []string{"c"}, Usage: "Command to run, split on whitespace"},
		&cli.StringSliceFlag{Name: "language", Aliases: []string{"l"}, Usage: "Code block language to check (repeatable)"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "Glob of files or directories to leave out (repeatable)"},
		&cli.StringSliceFlag{Name: "env", Usage: "KEY=VALUE added to the command's environment (repeatable)"},
		&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write the command's changes back to the documents"},
		&cli.BoolFlag{Name: "pad-file", Usage: "Pad temporary files so line numbers match the document"},
		&cli.BoolFlag{Name: "pad-groups", Usage: "Keep line gaps between grouped blocks"},
		&cli.BoolFlag{Name: "pty", Usage: "Run the command in a pseudo-terminal"},
		&cli.BoolFlag{Name: "pycon", Usage: "Treat blocks as Python console transcripts"},
		&cli.BoolFlag{Name: "group-all", Usage: "Run all blocks of a document as one group"},
		&cli.BoolFlag{Name: "group-delimiters", Usage: "Mark grouped blocks so they can be written back"},
		&cli.StringFlag{Name: "group-attribute", Usage: "Group MDX blocks by this attribute"},
		&cli.IntFlag{Name: "group-separator", Usage: "Blank lines between grouped blocks when not padding"},
		&cli.StringSliceFlag{Name: "group-directive", Usage: "Group directive name, replacing the default (repeatable)"},
		&cli.StringSliceFlag{Name: "skip-directive", Usage: "Skip directive name, replacing the default (repeatable)"},
		&cli.StringFlag{Name: "temp-file-prefix", Usage: "Temporary file name prefix"},
		&cli.StringFlag{Name: "temp-file-suffix", Usage: "Temporary file suffix, e.g. .py"},
		&cli.StringFlag{Name: "newline", Usage: "Line endings for temporary files: lf or crlf"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "Documents to check at once"},
		&cli.StringFlag{Name: "report", Usage: "Write a JSON report to this path"},
	}
}

// findConfig loads the config at explicit, or the nearest one above the
// working directory. Without either, cfg is nil and root is the working
// directory.
func findConfig(explicit string) (cfg *config.Config, root string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	path := explicit
	if path == "" {
		var ok bool
		if path, ok = config.Find(cwd); !ok {
			return nil, cwd, nil
		}
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	cfg, err = config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, filepath.Dir(path), nil
}

// loadConfig finds the config, applies the run flags over it and validates
// the result.
func loadConfig(cmd *cli.Command) (*config.Config, string, error) {
	cfg, root, err := findConfig(cmd.String("config"))
	if err != nil {
		return nil, "", err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg, root); err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) error {
	if cmd.IsSet("command") {
		cfg.Command = strings.Fields(cmd.String("command"))
	}
	if cmd.IsSet("language") {
		cfg.Languages = cmd.StringSlice("language")
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = append(cfg.Exclude, cmd.StringSlice("exclude")...)
	}
	for _, kv := range cmd.StringSlice("env") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--env %q: want KEY=VALUE", kv)
		}
		if cfg.Env == nil {
			cfg.Env = make(map[string]string)
		}
		cfg.Env[name] = value
	}

	if args := cmd.Args().Slice(); len(args) > 0 {
		cfg.Files = cfg.Files[:0]
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			cfg.Files = append(cfg.Files, abs)
		}
	}

	setBool := func(name string, dst *bool) {
		if cmd.IsSet(name) {
			*dst = cmd.Bool(name)
		}
	}
	setBool("write", &cfg.WriteToFile)
	setBool("pty", &cfg.UsePTY)
	setBool("pycon", &cfg.Pycon)
	setBool("group-all", &cfg.GroupAll)
	setBool("group-delimiters", &cfg.GroupDelimiters)
	if cmd.IsSet("pad-file") {
		v := cmd.Bool("pad-file")
		cfg.PadFile = &v
	}
	if cmd.IsSet("pad-groups") {
		v := cmd.Bool("pad-groups")
		cfg.PadGroups = &v
	}

	setString := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	setString("group-attribute", &cfg.GroupAttribute)
	setString("temp-file-prefix", &cfg.TempFilePrefix)
	setString("temp-file-suffix", &cfg.TempFileSuffix)
	setString("newline", &cfg.Newline)
	if cmd.IsSet("report") {
		abs, err := filepath.Abs(cmd.String("report"))
		if err != nil {
			return err
		}
		cfg.Report = abs
	}

	if cmd.IsSet("group-separator") {
		cfg.GroupSeparator = int(cmd.Int("group-separator"))
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = int(cmd.Int("jobs"))
	}
	if cmd.IsSet("group-directive") {
		cfg.GroupDirectives = cmd.StringSlice("group-directive")
	}
	if cmd.IsSet("skip-directive") {
		cfg.SkipDirectives = cmd.StringSlice("skip-directive")
	}
	return nil
}
