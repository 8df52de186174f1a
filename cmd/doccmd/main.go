package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/doccmd/internal/discover"
	"github.com/jorge-barreto/doccmd/internal/docs"
	"github.com/jorge-barreto/doccmd/internal/logging"
	"github.com/jorge-barreto/doccmd/internal/markers"
	"github.com/jorge-barreto/doccmd/internal/markup"
	"github.com/jorge-barreto/doccmd/internal/report"
	"github.com/jorge-barreto/doccmd/internal/runner"
	"github.com/jorge-barreto/doccmd/internal/scaffold"
	"github.com/jorge-barreto/doccmd/internal/shell"
	"github.com/jorge-barreto/doccmd/internal/ux"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		ux.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:        "doccmd",
		Usage:       "Run commands against code blocks in documentation",
		Description: "Run 'doccmd docs' for documentation on configuration, directives, and write-back.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output to stderr"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(nil, cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			runCmd(),
			initCmd(),
			reportCmd(),
			languagesCmd(),
			docsCmd(),
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run the command against every code block",
		ArgsUsage: "[paths...]",
		Flags:     runFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, projectRoot, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			args := shell.ExpandArgs(cfg.Command, map[string]string{"PROJECT_ROOT": projectRoot})
			if err := shell.Preflight(args); err != nil {
				return err
			}

			found, err := discover.Find(cfg.Files, discover.Options{Exclude: cfg.Exclude, Markup: cfg.Markup})
			if err != nil {
				return err
			}
			if len(found) == 0 {
				ux.Warn("no documents found in %s", strings.Join(cfg.Files, ", "))
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			r := &runner.Runner{Config: cfg, ProjectRoot: projectRoot}
			return r.Run(ctx, found)
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a .doccmd.yaml for the documents in this directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Show a saved run report",
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				cfg, root, err := findConfig("")
				if err != nil {
					return err
				}
				if cfg == nil || cfg.Report == "" {
					return fmt.Errorf("no report path given and none configured")
				}
				path = cfg.Report
				if !filepath.IsAbs(path) {
					path = filepath.Join(root, path)
				}
			}
			r, err := report.Load(path)
			if err != nil {
				return fmt.Errorf("loading report: %w", err)
			}
			ux.RenderReport(r)
			return nil
		},
	}
}

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List markup languages and group delimiter languages",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Print("\nMarkup languages:\n\n")
			for _, l := range markup.All() {
				fmt.Printf("  %-10s %s\n", l.Name, strings.Join(l.Extensions, " "))
			}
			fmt.Print("\nLanguages supported by group-delimiters:\n\n")
			fmt.Printf("  %s\n\n", strings.Join(markers.SupportedLanguages(), ", "))
			return nil
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'doccmd docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
