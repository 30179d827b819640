package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/FractalWanderer/FileSystemHelper/internal/config"
	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/logging"
	"github.com/FractalWanderer/FileSystemHelper/internal/metrics"
	"github.com/FractalWanderer/FileSystemHelper/internal/scanner"
	"github.com/FractalWanderer/FileSystemHelper/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.RunContext(ctx, args); err != nil {
		_, _ = fmt.Fprintf(stderr, "fsh: %v\n", err)
		return fsherrors.ExitCode(err)
	}
	return fsherrors.ExitOK
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		_, _ = fmt.Fprintln(c.App.Writer, version.Current())
	}

	return &cli.App{
		Name:                   "fsh",
		Usage:                  "Filesystem text helper: print, append, find and replace within a directory tree",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// Errors are returned to run, which owns the exit code
		ExitErrHandler: func(*cli.Context, error) {},
		OnUsageError:   usageError,
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fsherrors.NewUsageError("unknown command %q", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory tree to operate in (default: current directory)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.kdl or .toml); none is read unless given",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only consider files matching glob patterns (e.g., --include '**/*.go')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files and directories matching glob patterns (e.g., --exclude '**/node_modules')",
			},
			&cli.BoolFlag{
				Name:  "follow-symlinks",
				Usage: "Follow symbolic links while walking the tree",
			},
			&cli.BoolFlag{
				Name:  "gitignore",
				Usage: "Also skip paths matched by the root .gitignore",
			},
			// -v belongs to the built-in --version flag
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Show debug diagnostics on stderr",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write run metrics in Prometheus text format to this file on exit",
			},
		},
		Commands: []*cli.Command{
			printCommandSpec(),
			appendCommandSpec(),
			findCommandSpec(),
			replaceCommandSpec(),
		},
	}
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return fsherrors.NewUsageError("%v", err)
}

// loadConfigWithOverrides builds the effective configuration: defaults,
// then the --config file if any, then command-line flags.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Default(".")
	if err != nil {
		return nil, err
	}

	if configPath := c.String("config"); configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.IsSet("follow-symlinks") {
		cfg.Scan.FollowSymlinks = c.Bool("follow-symlinks")
	}
	if c.IsSet("gitignore") {
		cfg.Scan.RespectGitignore = c.Bool("gitignore")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds what every command needs once its arguments are valid
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	files   *scanner.FileScanner
	reader  *scanner.TextReader
	stdout  io.Writer
	stderr  io.Writer

	metricsFile string
}

func openSession(c *cli.Context) (*session, error) {
	stderr := c.App.ErrWriter
	logCfg := logging.DefaultConfig(stderr)
	if c.Bool("verbose") {
		logCfg = logging.VerboseConfig(stderr)
	}
	logger := logging.NewOrNop(logCfg)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("root", cfg.Project.Root),
		zap.Strings("include", cfg.Include),
		zap.Strings("exclude", cfg.Exclude))

	return &session{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics.NewMetrics(),
		files:       scanner.NewFileScanner(cfg, logger),
		reader:      scanner.NewTextReader(cfg.Scan.MaxFileSize, logger),
		stdout:      c.App.Writer,
		stderr:      stderr,
		metricsFile: c.String("metrics-file"),
	}, nil
}

// close flushes the logger and writes the metrics file. A failure here only
// replaces *errp when the command itself succeeded.
func (s *session) close(errp *error) {
	if s.metricsFile != "" {
		if err := s.metrics.WriteFile(s.metricsFile); err != nil && *errp == nil {
			*errp = fsherrors.NewFileError("write", s.metricsFile, err)
		}
	}
	_ = s.logger.Sync()
}
