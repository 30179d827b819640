package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/FractalWanderer/FileSystemHelper/internal/config"
	"github.com/FractalWanderer/FileSystemHelper/internal/display"
	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/scanner"
	"github.com/FractalWanderer/FileSystemHelper/internal/search"
	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// Boolean find flags that may also follow the positional arguments
var findTrailingFlags = []string{"no-highlight", "json", "merge", "progress", "no-progress"}

func findCommandSpec() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Aliases:   []string{"f"},
		Usage:     "Search all files for a literal, case-sensitive substring",
		ArgsUsage: "<text> [context_size]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-highlight",
				Usage: "Print matches without highlighting",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output one JSON object per file, then a summary",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Merge overlapping or adjacent context windows within a file",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Always show a progress bar on stderr",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Never show a progress bar",
			},
		},
		OnUsageError: usageError,
		Action:       findCommand,
	}
}

func findCommand(c *cli.Context) (err error) {
	args, trailing := splitTrailingFlags(c.Args().Slice(), findTrailingFlags)
	if len(args) < 1 || len(args) > 2 {
		return fsherrors.NewUsageError("find requires the text to search for and an optional context size, got %d argument(s)", len(args))
	}

	flag := func(name string) bool { return c.Bool(name) || trailing[name] }
	if flag("progress") && flag("no-progress") {
		return fsherrors.NewUsageError("--progress and --no-progress are mutually exclusive")
	}

	q := searchtypes.Query{Text: args[0]}
	contextSet := len(args) == 2
	if contextSet {
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return fsherrors.NewUsageError("context size must be an integer, got %q", args[1])
		}
		q.ContextLines = n
	}
	if err := search.ValidateQuery(q); err != nil {
		return err
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close(&err)

	if !contextSet {
		q.ContextLines = s.cfg.Search.ContextLines
	}
	q.MergeWindows = s.cfg.Search.MergeWindows || flag("merge")

	var formatter display.ResultFormatter
	if s.cfg.Search.JSON || flag("json") {
		formatter = display.NewJSONFormatter(s.stdout, q.Text)
	} else {
		var highlighter display.Highlighter = display.NewLipglossHighlighter()
		if !s.cfg.Search.Highlight || flag("no-highlight") {
			highlighter = display.PlainHighlighter{}
		}
		formatter = display.NewTextFormatter(s.stdout, q.Text, highlighter)
	}

	progressMode := s.cfg.Search.Progress
	switch {
	case flag("progress"):
		progressMode = config.ProgressAlways
	case flag("no-progress"):
		progressMode = config.ProgressNever
	}

	var (
		bar  *display.ProgressBar
		sink scanner.ProgressSink
	)
	if showProgress(progressMode, s.stderr) {
		bar = display.NewProgressBar(s.stderr)
		sink = bar
	}

	emit := func(result searchtypes.SearchResult) error {
		if bar != nil {
			bar.Clear()
		}
		return formatter.WriteResult(result)
	}

	engine := search.NewEngine(s.files, s.reader, s.metrics, s.logger)
	start := time.Now()
	stats, err := engine.Search(c.Context, q, sink, emit)
	if bar != nil {
		bar.Clear()
	}
	if err != nil {
		return err
	}

	return formatter.WriteSummary(stats, time.Since(start))
}

// showProgress resolves the progress mode; auto means stderr is a terminal
func showProgress(mode string, stderr any) bool {
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressNever:
		return false
	}
	f, ok := stderr.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// splitTrailingFlags pulls the named boolean flags out of args, which
// urfave/cli leaves unparsed once the first positional argument is seen.
// Any other argument, including an unknown "--word", stays positional, as
// does everything after a bare "--".
func splitTrailingFlags(args, names []string) ([]string, map[string]bool) {
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	positional := make([]string, 0, len(args))
	found := make(map[string]bool)
	for i, arg := range args {
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if name, ok := strings.CutPrefix(arg, "--"); ok && known[name] {
			found[name] = true
			continue
		}
		positional = append(positional, arg)
	}
	return positional, found
}
