package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/fileops"
)

var replaceTrailingFlags = []string{"dry-run"}

func replaceCommandSpec() *cli.Command {
	return &cli.Command{
		Name:      "replace",
		Aliases:   []string{"r"},
		Usage:     "Replace every occurrence of a literal string, atomically per file",
		ArgsUsage: "<find> <replace>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Only rewrite this file (looked up by name)",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Report what would change without writing",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Files rewritten in parallel (0 = number of CPUs)",
			},
		},
		OnUsageError: usageError,
		Action:       replaceCommand,
	}
}

func replaceCommand(c *cli.Context) (err error) {
	args, trailing := splitTrailingFlags(c.Args().Slice(), replaceTrailingFlags)
	if len(args) != 2 {
		return fsherrors.NewUsageError("replace requires the text to find and its replacement, got %d argument(s)", len(args))
	}
	if args[0] == "" {
		return fsherrors.NewUsageError("text to find must not be empty")
	}
	if c.Int("workers") < 0 {
		return fsherrors.NewUsageError("workers must not be negative, got %d", c.Int("workers"))
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close(&err)

	opts := fileops.ReplaceOptions{
		Find:    args[0],
		Replace: args[1],
		Workers: s.cfg.Replace.Workers,
		DryRun:  s.cfg.Replace.DryRun || c.Bool("dry-run") || trailing["dry-run"],
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}

	replacer := fileops.NewReplacer(s.files, s.reader, s.metrics, s.logger)

	var reports []fileops.FileReport
	if name := c.String("file"); name != "" {
		path, resolveErr := fileops.NewFinder(s.files, s.logger).Resolve(c.Context, name)
		if resolveErr != nil {
			return resolveErr
		}
		reports, err = replacer.ReplaceInFiles(c.Context, []string{path}, opts)
	} else {
		reports, err = replacer.ReplaceAll(c.Context, opts)
	}

	if writeErr := writeReplaceReports(s.stdout, reports, opts.DryRun); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

// writeReplaceReports prints one line per rewritten file and a total.
// Failed files are left to the returned error.
func writeReplaceReports(w io.Writer, reports []fileops.FileReport, dryRun bool) error {
	verb := "Replaced"
	if dryRun {
		verb = "Would replace"
	}

	files, total := 0, 0
	for _, report := range reports {
		if report.Err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %d replacement(s)\n", report.Label, report.Replacements); err != nil {
			return err
		}
		if report.Replacements > 0 {
			files++
			total += report.Replacements
		}
	}

	_, err := fmt.Fprintf(w, "%s %d occurrence(s) in %d file(s)\n", verb, total, files)
	return err
}
