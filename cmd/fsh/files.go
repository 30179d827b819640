package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/fileops"
)

func printCommandSpec() *cli.Command {
	return &cli.Command{
		Name:      "print",
		Aliases:   []string{"p"},
		Usage:     "Print a file's contents, looked up by name",
		ArgsUsage: "<file_name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "print",
				Usage: "Name or path of the file to print",
			},
		},
		OnUsageError: usageError,
		Action:       printCommand,
	}
}

func appendCommandSpec() *cli.Command {
	return &cli.Command{
		Name:         "append",
		Aliases:      []string{"a"},
		Usage:        "Append text verbatim to a file, looked up by name",
		ArgsUsage:    "<file_name> <text>",
		OnUsageError: usageError,
		Action:       appendCommand,
	}
}

func printCommand(c *cli.Context) (err error) {
	name := c.String("print")
	switch {
	case name != "" && c.Args().Present():
		return fsherrors.NewUsageError("give the file name either with --print or as an argument, not both")
	case name == "" && c.NArg() == 1:
		name = c.Args().First()
	case name == "":
		return fsherrors.NewUsageError("print requires exactly one file name")
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close(&err)

	path, err := fileops.NewFinder(s.files, s.logger).Resolve(c.Context, name)
	if err != nil {
		return err
	}
	s.logger.Debug("printing file", zap.String("path", path))
	return fileops.Print(s.stdout, path)
}

func appendCommand(c *cli.Context) (err error) {
	if c.NArg() != 2 {
		return fsherrors.NewUsageError("append requires a file name and the text to append, got %d argument(s)", c.NArg())
	}
	name, text := c.Args().Get(0), c.Args().Get(1)

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close(&err)

	path, err := fileops.NewFinder(s.files, s.logger).Resolve(c.Context, name)
	if err != nil {
		return err
	}
	if err := fileops.Append(c.Context, path, text); err != nil {
		return err
	}

	if text != "" {
		s.metrics.FilesRewritten.Inc()
	}
	s.logger.Debug("appended to file", zap.String("path", path), zap.Int("bytes", len(text)))
	return nil
}
