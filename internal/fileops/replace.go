package fileops

import (
	"bytes"
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/metrics"
	"github.com/FractalWanderer/FileSystemHelper/internal/scanner"
	"github.com/FractalWanderer/FileSystemHelper/pkg/pathutil"
)

// ReplaceOptions configures a find-and-replace run
type ReplaceOptions struct {
	Find    string
	Replace string
	Workers int  // 0 = NumCPU
	DryRun  bool // Count replacements without writing
}

// FileReport is the outcome for one file. Err is nil on success.
type FileReport struct {
	Path         string
	Label        string
	Replacements int
	Err          error
}

// Replacer performs literal find-and-replace over files under a root
type Replacer struct {
	files   *scanner.FileScanner
	reader  *scanner.TextReader
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewReplacer creates a replacer. m may be nil.
func NewReplacer(files *scanner.FileScanner, reader *scanner.TextReader, m *metrics.Metrics, logger *zap.Logger) *Replacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replacer{
		files:   files,
		reader:  reader,
		metrics: m,
		logger:  logger.Named("replace"),
	}
}

// ReplaceAll rewrites every readable text file under the root that contains
// opts.Find. Files that cannot be read as text are passed over silently, as
// a search would. Reports are sorted by path; the error is non-nil if any
// file failed or the run was interrupted.
func (r *Replacer) ReplaceAll(ctx context.Context, opts ReplaceOptions) ([]FileReport, error) {
	if err := validateReplace(opts); err != nil {
		return nil, err
	}

	return r.run(ctx, opts, false, func(gctx context.Context, submit func(string)) error {
		return r.files.ScanDirectory(gctx, func(path string) error {
			submit(path)
			return nil
		})
	})
}

// ReplaceInFiles rewrites the given files only. Unlike ReplaceAll, a file
// that cannot be read is reported as a failure.
func (r *Replacer) ReplaceInFiles(ctx context.Context, paths []string, opts ReplaceOptions) ([]FileReport, error) {
	if err := validateReplace(opts); err != nil {
		return nil, err
	}

	return r.run(ctx, opts, true, func(gctx context.Context, submit func(string)) error {
		for _, path := range paths {
			if err := gctx.Err(); err != nil {
				return err
			}
			submit(path)
		}
		return nil
	})
}

func validateReplace(opts ReplaceOptions) error {
	if opts.Find == "" {
		return fsherrors.NewUsageError("text to find must not be empty")
	}
	if opts.Workers < 0 {
		return fsherrors.NewUsageError("workers must not be negative, got %d", opts.Workers)
	}
	return nil
}

// run fans files out to a bounded errgroup. Workers never fail the group;
// per-file errors travel in the reports.
func (r *Replacer) run(ctx context.Context, opts ReplaceOptions, explicit bool, produce func(context.Context, func(string)) error) ([]FileReport, error) {
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu      sync.Mutex
		reports []FileReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	submit := func(path string) {
		g.Go(func() error {
			report, ok := r.replaceFile(gctx, path, opts, explicit)
			if !ok {
				return nil
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}

	produceErr := produce(gctx, submit)
	if err := g.Wait(); err != nil && produceErr == nil {
		produceErr = err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	if produceErr != nil {
		return reports, produceErr
	}
	if err := ctx.Err(); err != nil {
		return reports, err
	}

	var failures []error
	for _, report := range reports {
		if report.Err != nil {
			failures = append(failures, report.Err)
		}
	}
	return reports, fsherrors.NewMultiError(failures).ErrorOrNil()
}

// replaceFile handles one file. ok is false when there is nothing to report.
func (r *Replacer) replaceFile(ctx context.Context, path string, opts ReplaceOptions, explicit bool) (FileReport, bool) {
	report := FileReport{Path: path, Label: pathutil.DisplayLabel(path, r.files.Root())}
	if ctx.Err() != nil {
		return report, false
	}

	content, err := r.reader.ReadRaw(path)
	if err != nil {
		if !explicit {
			r.logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
			return report, false
		}
		report.Err = err
		r.countFailure()
		return report, true
	}

	find := []byte(opts.Find)
	count := bytes.Count(content, find)
	if count == 0 {
		return report, explicit
	}
	report.Replacements = count

	if opts.DryRun {
		return report, true
	}

	updated := bytes.ReplaceAll(content, find, []byte(opts.Replace))
	if err := WriteAtomic(ctx, path, updated, ContentHash(content)); err != nil {
		report.Err = err
		report.Replacements = 0
		r.countFailure()
		r.logger.Warn("replace failed", zap.String("path", path), zap.Error(err))
		return report, true
	}

	if r.metrics != nil {
		r.metrics.FilesRewritten.Inc()
		r.metrics.Replacements.Add(float64(count))
	}
	return report, true
}

func (r *Replacer) countFailure() {
	if r.metrics != nil {
		r.metrics.ReplaceErrors.Inc()
	}
}
