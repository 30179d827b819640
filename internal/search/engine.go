// Package search runs a literal text search over the files of a tree.
//
// The engine is strictly sequential: one file is enumerated, read, scanned
// and aggregated before the next is touched, and each SearchResult is handed
// to the caller as soon as it exists. Memory use is proportional to the
// matches of a single file.
package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/metrics"
	"github.com/FractalWanderer/FileSystemHelper/internal/scanner"
	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
	"github.com/FractalWanderer/FileSystemHelper/pkg/pathutil"
)

// ResultFunc receives each SearchResult in enumeration order. Returning an
// error stops the scan.
type ResultFunc func(result searchtypes.SearchResult) error

// Engine wires the enumerator, reader and aggregator together
type Engine struct {
	files   *scanner.FileScanner
	reader  *scanner.TextReader
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewEngine creates a search engine. m may be nil.
func NewEngine(files *scanner.FileScanner, reader *scanner.TextReader, m *metrics.Metrics, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		files:   files,
		reader:  reader,
		metrics: m,
		logger:  logger.Named("search"),
	}
}

// ValidateQuery rejects queries that cannot be searched
func ValidateQuery(q searchtypes.Query) error {
	if q.Text == "" {
		return fsherrors.NewUsageError("search text must not be empty")
	}
	if q.ContextLines < 0 {
		return fsherrors.NewUsageError("context size must not be negative, got %d", q.ContextLines)
	}
	return nil
}

// Search scans every file under the root for q.Text and calls emit for each
// file with at least one occurrence. With a non-nil progress sink the files
// are counted first so the sink sees a total.
func (e *Engine) Search(ctx context.Context, q searchtypes.Query, progress scanner.ProgressSink, emit ResultFunc) (searchtypes.ScanStats, error) {
	var stats searchtypes.ScanStats
	if err := ValidateQuery(q); err != nil {
		return stats, err
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordScan(time.Since(start))
		}
	}()

	var tracker *scanner.ProgressTracker
	if progress != nil {
		tracker = scanner.NewProgressTracker(progress)
		total, err := e.files.CountFiles(ctx)
		if err != nil {
			return stats, err
		}
		tracker.SetTotal(total)
		e.logger.Debug("counted files", zap.Int("total", total))
	}

	root := e.files.Root()
	err := e.files.ScanDirectory(ctx, func(path string) error {
		if tracker != nil {
			defer tracker.Advance()
		}
		stats.FilesExamined++
		e.countExamined()

		text, err := e.reader.ReadText(path)
		if err != nil {
			stats.FilesSkipped++
			e.recordSkip(path, err)
			return nil
		}

		result, ok := Aggregate(path, pathutil.DisplayLabel(path, root), text, q)
		if !ok {
			return nil
		}

		stats.FilesMatched++
		stats.Occurrences += result.Occurrences
		e.countMatch(result.Occurrences)
		return emit(result)
	})

	return stats, err
}

func (e *Engine) countExamined() {
	if e.metrics != nil {
		e.metrics.FilesExamined.Inc()
	}
}

func (e *Engine) countMatch(occurrences int) {
	if e.metrics != nil {
		e.metrics.FilesMatched.Inc()
		e.metrics.Occurrences.Add(float64(occurrences))
	}
}

// recordSkip logs a file the reader refused. Expected skips (binary, too
// large, undecodable) are debug noise; access problems are warnings.
func (e *Engine) recordSkip(path string, err error) {
	reason := "io"
	var fileErr *fsherrors.FileError
	if errors.As(err, &fileErr) {
		reason = fileErr.SkipReason()
	}

	if e.metrics != nil {
		e.metrics.RecordSkip(reason)
	}

	switch reason {
	case "binary", "too_large", "encoding":
		e.logger.Debug("skipping file", zap.String("path", path), zap.String("reason", reason), zap.Error(err))
	default:
		e.logger.Warn("skipping file", zap.String("path", path), zap.String("reason", reason), zap.Error(err))
	}
}
