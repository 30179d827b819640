package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextReader loads whole files as UTF-8 text. Every failure is a
// recoverable FileError whose SkipReason tells the caller why.
type TextReader struct {
	maxFileSize  int64 // 0 = unlimited
	detector     *BinaryDetector
	textDetector *chardet.Detector
	logger       *zap.Logger
}

func NewTextReader(maxFileSize int64, logger *zap.Logger) *TextReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextReader{
		maxFileSize:  maxFileSize,
		detector:     NewBinaryDetector(),
		textDetector: chardet.NewTextDetector(),
		logger:       logger.Named("reader"),
	}
}

// ReadText returns the full decoded contents of path. A leading UTF-8 BOM
// is stripped.
func (r *TextReader) ReadText(path string) (string, error) {
	content, err := r.ReadRaw(path)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimPrefix(content, utf8BOM)), nil
}

// ReadRaw applies the same checks as ReadText but returns the bytes exactly
// as stored, for callers that write the file back.
func (r *TextReader) ReadRaw(path string) ([]byte, error) {
	if r.detector.IsBinaryByExtension(path) {
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeBinary, "read", path, errors.New("binary file extension"))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, skipFromOS(path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, skipFromOS(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeIO, "read", path, errors.New("not a regular file"))
	}
	if r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeFileTooLarge, "read", path,
			fmt.Errorf("size %d exceeds limit %d", info.Size(), r.maxFileSize))
	}

	// The limit also guards against a file growing after Stat
	var reader io.Reader = file
	if r.maxFileSize > 0 {
		reader = io.LimitReader(file, r.maxFileSize+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, skipFromOS(path, err)
	}
	if r.maxFileSize > 0 && int64(len(content)) > r.maxFileSize {
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeFileTooLarge, "read", path,
			fmt.Errorf("file grew past limit %d while reading", r.maxFileSize))
	}

	if r.detector.IsBinary(path, content) {
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeBinary, "read", path, errors.New("binary content"))
	}

	if !utf8.Valid(content) {
		charset := r.guessCharset(content)
		r.logger.Debug("not valid UTF-8", zap.String("path", path), zap.String("charset", charset))
		return nil, fsherrors.NewSkipError(fsherrors.ErrorTypeEncoding, "read", path,
			fmt.Errorf("not valid UTF-8 (looks like %s)", charset))
	}

	return content, nil
}

func (r *TextReader) guessCharset(content []byte) string {
	result, err := r.textDetector.DetectBest(content)
	if err != nil || result == nil || result.Charset == "" {
		return "unknown"
	}
	return result.Charset
}

func skipFromOS(path string, err error) *fsherrors.FileError {
	return fsherrors.NewFileError("read", path, err).WithRecoverable(true)
}
