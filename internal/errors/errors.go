package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Error types for the filesystem helper
type ErrorType string

const (
	ErrorTypeUsage     ErrorType = "usage"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeAmbiguous ErrorType = "ambiguous"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypeBinary       ErrorType = "binary"
	ErrorTypeEncoding     ErrorType = "encoding"
	ErrorTypeIO           ErrorType = "io"

	ErrorTypeConfig ErrorType = "config"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitNotFound    = 1
	ExitIO          = 2
	ExitUsage       = 64
	ExitInterrupted = 130
)

// UsageError reports malformed command-line input. It is raised before any
// filesystem access happens.
type UsageError struct {
	Message   string
	Timestamp time.Time
}

// NewUsageError creates a usage error from a format string
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *UsageError) Error() string {
	return e.Message
}

// NotFoundError reports that a file looked up by name does not exist in the tree
type NotFoundError struct {
	Name        string
	Root        string
	Suggestions []string
	Timestamp   time.Time
}

// NewNotFoundError creates a new not-found error
func NewNotFoundError(name, root string, suggestions []string) *NotFoundError {
	return &NotFoundError{
		Name:        name,
		Root:        root,
		Suggestions: suggestions,
		Timestamp:   time.Now(),
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no file named %q under %s", e.Name, e.Root)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// AmbiguousError reports that a name matched more than one file
type AmbiguousError struct {
	Name       string
	Candidates []string
	Timestamp  time.Time
}

// NewAmbiguousError creates a new ambiguity error
func NewAmbiguousError(name string, candidates []string) *AmbiguousError {
	return &AmbiguousError{
		Name:       name,
		Candidates: candidates,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d files named %q, pass a path to choose one: %s",
		len(e.Candidates), e.Name, strings.Join(e.Candidates, ", "))
}

// FileError represents a file-related error. Recoverable file errors are
// skipped by scans; unrecoverable ones end the command.
type FileError struct {
	Type        ErrorType
	Path        string
	Operation   string
	Underlying  error
	Recoverable bool
	Timestamp   time.Time
}

// NewFileError creates a new file error, classifying the underlying error
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Type:       classify(err),
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewSkipError creates a recoverable file error of the given type
func NewSkipError(errType ErrorType, op, path string, err error) *FileError {
	return &FileError{
		Type:        errType,
		Path:        path,
		Operation:   op,
		Underlying:  err,
		Recoverable: true,
		Timestamp:   time.Now(),
	}
}

// WithRecoverable marks the error as recoverable
func (e *FileError) WithRecoverable(recoverable bool) *FileError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether a scan may skip the file and continue
func (e *FileError) IsRecoverable() bool {
	return e.Recoverable
}

// SkipReason returns the short reason used in diagnostics and metrics labels
func (e *FileError) SkipReason() string {
	switch e.Type {
	case ErrorTypeFileNotFound:
		return "not_found"
	case ErrorTypeFileTooLarge:
		return "too_large"
	default:
		return string(e.Type)
	}
}

func classify(err error) ErrorType {
	switch {
	case err == nil:
		return ErrorTypeIO
	case stderrors.Is(err, fs.ErrNotExist):
		return ErrorTypeFileNotFound
	case stderrors.Is(err, fs.ErrPermission):
		return ErrorTypePermission
	default:
		return ErrorTypeIO
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// ExitCode maps an error to the process exit code. A MultiError takes the
// code of its first member.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		usageErr     *UsageError
		ambiguousErr *AmbiguousError
		configErr    *ConfigError
		notFoundErr  *NotFoundError
		fileErr      *FileError
		multiErr     *MultiError
	)

	switch {
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case stderrors.As(err, &multiErr) && len(multiErr.Errors) > 0:
		return ExitCode(multiErr.Errors[0])
	case stderrors.As(err, &usageErr), stderrors.As(err, &ambiguousErr), stderrors.As(err, &configErr):
		return ExitUsage
	case stderrors.As(err, &notFoundErr):
		return ExitNotFound
	case stderrors.As(err, &fileErr):
		return ExitIO
	default:
		return ExitIO
	}
}
