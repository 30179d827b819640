package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError("search text must not be %s", "empty")

	if err.Error() != "search text must not be empty" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if ExitCode(err) != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, ExitCode(err))
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("notes.txt", "/work", nil)

	expectedMsg := `no file named "notes.txt" under /work`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	withHints := NewNotFoundError("note.txt", "/work", []string{"notes.txt", "node.txt"})
	expectedMsg = `no file named "note.txt" under /work (did you mean notes.txt, node.txt?)`
	if withHints.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, withHints.Error())
	}

	if ExitCode(err) != ExitNotFound {
		t.Errorf("Expected exit code %d, got %d", ExitNotFound, ExitCode(err))
	}
}

func TestAmbiguousError(t *testing.T) {
	err := NewAmbiguousError("main.go", []string{"a/main.go", "b/main.go"})

	expectedMsg := `2 files named "main.go", pass a path to choose one: a/main.go, b/main.go`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
	if ExitCode(err) != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, ExitCode(err))
	}
}

func TestFileError(t *testing.T) {
	tests := []struct {
		name       string
		underlying error
		wantType   ErrorType
		wantReason string
	}{
		{"missing", fs.ErrNotExist, ErrorTypeFileNotFound, "not_found"},
		{"permission", fs.ErrPermission, ErrorTypePermission, "permission"},
		{"wrapped permission", fmt.Errorf("open x: %w", fs.ErrPermission), ErrorTypePermission, "permission"},
		{"other", errors.New("disk on fire"), ErrorTypeIO, "io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFileError("read", "/path/to/file", tt.underlying)
			if err.Type != tt.wantType {
				t.Errorf("Expected Type %v, got %v", tt.wantType, err.Type)
			}
			if err.SkipReason() != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, err.SkipReason())
			}
			if err.IsRecoverable() {
				t.Errorf("Expected NewFileError to be unrecoverable by default")
			}
			if !errors.Is(err, tt.underlying) {
				t.Errorf("Expected error to unwrap to underlying error")
			}
		})
	}
}

func TestSkipError(t *testing.T) {
	underlying := errors.New("contains NUL bytes")
	err := NewSkipError(ErrorTypeBinary, "read", "/tmp/a.bin", underlying)

	if !err.IsRecoverable() {
		t.Errorf("Expected skip error to be recoverable")
	}
	if err.SkipReason() != "binary" {
		t.Errorf("Expected reason binary, got %s", err.SkipReason())
	}

	expectedMsg := "file read failed for /tmp/a.bin: contains NUL bytes"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("must be >= 0")
	err := NewConfigError("search.context_lines", "-1", underlying)

	expectedMsg := "config error for field search.context_lines (value -1): must be >= 0"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}
	if ExitCode(err) != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, ExitCode(err))
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")

	multi := NewMultiError([]error{err1, nil, err2})
	if len(multi.Errors) != 2 {
		t.Errorf("Expected 2 errors after filtering nil, got %d", len(multi.Errors))
	}
	if !errors.Is(multi, err2) {
		t.Errorf("Expected multi error to contain err2")
	}

	if NewMultiError(nil).ErrorOrNil() != nil {
		t.Errorf("Expected empty multi error to collapse to nil")
	}

	single := NewMultiError([]error{err1})
	if single.Error() != "error 1" {
		t.Errorf("Expected single error message, got %q", single.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitInterrupted},
		{"wrapped canceled", fmt.Errorf("scan: %w", context.Canceled), ExitInterrupted},
		{"fatal file", NewFileError("write", "/x", fs.ErrPermission), ExitIO},
		{"wrapped not found", fmt.Errorf("print: %w", NewNotFoundError("a", "/", nil)), ExitNotFound},
		{"multi takes first", NewMultiError([]error{NewUsageError("bad"), NewFileError("write", "/x", nil)}), ExitUsage},
		{"plain", errors.New("boom"), ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
