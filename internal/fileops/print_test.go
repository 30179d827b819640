package fileops

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "hello\nworld\n", "\nhello\nworld\n"},
		{"no trailing newline", "hello", "\nhello"},
		{"empty file", "", "\n"},
		{"crlf kept", "a\r\nb\r\n", "\na\r\nb\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			var buf bytes.Buffer
			require.NoError(t, Print(&buf, path))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrint_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, filepath.Join(t.TempDir(), "missing.txt"))

	var fileErr *fsherrors.FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, fsherrors.ErrorTypeFileNotFound, fileErr.Type)
	assert.Empty(t, buf.String())
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name    string
		content string
		text    string
		want    string
	}{
		{"no separator added", "world", "hello", "worldhello"},
		{"newline only if given", "line1\n", "line2\n", "line1\nline2\n"},
		{"empty file", "", "first", "first"},
		{"empty text is a no-op", "same", "", "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "f.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			require.NoError(t, Append(context.Background(), path, tt.text))
			assert.Equal(t, tt.want, readFile(t, path))
			assert.Empty(t, tempLeftovers(t, dir))
		})
	}
}

func TestAppend_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	err := Append(context.Background(), path, "x")
	require.Error(t, err)
	assert.Equal(t, fsherrors.ExitIO, fsherrors.ExitCode(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "append must not create the file")
}
