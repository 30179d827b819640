package fileops

import (
	"context"
	"os"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// Append adds text to the end of the file exactly as given, with no
// separator or newline. The old and new content are swapped atomically.
func Append(ctx context.Context, path, text string) error {
	if text == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fsherrors.NewFileError("append", path, err)
	}
	expected := ContentHash(content)

	updated := make([]byte, 0, len(content)+len(text))
	updated = append(updated, content...)
	updated = append(updated, text...)

	return WriteAtomic(ctx, path, updated, expected)
}
