package fileops

import (
	"io"
	"os"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// Print writes a newline followed by the file's contents, unmodified
func Print(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fsherrors.NewFileError("print", path, err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}
