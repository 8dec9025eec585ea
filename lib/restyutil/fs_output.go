package restyutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes each message to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates the next unused run-NNN directory under `dir`
// and writes messages there. Nothing already under `dir` is touched.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return FilesystemOutput{}, err
	}
	for i := 1; ; i++ {
		run := filepath.Join(dir, fmt.Sprintf("run-%03d", i))
		err := os.Mkdir(run, 0700)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return FilesystemOutput{}, err
		}
		return FilesystemOutput{directory: run}, nil
	}
}

// Dir is the directory messages are written to.
func (o FilesystemOutput) Dir() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
