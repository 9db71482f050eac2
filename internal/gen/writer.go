package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes each generated file into its package directory and
// returns the files whose content changed.
func WriteFiles(files []GeneratedFile) ([]GeneratedFile, error) {
	stale, err := Stale(files)
	if err != nil {
		return nil, err
	}

	for _, file := range stale {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", file.Dir, err)
		}

		if err := os.WriteFile(file.Path(), file.Content, filePerm); err != nil {
			return nil, fmt.Errorf("writing file %s: %w", file.Path(), err)
		}
	}

	return stale, nil
}

// Stale returns the files that are missing on disk or differ from it.
func Stale(files []GeneratedFile) ([]GeneratedFile, error) {
	var out []GeneratedFile

	for _, file := range files {
		current, err := os.ReadFile(file.Path())

		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, file)
		case err != nil:
			return nil, fmt.Errorf("reading file %s: %w", file.Path(), err)
		case !bytes.Equal(current, file.Content):
			out = append(out, file)
		}
	}

	return out, nil
}
