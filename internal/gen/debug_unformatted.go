package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes code that failed to format into dir as
// <name>.unformatted.go, so the template output can be inspected.
func writeDebugUnformatted(dir, filename string, content []byte) error {
	if dir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating debug directory: %w", err)
	}

	name := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(dir, name), content, filePerm)
}
