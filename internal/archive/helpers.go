package archive

import (
	"fmt"
	"os"
)

// EnsureDirectoryExist creates dirPath and any missing parents. It is a
// no-op when the directory already exists.
func EnsureDirectoryExist(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dirPath, err)
	}
	return nil
}
