package sizing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kebairia/foldup/internal/config"
)

// ErrFolderMissing indicates that a configured folder does not exist on disk.
var ErrFolderMissing = errors.New("folder not found")

// MeasuredFolder pairs a folder spec with its measured size.
type MeasuredFolder struct {
	config.FolderSpec
	SizeBytes int64
}

// Measure walks the directory tree rooted at path and sums the byte length
// of every regular file. Entries that cannot be read are skipped, so the
// result is a best-effort lower bound rather than an exact figure.
// A missing root returns ErrFolderMissing.
func Measure(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrFolderMissing, path)
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s is not a directory", ErrFolderMissing, path)
	}

	var total int64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry; exclude it and keep walking.
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += fi.Size()
		return nil
	})

	return total, nil
}
