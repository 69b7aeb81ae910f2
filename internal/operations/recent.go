package operations

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kebairia/foldup/internal/archive"
)

// DefaultRecentLimit bounds the recent-archives listing.
const DefaultRecentLimit = 8

// RecentArchive is one line of the recent-backups listing.
type RecentArchive struct {
	Name    string
	SizeMB  float64
	ModTime time.Time
}

// RecentBackups lists the archives at destDir, newest first, truncated to
// limit. The listing is informational only; callers should degrade to an
// empty list on error rather than treat it as fatal.
func RecentBackups(destDir string, limit int) ([]RecentArchive, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("read destination %s: %w", destDir, err)
	}

	recent := make([]RecentArchive, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), " backup"+archive.Extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		recent = append(recent, RecentArchive{
			Name:    entry.Name(),
			SizeMB:  float64(info.Size()) / (1 << 20),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].ModTime.After(recent[j].ModTime)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}
