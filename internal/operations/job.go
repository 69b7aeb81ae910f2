package operations

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kebairia/foldup/internal/archive"
	"github.com/kebairia/foldup/internal/sizing"
)

// archiveFolder runs one folder's archive job: compress into staging, then
// relocate to the destination. Every failure is folded into the returned
// Outcome so one bad folder never stops its siblings. Whatever happens, no
// staged file may survive a failed job.
func (r *Runner) archiveFolder(m sizing.MeasuredFolder) Outcome {
	archiveName := fmt.Sprintf("%s %s backup%s", r.dateStamp, m.Name, archive.Extension)
	stagedPath := filepath.Join(r.cfg.Backup.StagingDir, archiveName)
	finalPath := filepath.Join(r.cfg.Backup.DestinationDir, archiveName)

	// The source was measured earlier in the run; it may have vanished
	// since.
	if _, err := os.Stat(m.Path); err != nil {
		if os.IsNotExist(err) {
			return Outcome{Folder: m.Name, Status: StatusSkipped, Reason: "source not found"}
		}
		return Outcome{
			Folder: m.Name,
			Status: StatusFailed,
			Err:    fmt.Errorf("stat source %s: %w", m.Path, err),
		}
	}

	r.log.Info("archiving folder",
		"folder", m.Name,
		"source", m.Path,
		"staged", stagedPath,
		"final", finalPath)

	if err := r.archiver.Compress(r.ctx, m.Path, stagedPath); err != nil {
		r.discardStaged(stagedPath)
		return Outcome{
			Folder: m.Name,
			Status: StatusFailed,
			Err:    fmt.Errorf("compress %q: %w", m.Name, err),
		}
	}

	if err := archive.MoveFile(stagedPath, finalPath); err != nil {
		r.discardStaged(stagedPath)
		return Outcome{
			Folder: m.Name,
			Status: StatusFailed,
			Err:    fmt.Errorf("move %q to destination: %w", m.Name, err),
		}
	}

	outcome := Outcome{Folder: m.Name, Status: StatusSucceeded, FinalPath: finalPath}
	if info, err := os.Stat(finalPath); err == nil {
		outcome.SizeBytes = info.Size()
	}
	return outcome
}

// discardStaged removes a staged archive left behind by a failed job so
// the staging area never accumulates partial or unmoved archives.
func (r *Runner) discardStaged(stagedPath string) {
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		r.log.Warn("could not clean staged archive", "path", stagedPath, "error", err.Error())
	}
}
