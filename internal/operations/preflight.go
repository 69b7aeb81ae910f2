package operations

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// checkFreeSpace warns when the staging or destination filesystem reports
// less free space than the measured backup set. The ceilings in the size
// gate are the abort mechanism; this check is advisory only, since the
// archives usually compress well below the measured size.
func (r *Runner) checkFreeSpace(totalBytes int64) {
	r.warnIfTight("staging", r.cfg.Backup.StagingDir, totalBytes)
	r.warnIfTight("destination", r.cfg.Backup.DestinationDir, totalBytes)
}

func (r *Runner) warnIfTight(role, path string, totalBytes int64) {
	usage, err := disk.Usage(path)
	if err != nil {
		r.log.Warn("free space probe failed", "dir", role, "path", path, "error", err.Error())
		return
	}
	if usage.Free < uint64(totalBytes) {
		r.log.Warn("filesystem may be too small for this backup set",
			"dir", role,
			"path", path,
			"free_mb", fmt.Sprintf("%.1f", float64(usage.Free)/(1<<20)),
			"needed_mb", fmt.Sprintf("%.1f", float64(totalBytes)/(1<<20)))
	}
}
