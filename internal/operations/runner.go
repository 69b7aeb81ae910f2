package operations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kebairia/foldup/internal/archive"
	"github.com/kebairia/foldup/internal/config"
	"github.com/kebairia/foldup/internal/logger"
	"github.com/kebairia/foldup/internal/sizing"
)

// Runner drives one backup run: measure, gate, stage, archive, report.
// Folders are processed strictly in configuration order, one at a time;
// compressing two folders concurrently would contend for the same staging
// disk and muddy the per-folder cleanup contract.
type Runner struct {
	ctx       context.Context
	cfg       config.Config
	archiver  archive.Archiver
	log       logger.Logger
	dateStamp string
}

// Option overrides a Runner default, mainly for tests.
type Option func(*Runner)

// WithArchiver substitutes the production zstd archiver.
func WithArchiver(a archive.Archiver) Option {
	return func(r *Runner) {
		r.archiver = a
	}
}

// WithDateStamp pins the archive name stamp instead of using today's date.
func WithDateStamp(stamp string) Option {
	return func(r *Runner) {
		if stamp != "" {
			r.dateStamp = stamp
		}
	}
}

// NewRunner loads, parses, and validates the YAML config at configPath and
// builds a Runner over it.
func NewRunner(configPath string, opts ...Option) (*Runner, error) {
	var cfg config.Config
	if err := cfg.Load(configPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		ctx:       context.Background(),
		cfg:       cfg,
		archiver:  archive.ZstdArchiver{},
		log:       logger.Global(),
		dateStamp: cfg.DateStamp(time.Now()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the whole pipeline and returns the per-folder summary.
// A non-nil error means the run was refused (gate violation or staging
// failure); individual folder failures are reported in the Summary and do
// not produce an error here.
func (r *Runner) Run() (*Summary, error) {
	measured := r.measureAll()

	violations, err := sizing.Evaluate(measured, r.cfg.Limits)
	if err != nil {
		for _, v := range violations {
			r.log.Error("size gate violation", "detail", v.String())
		}
		return nil, err
	}

	if err := archive.EnsureDirectoryExist(r.cfg.Backup.StagingDir); err != nil {
		return nil, fmt.Errorf("staging area: %w", err)
	}
	if err := archive.EnsureDirectoryExist(r.cfg.Backup.DestinationDir); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	if r.cfg.FreeSpaceCheckEnabled() {
		var total int64
		for _, m := range measured {
			total += m.SizeBytes
		}
		r.checkFreeSpace(total)
	}

	summary := &Summary{Outcomes: make([]Outcome, 0, len(measured))}
	for _, m := range measured {
		outcome := r.archiveFolder(m)
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	r.report(summary)
	return summary, nil
}

// measureAll probes every configured folder. Folders whose path does not
// exist (or cannot be measured at all) are logged as unavailable and
// excluded from the backup set before the gate runs.
func (r *Runner) measureAll() []sizing.MeasuredFolder {
	measured := make([]sizing.MeasuredFolder, 0, len(r.cfg.Folders))
	for _, spec := range r.cfg.Folders {
		size, err := sizing.Measure(spec.Path)
		if err != nil {
			if errors.Is(err, sizing.ErrFolderMissing) {
				r.log.Warn("folder unavailable, excluded from this run",
					"folder", spec.Name, "path", spec.Path)
			} else {
				r.log.Warn("folder could not be measured, excluded from this run",
					"folder", spec.Name, "path", spec.Path, "error", err.Error())
			}
			continue
		}
		r.log.Info("measured folder",
			"folder", spec.Name,
			"size_gb", fmt.Sprintf("%.2f", sizing.GiB(size)))
		measured = append(measured, sizing.MeasuredFolder{FolderSpec: spec, SizeBytes: size})
	}
	return measured
}

func (r *Runner) report(summary *Summary) {
	for _, o := range summary.Outcomes {
		switch o.Status {
		case StatusSucceeded:
			r.log.Info("backup succeeded",
				"folder", o.Folder,
				"archive", o.FinalPath,
				"size_mb", fmt.Sprintf("%.1f", float64(o.SizeBytes)/(1<<20)))
		case StatusSkipped:
			r.log.Warn("backup skipped", "folder", o.Folder, "reason", o.Reason)
		case StatusFailed:
			r.log.Error("backup failed", "folder", o.Folder, "error", o.Err.Error())
		}
	}
	succeeded, skipped, failed := summary.Counts()
	r.log.Info("run complete", "succeeded", succeeded, "skipped", skipped, "failed", failed)

	recent, err := RecentBackups(r.cfg.Backup.DestinationDir, DefaultRecentLimit)
	if err != nil {
		r.log.Warn("could not list recent backups", "error", err.Error())
		return
	}
	for _, entry := range recent {
		r.log.Info("recent archive",
			"name", entry.Name,
			"size_mb", fmt.Sprintf("%.1f", entry.SizeMB),
			"modified", entry.ModTime.Format(time.RFC3339))
	}
}
