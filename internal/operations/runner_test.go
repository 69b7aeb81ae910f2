package operations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/foldup/internal/archive"
	"github.com/kebairia/foldup/internal/config"
	"github.com/kebairia/foldup/internal/logger"
	"github.com/kebairia/foldup/internal/sizing"
)

const testStamp = "20260831"

// fakeArchiver lets tests script per-source behavior. When onCompress is
// nil it writes a small placeholder archive, like the real thing would.
type fakeArchiver struct {
	onCompress func(sourceDir, destFile string) error
}

func (f fakeArchiver) Compress(_ context.Context, sourceDir, destFile string) error {
	if f.onCompress != nil {
		return f.onCompress(sourceDir, destFile)
	}
	return os.WriteFile(destFile, []byte("archive of "+sourceDir), 0644)
}

func testRunner(t *testing.T, folders ...config.FolderSpec) *Runner {
	t.Helper()
	noCheck := false
	return &Runner{
		ctx: context.Background(),
		cfg: config.Config{
			Backup: config.BackupConfig{
				StagingDir:     filepath.Join(t.TempDir(), "staging"),
				DestinationDir: filepath.Join(t.TempDir(), "dest"),
				CheckFreeSpace: &noCheck,
			},
			Folders: folders,
		},
		archiver:  archive.ZstdArchiver{},
		log:       logger.Global(),
		dateStamp: testStamp,
	}
}

func sourceFolder(t *testing.T, name string, fileBytes int) config.FolderSpec {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.bin"), make([]byte, fileBytes), 0644))
	return config.FolderSpec{Name: name, Path: dir}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_ArchivesAllFolders(t *testing.T) {
	r := testRunner(t,
		sourceFolder(t, "Docs", 2048),
		sourceFolder(t, "Pics", 1024),
	)

	summary, err := r.Run()
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)
	for _, o := range summary.Outcomes {
		assert.Equal(t, StatusSucceeded, o.Status)
		assert.FileExists(t, o.FinalPath)
		assert.Greater(t, o.SizeBytes, int64(0))
	}

	wantDocs := testStamp + " Docs backup" + archive.Extension
	wantPics := testStamp + " Pics backup" + archive.Extension
	assert.ElementsMatch(t, []string{wantDocs, wantPics}, listNames(t, r.cfg.Backup.DestinationDir))
	assert.Empty(t, listNames(t, r.cfg.Backup.StagingDir), "staging must be clean after a run")
}

func TestRun_SameDateOverwrites(t *testing.T) {
	r := testRunner(t, sourceFolder(t, "Docs", 512))

	_, err := r.Run()
	require.NoError(t, err)
	_, err = r.Run()
	require.NoError(t, err)

	names := listNames(t, r.cfg.Backup.DestinationDir)
	require.Len(t, names, 1, "re-running on the same date must overwrite, not accumulate")
	assert.Equal(t, testStamp+" Docs backup"+archive.Extension, names[0])
}

func TestRun_GateAbortLeavesDestinationUntouched(t *testing.T) {
	r := testRunner(t, sourceFolder(t, "Huge", 4096))
	r.cfg.Limits = config.LimitsConfig{MaxFolderSizeGB: 0.000001} // ~1 KiB

	summary, err := r.Run()
	require.ErrorIs(t, err, sizing.ErrGateViolation)
	assert.Nil(t, summary)
	assert.Empty(t, listNames(t, r.cfg.Backup.DestinationDir))
}

func TestRun_TotalCeilingAbort(t *testing.T) {
	r := testRunner(t,
		sourceFolder(t, "Docs", 3000),
		sourceFolder(t, "Pics", 3000),
	)
	r.cfg.Limits = config.LimitsConfig{MaxTotalSizeGB: 0.000005} // ~5 KiB total

	_, err := r.Run()
	require.ErrorIs(t, err, sizing.ErrGateViolation)
	assert.Empty(t, listNames(t, r.cfg.Backup.DestinationDir))
}

func TestRun_CompressionFailureIsIsolated(t *testing.T) {
	docs := sourceFolder(t, "Docs", 100)
	pics := sourceFolder(t, "Pics", 100)
	r := testRunner(t, docs, pics)
	r.archiver = fakeArchiver{onCompress: func(sourceDir, destFile string) error {
		if sourceDir == docs.Path {
			// Leave a partial file behind, as an interrupted compressor would.
			_ = os.WriteFile(destFile, []byte("partial"), 0644)
			return errors.New("disk full")
		}
		return os.WriteFile(destFile, []byte("ok"), 0644)
	}}

	summary, err := r.Run()
	require.NoError(t, err, "per-folder failures must not fail the run")
	require.Len(t, summary.Outcomes, 2)

	assert.Equal(t, StatusFailed, summary.Outcomes[0].Status)
	assert.ErrorContains(t, summary.Outcomes[0].Err, "disk full")
	assert.Equal(t, StatusSucceeded, summary.Outcomes[1].Status)

	assert.Empty(t, listNames(t, r.cfg.Backup.StagingDir),
		"failed job must not leave a staged archive behind")
	assert.Equal(t,
		[]string{testStamp + " Pics backup" + archive.Extension},
		listNames(t, r.cfg.Backup.DestinationDir))
}

func TestRun_MoveFailureCleansStaging(t *testing.T) {
	docs := sourceFolder(t, "Docs", 100)
	r := testRunner(t, docs)
	r.archiver = fakeArchiver{}

	// A directory squatting on the final path makes the move fail.
	finalPath := filepath.Join(r.cfg.Backup.DestinationDir, testStamp+" Docs backup"+archive.Extension)
	require.NoError(t, os.MkdirAll(finalPath, 0755))

	summary, err := r.Run()
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, StatusFailed, summary.Outcomes[0].Status)
	assert.Empty(t, listNames(t, r.cfg.Backup.StagingDir))
}

func TestRun_VanishedSourceIsSkipped(t *testing.T) {
	docs := sourceFolder(t, "Docs", 100)
	pics := sourceFolder(t, "Pics", 100)
	r := testRunner(t, docs, pics)
	// While Docs compresses, Pics disappears: measured but gone by job time.
	r.archiver = fakeArchiver{onCompress: func(sourceDir, destFile string) error {
		require.NoError(t, os.RemoveAll(pics.Path))
		return os.WriteFile(destFile, []byte("ok"), 0644)
	}}

	summary, err := r.Run()
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, StatusSucceeded, summary.Outcomes[0].Status)
	assert.Equal(t, StatusSkipped, summary.Outcomes[1].Status)
	assert.Equal(t, "source not found", summary.Outcomes[1].Reason)
}

func TestRun_MissingFolderExcludedBeforeGate(t *testing.T) {
	docs := sourceFolder(t, "Docs", 100)
	ghost := config.FolderSpec{Name: "Ghost", Path: filepath.Join(t.TempDir(), "nope")}
	r := testRunner(t, ghost, docs)

	summary, err := r.Run()
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 1, "unavailable folder is excluded, not reported as a job")
	assert.Equal(t, "Docs", summary.Outcomes[0].Folder)
}

func TestRun_NoFolders(t *testing.T) {
	r := testRunner(t)
	summary, err := r.Run()
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
}

func TestNewRunner_EndToEnd(t *testing.T) {
	docs := sourceFolder(t, "Docs", 2048)
	pics := sourceFolder(t, "Pics", 1024)
	staging := filepath.Join(t.TempDir(), "staging")
	dest := filepath.Join(t.TempDir(), "dest")

	yaml := fmt.Sprintf(`
backup:
  staging_dir: %q
  destination_dir: %q
  check_free_space: false
limits:
  max_folder_size_gb: 10
folders:
  - name: Docs
    path: %q
  - name: Pics
    path: %q
`, staging, dest, docs.Path, pics.Path)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))

	r, err := NewRunner(configPath, WithDateStamp(testStamp))
	require.NoError(t, err)

	summary, err := r.Run()
	require.NoError(t, err)
	succeeded, skipped, failed := summary.Counts()
	assert.Equal(t, 2, succeeded)
	assert.Zero(t, skipped)
	assert.Zero(t, failed)

	assert.ElementsMatch(t,
		[]string{
			testStamp + " Docs backup" + archive.Extension,
			testStamp + " Pics backup" + archive.Extension,
		},
		listNames(t, dest))
	assert.Empty(t, listNames(t, staging))
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("backup:\n  staging_dir: /only\n"), 0644))

	_, err := NewRunner(configPath)
	require.ErrorIs(t, err, config.ErrValidateConfig)
}
