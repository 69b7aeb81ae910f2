package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Extension is the suffix of every archive foldup produces.
const Extension = ".tar.zst"

// Archiver compresses the contents of a directory into a single archive
// file. Implementations must overwrite destFile if it already exists.
type Archiver interface {
	Compress(ctx context.Context, sourceDir, destFile string) error
}

// ZstdArchiver writes tar archives through a Zstandard compressor.
type ZstdArchiver struct{}

var _ Archiver = ZstdArchiver{}

// Compress tars everything under sourceDir (paths stored relative to it)
// and compresses the stream with zstd into destFile.
func (ZstdArchiver) Compress(ctx context.Context, sourceDir, destFile string) error {
	outFile, err := os.Create(destFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	zw, err := zstd.NewWriter(outFile)
	if err != nil {
		return fmt.Errorf("failed to create Zstandard writer: %w", err)
	}
	defer zw.Close()

	tw := tar.NewWriter(zw)

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", sourceDir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize compressed stream: %w", err)
	}
	return outFile.Sync()
}

func addEntry(tw *tar.Writer, path, rel string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	// Regular files and directories only; sockets, devices and symlinks
	// have no place in a folder archive.
	if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to compress %s: %w", rel, err)
	}
	return nil
}
