// Package archive extracts corpus zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Common errors.
var (
	ErrEntryNotFound = errors.New("entry not found in archive")
	ErrIllegalPath   = errors.New("archive entry escapes destination directory")
)

// maxPrealloc caps the buffer reserved up front from an entry's declared size.
const maxPrealloc = 1 << 30

// ReadEntry reads the named entry of the zip archive at path.
func ReadEntry(path, name string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", name, path, err)
		}
		defer rc.Close()

		data := make([]byte, 0, min(f.UncompressedSize64, maxPrealloc))
		buf := make([]byte, 1<<20)
		for {
			n, err := rc.Read(buf)
			data = append(data, buf[:n]...)
			if errors.Is(err, io.EOF) {
				return data, nil
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read %s in %s: %w", name, path, err)
			}
		}
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, path)
}

// ExtractAll writes every entry of the zip archive at path below dest and
// returns the number of files written.
func ExtractAll(path, dest string) (int, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, err
	}

	files := 0
	for _, f := range zr.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return files, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return files, err
		}
		files++
	}

	return files, nil
}

// entryPath resolves an entry name below root, rejecting absolute paths and
// ".." components that would leave it.
func entryPath(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrIllegalPath, name)
	}

	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrIllegalPath, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	//nolint:gosec // G304: target is checked to stay below the destination directory.
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	//nolint:gosec // G110: corpus archives are large by nature; size comes from the trusted archive header.
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return out.Close()
}
