package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exists reports whether path exists. Errors other than "not exist" are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Download copies rawURL into path and returns the number of bytes written.
//
// The body goes to a temporary file in the same directory which is renamed
// over path only after the copy succeeds. If checksum is non-empty it must be
// the hex SHA-256 of the body, otherwise nothing is written and the error
// wraps ErrChecksumMismatch.
func Download(ctx context.Context, src Source, rawURL, path, checksum string) (n int64, err error) {
	var want [32]byte
	if checksum != "" {
		if want, err = ParseChecksum(checksum); err != nil {
			return 0, err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create cache directory: %w", err)
	}

	body, err := src.Open(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	h := sha256.New()
	n, err = io.Copy(io.MultiWriter(tmp, h), body)
	if err != nil {
		return n, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	if err = tmp.Close(); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}

	if checksum != "" {
		var got [32]byte
		copy(got[:], h.Sum(nil))
		if err = ValidateChecksum(got, want); err != nil {
			return n, fmt.Errorf("%s: %w", rawURL, err)
		}
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("failed to move download into place: %w", err)
	}
	return n, nil
}
