package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ComputeChecksumReader computes the SHA-256 checksum of everything read from r.
func ComputeChecksumReader(r io.Reader) ([32]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return [32]byte{}, err
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// FileChecksum computes the SHA-256 checksum of a file as lowercase hex.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: cache paths are built by the loader.
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := ComputeChecksumReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(sum[:]), nil
}

// ParseChecksum decodes a hex SHA-256 checksum.
func ParseChecksum(s string) ([32]byte, error) {
	var sum [32]byte
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return sum, fmt.Errorf("invalid checksum %q: %w", s, err)
	}
	if len(b) != len(sum) {
		return sum, fmt.Errorf("invalid checksum %q: want %d bytes, got %d", s, len(sum), len(b))
	}
	copy(sum[:], b)
	return sum, nil
}

// ValidateChecksum compares computed checksum against the expected one.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, expected [32]byte) error {
	if computed != expected {
		return fmt.Errorf("%w: got %x, want %x", ErrChecksumMismatch, computed, expected)
	}
	return nil
}
