package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip archive holding entries in order.
func writeZip(t *testing.T, path string, entries [][2]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestReadEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enwik8.zip")
	writeZip(t, path, [][2]string{
		{"README", "ignore me"},
		{"enwik8", "<mediawiki>\xff</mediawiki>"},
	})

	data, err := ReadEntry(path, "enwik8")
	require.NoError(t, err)
	assert.Equal(t, []byte("<mediawiki>\xff</mediawiki>"), data)

	_, err = ReadEntry(path, "enwik9")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = ReadEntry(filepath.Join(t.TempDir(), "missing.zip"), "enwik8")
	assert.Error(t, err)
}

func TestExtractAll(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "wikitext-2-v1.zip")
	writeZip(t, path, [][2]string{
		{"wikitext-2/", ""},
		{"wikitext-2/wiki.train.tokens", "a b\n"},
		{"wikitext-2/wiki.valid.tokens", "a\n"},
		{"wikitext-2/wiki.test.tokens", "b\n"},
	})

	dest := filepath.Join(tmp, "out")
	n, err := ExtractAll(path, dest)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(filepath.Join(dest, "wikitext-2", "wiki.train.tokens"))
	require.NoError(t, err)
	assert.Equal(t, "a b\n", string(data))
}

func TestExtractAll_RejectsTraversal(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent dir", "../evil.txt"},
		{"nested parent", "ok/../../evil.txt"},
		{"absolute", "/etc/evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			path := filepath.Join(tmp, "bad.zip")
			writeZip(t, path, [][2]string{{tt.entry, "x"}})

			_, err := ExtractAll(path, filepath.Join(tmp, "out"))
			assert.ErrorIs(t, err, ErrIllegalPath)

			_, statErr := os.Stat(filepath.Join(tmp, "evil.txt"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
