package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yargevad/filepathx"

	"github.com/born-ml/lmdata/internal/fetch"
)

// CacheFile is a corpus file found in the cache directory.
type CacheFile struct {
	Dataset string
	Path    string
	Size    int64
}

// SHA256 returns the hex SHA-256 of the file, in the form Config.Checksums expects.
func (f CacheFile) SHA256() (string, error) {
	return fetch.FileChecksum(f.Path)
}

// cachePatterns lists the files each dataset keeps below the cache root.
var cachePatterns = []struct {
	dataset string
	pattern string
}{
	{Enwik8, enwik8Archive},
	{PTB, "ptb/**/*.txt"},
	{WikiText2, "wikitext-2/**/*.tokens"},
	{WikiText103, "wikitext-103/**/*.tokens"},
}

// CacheFiles lists the cached corpus files, sorted by path.
func (l *Loader) CacheFiles() ([]CacheFile, error) {
	var out []CacheFile
	for _, p := range cachePatterns {
		matches, err := filepathx.Glob(filepath.Join(l.cfg.Root, p.pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan cache: %w", err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			out = append(out, CacheFile{Dataset: p.dataset, Path: m, Size: info.Size()})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Evict removes the cached files of the named dataset.
func (l *Loader) Evict(name string) error {
	var target string
	switch name {
	case Enwik8:
		target = filepath.Join(l.cfg.Root, enwik8Archive)
	case PTB:
		target = filepath.Join(l.cfg.Root, "ptb")
	case WikiText2:
		target = filepath.Join(l.cfg.Root, "wikitext-2")
	case WikiText103:
		target = filepath.Join(l.cfg.Root, "wikitext-103")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to evict %s: %w", name, err)
	}
	l.logger.Printf("evicted %s", target)
	return nil
}
