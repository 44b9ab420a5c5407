package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/born-ml/lmdata/internal/archive"
	"github.com/born-ml/lmdata/internal/fetch"
)

var wikiTextFiles = [3]string{"wiki.train.tokens", "wiki.valid.tokens", "wiki.test.tokens"}

// WikiText loads WikiText-2 (variant "2") or WikiText-103 (variant "103").
//
//	https://paperswithcode.com/dataset/wikitext-2
//	https://paperswithcode.com/dataset/wikitext-103
func (l *Loader) WikiText(ctx context.Context, variant string) (*Dataset, error) {
	dir, err := l.ensureWikiText(ctx, variant)
	if err != nil {
		return nil, err
	}
	return l.loadWords("wikitext"+variant, dir, wikiTextFiles)
}

// ensureWikiText makes sure {root}/wikitext-{variant} exists and returns it.
//
// The archive is downloaded and unpacked in a scratch directory below the
// root; only the finished corpus directory is renamed into place.
func (l *Loader) ensureWikiText(ctx context.Context, variant string) (string, error) {
	if variant != "2" && variant != "103" {
		return "", fmt.Errorf("%w, got %q", ErrInvalidVariant, variant)
	}

	dirName := "wikitext-" + variant
	dataDir := filepath.Join(l.cfg.Root, dirName)

	ok, err := fetch.Exists(dataDir)
	if err != nil || ok {
		return dataDir, err
	}

	if err := os.MkdirAll(l.cfg.Root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache root: %w", err)
	}
	scratch, err := os.MkdirTemp(l.cfg.Root, "."+dirName+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	zipName := dirName + "-v1.zip"
	zipPath := filepath.Join(scratch, zipName)
	if err := l.download(ctx, joinURL(l.cfg.WikiTextBaseURL, zipName), zipPath, zipName); err != nil {
		return "", err
	}

	n, err := archive.ExtractAll(zipPath, scratch)
	if err != nil {
		return "", err
	}
	l.logger.Printf("extracted %d files from %s", n, zipName)

	extracted := filepath.Join(scratch, dirName)
	if ok, err := fetch.Exists(extracted); err != nil || !ok {
		return "", fmt.Errorf("archive %s has no %s directory", zipName, dirName)
	}

	if err := os.Rename(extracted, dataDir); err != nil {
		// Another loader may have finished first.
		if ok, _ := fetch.Exists(dataDir); ok {
			return dataDir, nil
		}
		return "", fmt.Errorf("failed to move %s into cache: %w", dirName, err)
	}
	return dataDir, nil
}
