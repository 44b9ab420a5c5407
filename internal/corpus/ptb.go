package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var ptbFiles = [3]string{"ptb.train.txt", "ptb.valid.txt", "ptb.test.txt"}

// PTB loads the Penn Treebank language modeling dataset.
//
//	https://paperswithcode.com/dataset/penn-treebank
func (l *Loader) PTB(ctx context.Context) (*Dataset, error) {
	dir, err := l.ensurePTB(ctx)
	if err != nil {
		return nil, err
	}
	return l.loadWords(PTB, dir, ptbFiles)
}

// ensurePTB fetches whichever of the three PTB files are missing.
func (l *Loader) ensurePTB(ctx context.Context) (string, error) {
	dir := filepath.Join(l.cfg.Root, "ptb")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for _, name := range ptbFiles {
		if err := l.download(ctx, joinURL(l.cfg.PTBBaseURL, name), filepath.Join(dir, name), name); err != nil {
			return "", err
		}
	}
	return dir, nil
}
