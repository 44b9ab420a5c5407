package corpus

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/born-ml/lmdata/internal/archive"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

const (
	enwik8Archive = "enwik8.zip"
	enwik8Entry   = "enwik8"
)

// Enwik8 loads the enwik8 character-level dataset.
//
//	https://mattmahoney.net/dc/textdata.html
//
// The last 2N bytes are split into validation and test (N each, N being
// Config.Enwik8SplitBytes); the vocabulary is the set of byte values of
// the training part.
func (l *Loader) Enwik8(ctx context.Context) (*Dataset, error) {
	data, err := l.readEnwik8(ctx)
	if err != nil {
		return nil, err
	}

	train, valid, test, err := splitEnwik8(data, l.cfg.Enwik8SplitBytes)
	if err != nil {
		return nil, err
	}

	vocab := tokenizer.NewByteVocabulary(train)
	l.logger.Printf("%s: %d symbols", Enwik8, vocab.Len())

	tok, err := tokenizer.NewByteTokenizer(vocab, l.cfg.Parallel)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Name: Enwik8, Vocab: vocab}
	parts := []struct {
		name string
		data []byte
		dst  *[]uint32
	}{
		{SplitTrain, train, &ds.Train},
		{SplitValid, valid, &ds.Valid},
		{SplitTest, test, &ds.Test},
	}
	for _, p := range parts {
		ids, err := tok.EncodeBytes(p.data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", Enwik8, withSource(err, p.name, 0))
		}
		*p.dst = ids
	}

	return ds, nil
}

// readEnwik8 returns the raw corpus, downloading the archive if needed.
func (l *Loader) readEnwik8(ctx context.Context) ([]byte, error) {
	path, err := l.ensureEnwik8(ctx)
	if err != nil {
		return nil, err
	}
	return archive.ReadEntry(path, enwik8Entry)
}

func (l *Loader) ensureEnwik8(ctx context.Context) (string, error) {
	path := filepath.Join(l.cfg.Root, enwik8Archive)
	if err := l.download(ctx, l.cfg.Enwik8URL, path, enwik8Archive); err != nil {
		return "", err
	}
	return path, nil
}

// splitEnwik8 cuts data into train, valid and test; valid and test are n
// bytes each and train is everything before them.
func splitEnwik8(data []byte, n int) (train, valid, test []byte, err error) {
	if len(data) <= 2*n {
		return nil, nil, nil, fmt.Errorf("%w: %d bytes, need more than %d", ErrCorpusTooSmall, len(data), 2*n)
	}

	end := len(data)
	return data[:end-2*n], data[end-2*n : end-n], data[end-n:], nil
}
