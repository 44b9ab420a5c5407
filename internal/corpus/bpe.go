package corpus

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/born-ml/lmdata/internal/tokenizer"
)

// BPESplits is a corpus encoded with a tiktoken BPE encoding instead of its
// own vocabulary.
type BPESplits struct {
	Dataset   string
	Encoding  string
	VocabSize int
	Train     []uint32
	Valid     []uint32
	Test      []uint32
}

// EncodeBPE encodes the raw text of a cached corpus with a tiktoken encoding
// (tokenizer.EncodingCL100kBase if encoding is empty). Lines are encoded one
// at a time, newline included, so ids never span two lines.
func (l *Loader) EncodeBPE(ctx context.Context, name, encoding string) (*BPESplits, error) {
	if encoding == "" {
		encoding = tokenizer.EncodingCL100kBase
	}
	tok, err := tokenizer.NewTikToken(encoding)
	if err != nil {
		return nil, err
	}

	out := &BPESplits{Dataset: name, Encoding: encoding, VocabSize: tok.VocabSize()}
	dsts := [3]*[]uint32{&out.Train, &out.Valid, &out.Test}

	if name == Enwik8 {
		data, err := l.readEnwik8(ctx)
		if err != nil {
			return nil, err
		}
		train, valid, test, err := splitEnwik8(data, l.cfg.Enwik8SplitBytes)
		if err != nil {
			return nil, err
		}
		for i, part := range [3][]byte{train, valid, test} {
			if *dsts[i], err = encodeBPEBytes(tok, part); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	dir, files, err := l.ensureWords(ctx, name)
	if err != nil {
		return nil, err
	}

	// One shared encoder, so splits run in turn.
	for i, file := range files {
		var ids []uint32
		err := readLines(filepath.Join(dir, file), func(line string, _ int) error {
			lineIDs, err := tok.Encode(line)
			ids = append(ids, lineIDs...)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		*dsts[i] = ids
	}
	return out, nil
}

// ensureWords caches a word-level corpus and returns its directory and files.
func (l *Loader) ensureWords(ctx context.Context, name string) (string, [3]string, error) {
	switch name {
	case PTB:
		dir, err := l.ensurePTB(ctx)
		return dir, ptbFiles, err
	case WikiText2:
		dir, err := l.ensureWikiText(ctx, "2")
		return dir, wikiTextFiles, err
	case WikiText103:
		dir, err := l.ensureWikiText(ctx, "103")
		return dir, wikiTextFiles, err
	default:
		return "", [3]string{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
}

func encodeBPEBytes(tok *tokenizer.TikToken, data []byte) ([]uint32, error) {
	var ids []uint32
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		line := data
		if i >= 0 {
			line = data[:i+1]
		}
		lineIDs, err := tok.Encode(string(line))
		if err != nil {
			return nil, err
		}
		ids = append(ids, lineIDs...)
		data = data[len(line):]
	}
	return ids, nil
}
