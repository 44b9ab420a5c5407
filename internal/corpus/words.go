package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/lmdata/internal/parallel"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

// readLines calls fn for every line of the file at path, newline included.
// "\r\n" and a lone "\r" end a line like "\n" and are delivered as "\n".
// A final line without a line break is still delivered; an empty file has
// no lines.
func readLines(path string, fn func(line string, n int) error) error {
	f, err := os.Open(path) //nolint:gosec // G304: cache paths are built by the loader.
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	n := 0
	for {
		chunk, err := r.ReadString('\n')
		for _, line := range splitLineBreaks(chunk) {
			n++
			if ferr := fn(line, n); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
}

// splitLineBreaks splits a chunk ending in at most one "\n" into lines,
// turning "\r\n" and "\r" into "\n".
func splitLineBreaks(chunk string) []string {
	if chunk == "" {
		return nil
	}
	if strings.IndexByte(chunk, '\r') < 0 {
		return []string{chunk}
	}

	chunk = strings.ReplaceAll(chunk, "\r\n", "\n")
	chunk = strings.ReplaceAll(chunk, "\r", "\n")
	lines := strings.SplitAfter(chunk, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// buildWordVocab collects the words of the training file plus EOS.
func (l *Loader) buildWordVocab(path string) (*tokenizer.Vocabulary, error) {
	b := tokenizer.NewVocabBuilder(l.normalize)
	err := readLines(path, func(line string, _ int) error {
		b.AddLine(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.Add(tokenizer.EOS)
	return b.Build(), nil
}

// encodeWordFile encodes every line of path followed by EOS.
func encodeWordFile(tok *tokenizer.WordTokenizer, path string) ([]uint32, error) {
	var ids []uint32
	if info, err := os.Stat(path); err == nil {
		// Roughly one token per six bytes of English text.
		ids = make([]uint32, 0, info.Size()/6)
	}

	err := readLines(path, func(line string, n int) error {
		var err error
		ids, err = tok.EncodeLine(line, ids)
		return withSource(err, filepath.Base(path), n)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// loadWords builds the vocabulary from files[0] and encodes all three files.
func (l *Loader) loadWords(name, dir string, files [3]string) (*Dataset, error) {
	trainPath := filepath.Join(dir, files[0])

	l.logger.Printf("%s: building vocabulary from %s", name, trainPath)
	vocab, err := l.buildWordVocab(trainPath)
	if err != nil {
		return nil, err
	}
	l.logger.Printf("%s: %d words", name, vocab.Len())

	tok, err := tokenizer.NewWordTokenizer(vocab, l.normalize)
	if err != nil {
		return nil, err
	}

	var splits [3][]uint32
	encoders := make([]func() error, len(files))
	for i, file := range files {
		i, file := i, file
		encoders[i] = func() error {
			ids, err := encodeWordFile(tok, filepath.Join(dir, file))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			splits[i] = ids
			return nil
		}
	}
	if err := parallel.Do(l.cfg.Parallel, encoders...); err != nil {
		return nil, err
	}

	l.logger.Printf("%s: encoded %d/%d/%d tokens", name, len(splits[0]), len(splits[1]), len(splits[2]))
	return &Dataset{
		Name:  name,
		Vocab: vocab,
		Train: splits[0],
		Valid: splits[1],
		Test:  splits[2],
	}, nil
}
