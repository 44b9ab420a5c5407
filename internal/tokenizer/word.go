package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SplitLine splits a corpus line into word tokens.
//
// Surrounding whitespace is trimmed and the rest is split on single spaces,
// so runs of spaces produce empty tokens and an empty line yields one empty
// token. PTB and WikiText vocabulary sizes depend on this exact behaviour.
// The ASCII separators 0x1c-0x1f count as whitespace when trimming.
func SplitLine(line string) []string {
	return strings.Split(strings.TrimFunc(line, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Normalizer returns the Unicode normalization function for name.
//
// Supported names: "" or "none" (nil function), "nfc", "nfkc".
func Normalizer(name string) (func(string) string, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "nfc":
		return norm.NFC.String, nil
	case "nfkc":
		return norm.NFKC.String, nil
	default:
		return nil, fmt.Errorf("unsupported normalization %q", name)
	}
}

// WordTokenizer encodes space-separated words, appending EOS after each line.
type WordTokenizer struct {
	vocab     *Vocabulary
	eos       uint32
	normalize func(string) string
}

// NewWordTokenizer creates a tokenizer over vocab, which must contain EOS.
// normalize may be nil.
func NewWordTokenizer(vocab *Vocabulary, normalize func(string) string) (*WordTokenizer, error) {
	eos, ok := vocab.ID(EOS)
	if !ok {
		return nil, &UnknownTokenError{Token: EOS}
	}

	return &WordTokenizer{
		vocab:     vocab,
		eos:       eos,
		normalize: normalize,
	}, nil
}

// Vocabulary returns the underlying vocabulary.
func (w *WordTokenizer) Vocabulary() *Vocabulary {
	return w.vocab
}

// EncodeLine appends the ids of one line plus EOS to dst.
func (w *WordTokenizer) EncodeLine(line string, dst []uint32) ([]uint32, error) {
	if w.normalize != nil {
		line = w.normalize(line)
	}
	for _, tok := range SplitLine(line) {
		id, ok := w.vocab.ID(tok)
		if !ok {
			return dst, &UnknownTokenError{Token: tok}
		}
		dst = append(dst, id)
	}
	return append(dst, w.eos), nil
}

// Encode converts text to token IDs, one EOS per line.
//
// A trailing newline does not start a new line.
func (w *WordTokenizer) Encode(text string) ([]uint32, error) {
	if text == "" {
		return []uint32{}, nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var ids []uint32
	for i, line := range lines {
		var err error
		ids, err = w.EncodeLine(line, ids)
		if err != nil {
			if ute, ok := err.(*UnknownTokenError); ok {
				ute.Line = i + 1
			}
			return nil, err
		}
	}
	return ids, nil
}

// Decode joins words with spaces and turns EOS back into newlines.
func (w *WordTokenizer) Decode(tokens []uint32) (string, error) {
	var sb strings.Builder
	lineStart := true

	for _, id := range tokens {
		if id == w.eos {
			sb.WriteByte('\n')
			lineStart = true
			continue
		}
		tok, ok := w.vocab.Token(id)
		if !ok {
			return "", fmt.Errorf("token id %d out of range [0, %d)", id, w.vocab.Len())
		}
		if !lineStart {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
		lineStart = false
	}

	return sb.String(), nil
}

// VocabSize returns the total vocabulary size.
func (w *WordTokenizer) VocabSize() int {
	return w.vocab.Len()
}

// EosToken returns the end-of-sequence token ID.
func (w *WordTokenizer) EosToken() int32 {
	return int32(w.eos) //nolint:gosec // G115: vocabulary size < 2^31.
}
