// Package tokenizer provides the tokenizers used by the lmdata corpus loader.
//
// This package wraps the internal tokenizer implementations and provides
// a clean public API for tokenization tasks.
//
// Supported tokenizers:
//   - WordTokenizer: space-separated words with <eos> after every line (PTB, WikiText)
//   - ByteTokenizer: one id per byte (enwik8)
//   - TikToken: OpenAI BPE tokenizers (GPT-3, GPT-4)
//
// Example usage:
//
//	import "github.com/born-ml/lmdata/tokenizer"
//
//	// Build a vocabulary from training text
//	b := tokenizer.NewVocabBuilder(nil)
//	b.AddLine(" the cat sat ")
//	b.Add(tokenizer.EOS)
//	vocab := b.Build()
//
//	// Encode text
//	tok, err := tokenizer.NewWordTokenizer(vocab, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := tok.Encode(" the cat \n")
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer

import (
	"github.com/born-ml/lmdata/internal/parallel"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

// EOS is the end-of-sequence token of word vocabularies.
const EOS = tokenizer.EOS

// Tiktoken encoding names.
const (
	EncodingCL100kBase = tokenizer.EncodingCL100kBase
	EncodingP50kBase   = tokenizer.EncodingP50kBase
	EncodingR50kBase   = tokenizer.EncodingR50kBase
)

// Vocabulary kinds.
const (
	KindWord = tokenizer.KindWord
	KindByte = tokenizer.KindByte
)

// ErrUnknownToken is wrapped by every UnknownTokenError.
var ErrUnknownToken = tokenizer.ErrUnknownToken

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations must implement this interface.
type Tokenizer = tokenizer.Tokenizer

// Vocabulary maps tokens to dense uint32 ids.
type Vocabulary = tokenizer.Vocabulary

// VocabKind tells word vocabularies from byte vocabularies.
type VocabKind = tokenizer.VocabKind

// VocabBuilder collects the distinct words of a training split.
type VocabBuilder = tokenizer.VocabBuilder

// UnknownTokenError reports a token missing from the vocabulary.
type UnknownTokenError = tokenizer.UnknownTokenError

// WordTokenizer encodes space-separated words.
type WordTokenizer = tokenizer.WordTokenizer

// ByteTokenizer encodes raw bytes.
type ByteTokenizer = tokenizer.ByteTokenizer

// TikToken wraps an OpenAI BPE encoding.
type TikToken = tokenizer.TikToken

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" and "r50k_base" (GPT-3).
// BPE ranks are embedded; no network access is needed.
func NewTikToken(encodingName string) (*TikToken, error) {
	return tokenizer.NewTikToken(encodingName)
}

// NewVocabBuilder creates an empty vocabulary builder. normalize may be nil.
func NewVocabBuilder(normalize func(string) string) *VocabBuilder {
	return tokenizer.NewVocabBuilder(normalize)
}

// NewByteVocabulary builds a vocabulary over the distinct bytes of data.
func NewByteVocabulary(data []byte) *Vocabulary {
	return tokenizer.NewByteVocabulary(data)
}

// NewWordTokenizer creates a word tokenizer. vocab must contain EOS.
func NewWordTokenizer(vocab *Vocabulary, normalize func(string) string) (*WordTokenizer, error) {
	return tokenizer.NewWordTokenizer(vocab, normalize)
}

// NewByteTokenizer creates a byte tokenizer that encodes large inputs in parallel.
func NewByteTokenizer(vocab *Vocabulary) (*ByteTokenizer, error) {
	return tokenizer.NewByteTokenizer(vocab, parallel.DefaultConfig())
}

// SplitLine splits a corpus line into word tokens the way vocabularies are built.
func SplitLine(line string) []string {
	return tokenizer.SplitLine(line)
}

// Normalizer returns the Unicode normalization function for "nfc" or "nfkc";
// "" and "none" return nil.
func Normalizer(name string) (func(string) string, error) {
	return tokenizer.Normalizer(name)
}
