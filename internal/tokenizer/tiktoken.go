package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	// EncodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// EncodingP50kBase is the encoding name for GPT-3.
	EncodingP50kBase = "p50k_base"
	// EncodingR50kBase is the encoding name for older GPT-3 models.
	EncodingR50kBase = "r50k_base"
)

var offlineLoaderOnce sync.Once

// useOfflineLoader makes tiktoken read BPE ranks embedded in the binary
// instead of downloading them.
func useOfflineLoader() {
	offlineLoaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo, text-embedding-ada-002
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002, babbage-002
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	useOfflineLoader()

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]uint32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]uint32, len(tokens))
	for i, tok := range tokens {
		result[i] = uint32(tok) //nolint:gosec // G115: token IDs are non-negative and < 2^32.
	}

	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []uint32) (string, error) {
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}

	return t.encoding.Decode(intTokens), nil
}

// VocabSize returns the total vocabulary size.
func (t *TikToken) VocabSize() int {
	// tiktoken-go doesn't expose vocab size directly.
	switch t.name {
	case EncodingCL100kBase:
		return 100256
	case EncodingP50kBase, EncodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// EosToken returns the <|endoftext|> token ID.
func (t *TikToken) EosToken() int32 {
	switch t.name {
	case EncodingCL100kBase:
		return 100257
	case EncodingP50kBase, EncodingR50kBase:
		return 50256
	default:
		return -1
	}
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
