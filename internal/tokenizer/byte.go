package tokenizer

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/lmdata/internal/parallel"
)

// ByteTokenizer maps every byte to its index in a byte vocabulary.
type ByteTokenizer struct {
	vocab *Vocabulary
	cfg   parallel.Config
}

// NewByteTokenizer creates a tokenizer over a byte vocabulary.
func NewByteTokenizer(vocab *Vocabulary, cfg parallel.Config) (*ByteTokenizer, error) {
	if vocab.Kind() != KindByte {
		return nil, fmt.Errorf("byte tokenizer needs a %s vocabulary, got %s", KindByte, vocab.Kind())
	}
	return &ByteTokenizer{vocab: vocab, cfg: cfg}, nil
}

// Vocabulary returns the underlying vocabulary.
func (b *ByteTokenizer) Vocabulary() *Vocabulary {
	return b.vocab
}

// EncodeBytes maps data byte by byte. Large inputs are split into chunks
// encoded concurrently; the result does not depend on the chunking.
func (b *ByteTokenizer) EncodeBytes(data []byte) ([]uint32, error) {
	out := make([]uint32, len(data))

	// Position of the first unknown byte, len(data) if none.
	firstBad := int64(len(data))

	parallel.Chunks(len(data), func(start, end int) {
		for i := start; i < end; i++ {
			id := b.vocab.table[data[i]]
			if id < 0 {
				for {
					cur := atomic.LoadInt64(&firstBad)
					if int64(i) >= cur || atomic.CompareAndSwapInt64(&firstBad, cur, int64(i)) {
						break
					}
				}
				return
			}
			out[i] = uint32(id)
		}
	}, b.cfg)

	if firstBad < int64(len(data)) {
		return nil, &UnknownTokenError{Token: string(data[firstBad : firstBad+1])}
	}
	return out, nil
}

// Encode converts text to token IDs, one per byte.
func (b *ByteTokenizer) Encode(text string) ([]uint32, error) {
	return b.EncodeBytes([]byte(text))
}

// DecodeBytes converts token IDs back to raw bytes.
func (b *ByteTokenizer) DecodeBytes(tokens []uint32) ([]byte, error) {
	out := make([]byte, len(tokens))
	for i, id := range tokens {
		tok, ok := b.vocab.Token(id)
		if !ok {
			return nil, fmt.Errorf("token id %d out of range [0, %d)", id, b.vocab.Len())
		}
		out[i] = tok[0]
	}
	return out, nil
}

// Decode converts token IDs back to text.
func (b *ByteTokenizer) Decode(tokens []uint32) (string, error) {
	data, err := b.DecodeBytes(tokens)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// VocabSize returns the total vocabulary size.
func (b *ByteTokenizer) VocabSize() int {
	return b.vocab.Len()
}

// EosToken returns -1; byte streams carry no end-of-sequence marker.
func (b *ByteTokenizer) EosToken() int32 {
	return -1
}
