package tokenizer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// VocabKind tells word vocabularies from byte vocabularies.
type VocabKind string

const (
	// KindWord is a vocabulary of whole words.
	KindWord VocabKind = "word"
	// KindByte is a vocabulary of single byte values.
	KindByte VocabKind = "byte"
)

// Vocabulary is a bijection between tokens and dense uint32 indices.
//
// Byte vocabularies store each token as a one-byte string and keep a
// 256-entry lookup table for fast encoding.
type Vocabulary struct {
	kind   VocabKind
	tokens []string          // id -> token
	ids    map[string]uint32 // token -> id
	table  [256]int32        // byte -> id, -1 if absent (KindByte only)
}

func newVocabulary(kind VocabKind, tokens []string) *Vocabulary {
	sort.Strings(tokens)

	v := &Vocabulary{
		kind:   kind,
		tokens: tokens,
		ids:    make(map[string]uint32, len(tokens)),
	}
	for i := range v.table {
		v.table[i] = -1
	}
	for i, tok := range tokens {
		v.ids[tok] = uint32(i) //nolint:gosec // G115: vocabulary size < 2^32.
		if kind == KindByte {
			v.table[tok[0]] = int32(i) //nolint:gosec // G115: at most 256 entries.
		}
	}

	return v
}

// NewByteVocabulary builds a vocabulary over the distinct byte values of data.
func NewByteVocabulary(data []byte) *Vocabulary {
	var seen [256]bool
	for _, c := range data {
		seen[c] = true
	}

	tokens := make([]string, 0, 256)
	for c, ok := range seen {
		if ok {
			tokens = append(tokens, string([]byte{byte(c)}))
		}
	}

	return newVocabulary(KindByte, tokens)
}

// Kind returns whether this is a word or byte vocabulary.
func (v *Vocabulary) Kind() VocabKind {
	return v.kind
}

// Len returns the number of tokens.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// ID returns the index of token.
func (v *Vocabulary) ID(token string) (uint32, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// ByteID returns the index of a single byte value in a byte vocabulary.
func (v *Vocabulary) ByteID(c byte) (uint32, bool) {
	id := v.table[c]
	if id < 0 {
		return 0, false
	}
	return uint32(id), true
}

// Token returns the token at index id.
func (v *Vocabulary) Token(id uint32) (string, bool) {
	if int(id) >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Tokens returns the tokens ordered by index.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// vocabJSON is the serialized form. Byte vocabularies are stored as integers
// because single bytes above 0x7f are not valid UTF-8 strings.
type vocabJSON struct {
	Kind   VocabKind `json:"kind"`
	Words  []string  `json:"words,omitempty"`
	Bytes  []int     `json:"bytes,omitempty"`
	Length int       `json:"length"`
}

// MarshalJSON encodes the vocabulary as its ordered token list.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	out := vocabJSON{Kind: v.kind, Length: len(v.tokens)}
	switch v.kind {
	case KindByte:
		out.Bytes = make([]int, len(v.tokens))
		for i, tok := range v.tokens {
			out.Bytes[i] = int(tok[0])
		}
	default:
		out.Words = v.tokens
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a vocabulary written by MarshalJSON.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var in vocabJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	var tokens []string
	switch in.Kind {
	case KindByte:
		tokens = make([]string, len(in.Bytes))
		for i, c := range in.Bytes {
			if c < 0 || c > 255 {
				return fmt.Errorf("byte vocabulary entry %d out of range: %d", i, c)
			}
			tokens[i] = string([]byte{byte(c)})
		}
	case KindWord:
		tokens = in.Words
	default:
		return fmt.Errorf("unknown vocabulary kind %q", in.Kind)
	}
	if len(tokens) != in.Length {
		return fmt.Errorf("vocabulary length mismatch: header says %d, got %d", in.Length, len(tokens))
	}
	// Ids are positions in the list, so the list must already be in index order.
	for i := 1; i < len(tokens); i++ {
		if tokens[i-1] >= tokens[i] {
			return fmt.Errorf("vocabulary entries %d and %d are duplicate or out of order", i-1, i)
		}
	}

	built := newVocabulary(in.Kind, tokens)
	if len(built.ids) != in.Length {
		return fmt.Errorf("vocabulary contains duplicate tokens")
	}
	*v = *built
	return nil
}

// VocabBuilder collects the distinct words of a training split.
type VocabBuilder struct {
	set       map[string]struct{}
	normalize func(string) string
}

// NewVocabBuilder creates an empty builder. normalize may be nil.
func NewVocabBuilder(normalize func(string) string) *VocabBuilder {
	return &VocabBuilder{
		set:       make(map[string]struct{}),
		normalize: normalize,
	}
}

// Add inserts a single token.
func (b *VocabBuilder) Add(token string) {
	if _, ok := b.set[token]; ok {
		return
	}
	// Tokens are substrings of whole lines; cloning keeps the lines collectable.
	b.set[strings.Clone(token)] = struct{}{}
}

// AddLine inserts every token of a corpus line.
func (b *VocabBuilder) AddLine(line string) {
	if b.normalize != nil {
		line = b.normalize(line)
	}
	for _, tok := range SplitLine(line) {
		b.Add(tok)
	}
}

// Len returns the number of distinct tokens collected so far.
func (b *VocabBuilder) Len() int {
	return len(b.set)
}

// Build returns the word vocabulary with indices in sorted token order.
func (b *VocabBuilder) Build() *Vocabulary {
	tokens := make([]string, 0, len(b.set))
	for tok := range b.set {
		tokens = append(tokens, tok)
	}
	return newVocabulary(KindWord, tokens)
}
