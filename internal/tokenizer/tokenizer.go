package tokenizer

import (
	"errors"
	"fmt"
)

// EOS is the end-of-sequence token appended after every line of a
// word-level corpus.
const EOS = "<eos>"

// ErrUnknownToken is returned when a token has no entry in the vocabulary.
var ErrUnknownToken = errors.New("token not in vocabulary")

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations (word, byte, tiktoken) must implement this interface.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]uint32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []uint32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// EosToken returns the end-of-sequence token ID.
	// Returns -1 if not applicable.
	EosToken() int32
}

// UnknownTokenError reports a token that is missing from the vocabulary.
//
// Source and Line are filled in by callers that know where the token came
// from; Line is 1-based and zero when unknown.
type UnknownTokenError struct {
	Token  string
	Source string
	Line   int
}

// Error implements the error interface.
func (e *UnknownTokenError) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, ErrUnknownToken, e.Token)
	case e.Source != "":
		return fmt.Sprintf("%s: %v: %q", e.Source, ErrUnknownToken, e.Token)
	default:
		return fmt.Sprintf("%v: %q", ErrUnknownToken, e.Token)
	}
}

// Unwrap lets errors.Is match ErrUnknownToken.
func (e *UnknownTokenError) Unwrap() error {
	return ErrUnknownToken
}
