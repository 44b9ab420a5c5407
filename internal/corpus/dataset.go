package corpus

import (
	"errors"
	"fmt"

	"github.com/born-ml/lmdata/internal/parallel"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

// Dataset names.
const (
	Enwik8      = "enwik8"
	PTB         = "ptb"
	WikiText2   = "wikitext2"
	WikiText103 = "wikitext103"
)

// Split names.
const (
	SplitTrain = "train"
	SplitValid = "valid"
	SplitTest  = "test"
)

// Common errors.
var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrInvalidVariant = errors.New(`wikitext variant must be either "2" or "103"`)
	ErrCorpusTooSmall = errors.New("corpus too small for the configured split sizes")
	ErrUnknownSplit   = errors.New("unknown split")
	ErrIDOutOfRange   = errors.New("token id out of vocabulary range")
)

// UnknownTokenError reports a token of a validation or test split that never
// occurs in the training split.
type UnknownTokenError = tokenizer.UnknownTokenError

// Names returns the recognised dataset names.
func Names() []string {
	return []string{Enwik8, PTB, WikiText2, WikiText103}
}

// SplitNames returns the split names in train, valid, test order.
func SplitNames() []string {
	return []string{SplitTrain, SplitValid, SplitTest}
}

// Dataset is an encoded corpus: a vocabulary plus three id sequences.
type Dataset struct {
	Name  string
	Vocab *tokenizer.Vocabulary
	Train []uint32
	Valid []uint32
	Test  []uint32
}

// Split returns the split called name.
func (d *Dataset) Split(name string) ([]uint32, error) {
	switch name {
	case SplitTrain:
		return d.Train, nil
	case SplitValid:
		return d.Valid, nil
	case SplitTest:
		return d.Test, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplit, name)
	}
}

// Tokenizer returns a tokenizer that decodes this dataset's ids.
func (d *Dataset) Tokenizer() (tokenizer.Tokenizer, error) {
	if d.Vocab.Kind() == tokenizer.KindByte {
		return tokenizer.NewByteTokenizer(d.Vocab, parallel.Sequential())
	}
	return tokenizer.NewWordTokenizer(d.Vocab, nil)
}

// Validate checks that every id indexes into the vocabulary.
func (d *Dataset) Validate() error {
	if d.Vocab == nil {
		return fmt.Errorf("dataset %s has no vocabulary", d.Name)
	}
	n := d.Vocab.Len()
	for _, split := range SplitNames() {
		ids, _ := d.Split(split)
		for i, id := range ids {
			if int(id) >= n {
				return fmt.Errorf("%w: %s[%d] = %d, vocabulary has %d entries", ErrIDOutOfRange, split, i, id, n)
			}
		}
	}
	return nil
}
