// Package corpus loads language-modeling corpora as uint32 token arrays.
//
// This package wraps the internal loader and exports a clean public API.
// Corpora are downloaded on first use into a cache directory and read from
// there afterwards.
//
// Supported datasets:
//   - "enwik8": first 10^8 bytes of English Wikipedia, one id per byte
//   - "ptb": Penn Treebank (Mikolov preprocessing), word level
//   - "wikitext2", "wikitext103": WikiText, word level
//
// Example usage:
//
//	import "github.com/born-ml/lmdata/corpus"
//
//	ds, err := corpus.Load(ctx, "ptb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ds.Vocab.Len(), len(ds.Train), len(ds.Valid), len(ds.Test))
package corpus

import (
	"context"

	"github.com/born-ml/lmdata/internal/corpus"
)

// Dataset names.
const (
	Enwik8      = corpus.Enwik8
	PTB         = corpus.PTB
	WikiText2   = corpus.WikiText2
	WikiText103 = corpus.WikiText103
)

// Split names.
const (
	SplitTrain = corpus.SplitTrain
	SplitValid = corpus.SplitValid
	SplitTest  = corpus.SplitTest
)

// Default remote locations and split size.
const (
	DefaultWikiTextBaseURL  = corpus.DefaultWikiTextBaseURL
	DefaultPTBBaseURL       = corpus.DefaultPTBBaseURL
	DefaultEnwik8URL        = corpus.DefaultEnwik8URL
	DefaultEnwik8SplitBytes = corpus.DefaultEnwik8SplitBytes
)

// Errors returned by the loader.
var (
	ErrUnknownDataset = corpus.ErrUnknownDataset
	ErrInvalidVariant = corpus.ErrInvalidVariant
	ErrCorpusTooSmall = corpus.ErrCorpusTooSmall
	ErrUnknownSplit   = corpus.ErrUnknownSplit
	ErrIDOutOfRange   = corpus.ErrIDOutOfRange
)

// Dataset is an encoded corpus: vocabulary plus train, valid and test ids.
type Dataset = corpus.Dataset

// Config controls where corpora are cached and fetched from.
type Config = corpus.Config

// Loader fetches and encodes corpora.
type Loader = corpus.Loader

// UnknownTokenError reports a valid/test token missing from the training vocabulary.
type UnknownTokenError = corpus.UnknownTokenError

// SplitStats summarises one encoded split.
type SplitStats = corpus.SplitStats

// BPESplits is a corpus encoded with a tiktoken encoding.
type BPESplits = corpus.BPESplits

// CacheFile is a corpus file in the cache directory.
type CacheFile = corpus.CacheFile

// DefaultConfig returns the configuration matching the public corpus locations,
// cached below os.TempDir().
func DefaultConfig() Config {
	return corpus.DefaultConfig()
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return corpus.LoadConfig(path)
}

// NewLoader creates a loader for cfg.
func NewLoader(cfg Config) (*Loader, error) {
	return corpus.NewLoader(cfg)
}

// Names returns the recognised dataset names.
func Names() []string {
	return corpus.Names()
}

// Load loads a dataset with the default configuration. root overrides the
// cache directory when not empty.
func Load(ctx context.Context, name, root string) (*Dataset, error) {
	l, err := defaultLoader(root)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, name)
}

// LoadEnwik8 loads enwik8 with the default configuration.
func LoadEnwik8(ctx context.Context, root string) (*Dataset, error) {
	return Load(ctx, Enwik8, root)
}

// LoadPTB loads the Penn Treebank with the default configuration.
func LoadPTB(ctx context.Context, root string) (*Dataset, error) {
	return Load(ctx, PTB, root)
}

// LoadWikiText loads WikiText-2 (variant "2") or WikiText-103 (variant "103")
// with the default configuration.
func LoadWikiText(ctx context.Context, variant, root string) (*Dataset, error) {
	l, err := defaultLoader(root)
	if err != nil {
		return nil, err
	}
	return l.WikiText(ctx, variant)
}

// EncodeBPE encodes a dataset's raw text with a tiktoken encoding
// ("cl100k_base" if encoding is empty) using the default configuration.
// root overrides the cache directory when not empty.
func EncodeBPE(ctx context.Context, name, encoding, root string) (*BPESplits, error) {
	l, err := defaultLoader(root)
	if err != nil {
		return nil, err
	}
	return l.EncodeBPE(ctx, name, encoding)
}

// ComputeStats returns token statistics for the three splits of ds.
func ComputeStats(ds *Dataset) []SplitStats {
	return corpus.ComputeStats(ds)
}

// Export writes ds to a SafeTensors file.
func Export(ds *Dataset, path string) error {
	return corpus.Export(ds, path)
}

// Import reads a dataset written by Export.
func Import(path string) (*Dataset, error) {
	return corpus.Import(path)
}

func defaultLoader(root string) (*Loader, error) {
	cfg := corpus.DefaultConfig()
	if root != "" {
		cfg.Root = root
	}
	return corpus.NewLoader(cfg)
}
