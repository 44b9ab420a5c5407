package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/born-ml/lmdata/internal/fetch"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

// Loader fetches corpora into its cache directory and encodes them.
//
// A Loader holds only configuration; every Load call builds a fresh Dataset.
// Concurrent loads of the same missing corpus are not coordinated: each
// downloads its own copy and the last complete file wins.
type Loader struct {
	cfg       Config
	src       fetch.Source
	normalize func(string) string
	logger    *log.Logger
}

// NewLoader creates a loader fetching over HTTP(S) and S3.
func NewLoader(cfg Config) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return NewLoaderWithSource(cfg, fetch.DefaultMux(cfg.HTTPTimeout, cfg.S3Region))
}

// NewLoaderWithSource creates a loader fetching from src.
func NewLoaderWithSource(cfg Config, src fetch.Source) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	normalize, err := tokenizer.Normalizer(cfg.Normalize)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Loader{
		cfg:       cfg,
		src:       src,
		normalize: normalize,
		logger:    logger,
	}, nil
}

// Config returns the loader configuration.
func (l *Loader) Config() Config {
	return l.cfg
}

// Load loads the dataset called name: "enwik8", "ptb", "wikitext2" or
// "wikitext103". Any other name fails with ErrUnknownDataset.
func (l *Loader) Load(ctx context.Context, name string) (*Dataset, error) {
	switch name {
	case Enwik8:
		return l.Enwik8(ctx)
	case PTB:
		return l.PTB(ctx)
	case WikiText2:
		return l.WikiText(ctx, "2")
	case WikiText103:
		return l.WikiText(ctx, "103")
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownDataset, name, strings.Join(Names(), ", "))
	}
}

// download fetches rawURL into path unless path already exists.
func (l *Loader) download(ctx context.Context, rawURL, path, name string) error {
	ok, err := fetch.Exists(path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	l.logger.Printf("downloading %s", rawURL)
	n, err := fetch.Download(ctx, l.src, rawURL, path, l.cfg.Checksums[name])
	if err != nil {
		return err
	}
	l.logger.Printf("saved %s (%d bytes)", path, n)
	return nil
}

// joinURL appends name to a base URL, adding the separating slash if needed.
func joinURL(base, name string) string {
	if strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + "/" + name
}

// withSource fills in where an UnknownTokenError came from.
func withSource(err error, source string, line int) error {
	var ute *tokenizer.UnknownTokenError
	if errors.As(err, &ute) {
		ute.Source = source
		if line > 0 {
			ute.Line = line
		}
	}
	return err
}
