package corpus

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/lmdata/internal/fetch"
	"github.com/born-ml/lmdata/internal/parallel"
)

// Default remote locations.
const (
	DefaultWikiTextBaseURL = "https://s3.amazonaws.com/research.metamind.io/wikitext/"
	DefaultPTBBaseURL      = "https://raw.githubusercontent.com/wojzaremba/lstm/master/data/"
	DefaultEnwik8URL       = "http://mattmahoney.net/dc/enwik8.zip"

	// DefaultEnwik8SplitBytes is the size of the enwik8 validation and test
	// splits (90/5/5 of 10^8 bytes).
	DefaultEnwik8SplitBytes = 5_000_000
)

// Config controls where corpora are cached and fetched from.
type Config struct {
	// Root is the cache directory. Defaults to os.TempDir().
	Root string `yaml:"root"`

	WikiTextBaseURL string `yaml:"wikitext_base_url"`
	PTBBaseURL      string `yaml:"ptb_base_url"`
	Enwik8URL       string `yaml:"enwik8_url"`

	// Enwik8SplitBytes is the size of each of the enwik8 valid and test splits.
	Enwik8SplitBytes int `yaml:"enwik8_split_bytes"`

	// HTTPTimeout bounds each download. Zero means no limit.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// S3Region is used for s3:// mirror URLs.
	S3Region string `yaml:"s3_region"`

	// Normalize applies Unicode normalization ("nfc", "nfkc") to word-level
	// corpora before splitting. Changes vocabulary sizes; off by default.
	Normalize string `yaml:"normalize"`

	// Checksums maps a downloaded file name (e.g. "enwik8.zip",
	// "ptb.train.txt") to its expected hex SHA-256.
	Checksums map[string]string `yaml:"checksums"`

	Parallel parallel.Config `yaml:"-"`
	Logger   *log.Logger     `yaml:"-"`
}

// DefaultConfig returns the configuration matching the public corpus locations.
func DefaultConfig() Config {
	return Config{
		Root:             os.TempDir(),
		WikiTextBaseURL:  DefaultWikiTextBaseURL,
		PTBBaseURL:       DefaultPTBBaseURL,
		Enwik8URL:        DefaultEnwik8URL,
		Enwik8SplitBytes: DefaultEnwik8SplitBytes,
		S3Region:         fetch.DefaultS3Region,
		Parallel:         parallel.DefaultConfig(),
		Logger:           log.New(io.Discard, "", 0),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
//
// Example:
//
//	root: /data/corpora
//	wikitext_base_url: s3://research.metamind.io/wikitext/
//	http_timeout: 10m
//	checksums:
//	  enwik8.zip: <hex sha256 of the archive>
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	//nolint:gosec // G304: config path comes from the command line.
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the loader cannot work with.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("cache root is empty")
	}
	if c.Enwik8SplitBytes <= 0 {
		return fmt.Errorf("enwik8_split_bytes must be positive, got %d", c.Enwik8SplitBytes)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	for name, sum := range c.Checksums {
		if _, err := fetch.ParseChecksum(sum); err != nil {
			return fmt.Errorf("checksum for %s: %w", name, err)
		}
	}
	return nil
}
