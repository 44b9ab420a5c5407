package corpus

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lmdata/internal/fetch"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

func TestLoad_UnknownDataset(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	for _, name := range []string{"", "wikitext", "wikitext-103", "PTB"} {
		t.Run(name, func(t *testing.T) {
			_, err := l.Load(context.Background(), name)
			assert.ErrorIs(t, err, ErrUnknownDataset)
		})
	}
	assert.Zero(t, srv.totalHits())
}

func TestWikiText_InvalidVariant(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	_, err := l.WikiText(context.Background(), "3")
	assert.ErrorIs(t, err, ErrInvalidVariant)
	assert.Zero(t, srv.totalHits())
}

func TestLoad_VocabularySizes(t *testing.T) {
	tests := []struct {
		name      string
		vocabSize int
		lengths   [3]int
	}{
		{PTB, 7, [3]int{11, 4, 3}},
		{WikiText2, 6, [3]int{11, 5, 4}},
		{WikiText103, 7, [3]int{14, 5, 4}},
		{Enwik8, 10, [3]int{80, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCorpusServer(t)
			ds, err := srv.loader(t).Load(context.Background(), tt.name)
			require.NoError(t, err)

			assert.Equal(t, tt.name, ds.Name)
			assert.Equal(t, tt.vocabSize, ds.Vocab.Len())
			assert.Equal(t, tt.lengths, [3]int{len(ds.Train), len(ds.Valid), len(ds.Test)})
			assert.NoError(t, ds.Validate())
		})
	}
}

func TestLoad_WarmCacheSkipsNetwork(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			srv := newCorpusServer(t)
			l := srv.loader(t)

			cold, err := l.Load(context.Background(), name)
			require.NoError(t, err)
			hits := srv.totalHits()
			require.Positive(t, hits)

			warm, err := l.Load(context.Background(), name)
			require.NoError(t, err)
			assert.Equal(t, hits, srv.totalHits(), "warm cache must not touch the network")

			assert.Equal(t, len(cold.Train), len(warm.Train))
			assert.Equal(t, len(cold.Valid), len(warm.Valid))
			assert.Equal(t, len(cold.Test), len(warm.Test))
		})
	}
}

func TestLoad_Deterministic(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	first, err := l.Load(context.Background(), WikiText2)
	require.NoError(t, err)
	second, err := l.Load(context.Background(), WikiText2)
	require.NoError(t, err)

	assert.Equal(t, first.Vocab.Tokens(), second.Vocab.Tokens())
	assert.Equal(t, first.Train, second.Train)
	assert.Equal(t, first.Valid, second.Valid)
	assert.Equal(t, first.Test, second.Test)

	assert.Equal(t, []string{"", "<eos>", "=", "Title", "cat", "the"}, first.Vocab.Tokens())
}

func TestLoad_WordLinesEndWithEOS(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	ds, err := l.Load(context.Background(), WikiText2)
	require.NoError(t, err)
	eos, ok := ds.Vocab.ID(tokenizer.EOS)
	require.True(t, ok)

	// Walk the encoded train split line by line against the source text.
	pos := 0
	for _, line := range strings.SplitAfter(wikiTrain, "\n") {
		if line == "" {
			continue
		}
		words := tokenizer.SplitLine(line)
		require.LessOrEqual(t, pos+len(words)+1, len(ds.Train))
		for i, w := range words {
			id, ok := ds.Vocab.ID(w)
			require.True(t, ok)
			assert.Equal(t, id, ds.Train[pos+i])
		}
		assert.Equal(t, eos, ds.Train[pos+len(words)], "line %q", line)
		pos += len(words) + 1
	}
	assert.Equal(t, len(ds.Train), pos)
}

func TestEnwik8_Splits(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	ds, err := l.Enwik8(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(enwik8Data), len(ds.Train)+len(ds.Valid)+len(ds.Test))
	assert.Len(t, ds.Valid, 10)
	assert.Len(t, ds.Test, 10)

	tok, err := ds.Tokenizer()
	require.NoError(t, err)
	text, err := tok.Decode(ds.Test)
	require.NoError(t, err)
	assert.Equal(t, enwik8Data[90:], text)

	_, err = os.Stat(filepath.Join(l.Config().Root, "enwik8.zip"))
	assert.NoError(t, err, "archive is kept in the cache")
}

func TestEnwik8_TooSmall(t *testing.T) {
	srv := newCorpusServer(t)
	cfg := srv.config(t)
	cfg.Enwik8SplitBytes = 50

	l, err := NewLoader(cfg)
	require.NoError(t, err)

	_, err = l.Enwik8(context.Background())
	assert.ErrorIs(t, err, ErrCorpusTooSmall)
}

func TestEnwik8_UnknownByte(t *testing.T) {
	srv := newCorpusServer(t)
	srv.setFile("/enwik8.zip", buildZip(t, map[string]string{"enwik8": enwik8Data[:99] + "z"}))

	_, err := srv.loader(t).Enwik8(context.Background())
	var ute *UnknownTokenError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "z", ute.Token)
	assert.Equal(t, SplitTest, ute.Source)
}

func TestPTB_UnknownWordInValid(t *testing.T) {
	srv := newCorpusServer(t)
	srv.setFile("/ptb/ptb.valid.txt", []byte(" the cat sat \n the bird sat \n"))

	_, err := srv.loader(t).PTB(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, tokenizer.ErrUnknownToken))

	var ute *UnknownTokenError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "bird", ute.Token)
	assert.Equal(t, "ptb.valid.txt", ute.Source)
	assert.Equal(t, 2, ute.Line)
}

func TestPTB_FetchesOnlyMissingFiles(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	_, err := l.PTB(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(l.Config().Root, "ptb", "ptb.test.txt")))

	_, err = l.PTB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, srv.hitsFor("/ptb/ptb.train.txt"))
	assert.Equal(t, 2, srv.hitsFor("/ptb/ptb.test.txt"))
}

func TestLoad_NetworkError(t *testing.T) {
	srv := newCorpusServer(t)
	cfg := srv.config(t)
	cfg.PTBBaseURL = srv.URL + "/missing/"

	l, err := NewLoader(cfg)
	require.NoError(t, err)

	_, err = l.PTB(context.Background())
	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	files, err := l.CacheFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	srv := newCorpusServer(t)
	cfg := srv.config(t)
	cfg.Checksums = map[string]string{"wikitext-2-v1.zip": strings.Repeat("ab", 32)}

	l, err := NewLoader(cfg)
	require.NoError(t, err)

	_, err = l.WikiText(context.Background(), "2")
	assert.ErrorIs(t, err, fetch.ErrChecksumMismatch)

	_, statErr := os.Stat(filepath.Join(cfg.Root, "wikitext-2"))
	assert.True(t, os.IsNotExist(statErr), "no partial corpus directory is left behind")

	entries, err := os.ReadDir(cfg.Root)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory is removed")
}

func TestWikiText_ArchiveWithoutCorpusDir(t *testing.T) {
	srv := newCorpusServer(t)
	srv.setFile("/wikitext/wikitext-2-v1.zip", buildZip(t, map[string]string{"other/wiki.train.tokens": "x\n"}))

	_, err := srv.loader(t).WikiText(context.Background(), "2")
	assert.Error(t, err)
}

func TestNewLoader_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.Root = "" }},
		{"zero split", func(c *Config) { c.Enwik8SplitBytes = 0 }},
		{"bad checksum", func(c *Config) { c.Checksums = map[string]string{"enwik8.zip": "xyz"} }},
		{"bad normalization", func(c *Config) { c.Normalize = "nfx" }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewLoader(cfg)
			assert.Error(t, err)
		})
	}
}

func TestDataset_Split(t *testing.T) {
	ds := &Dataset{Train: []uint32{1}, Valid: []uint32{2}, Test: []uint32{3}}

	for i, name := range SplitNames() {
		ids, err := ds.Split(name)
		require.NoError(t, err)
		assert.Equal(t, []uint32{uint32(i + 1)}, ids)
	}

	_, err := ds.Split("dev")
	assert.ErrorIs(t, err, ErrUnknownSplit)
}

func TestDataset_Validate(t *testing.T) {
	ds := &Dataset{
		Name:  "tiny",
		Vocab: tokenizer.NewByteVocabulary([]byte("ab")),
		Train: []uint32{0, 1},
		Valid: []uint32{1},
		Test:  []uint32{2},
	}
	assert.ErrorIs(t, ds.Validate(), ErrIDOutOfRange)

	ds.Test = []uint32{0}
	assert.NoError(t, ds.Validate())
}
