package corpus

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/lmdata/internal/parallel"
)

// Small stand-ins for the real corpora, in their original formatting.
var (
	ptbTrain = " the cat sat on the mat \n the dog sat \n"
	ptbValid = " the cat sat \n"
	ptbTest  = " the dog \n"

	wikiTrain = " \n = Title = \n \n the cat \n"
	wikiValid = " the cat \n \n"
	wikiTest  = " = cat = \n"

	enwik8Data = strings.Repeat("abcdefghij", 10)
)

// corpusServer serves PTB files, WikiText archives and enwik8 and counts
// requests per path.
type corpusServer struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

func newCorpusServer(t *testing.T) *corpusServer {
	t.Helper()

	s := &corpusServer{
		files: map[string][]byte{
			"/ptb/ptb.train.txt": []byte(ptbTrain),
			"/ptb/ptb.valid.txt": []byte(ptbValid),
			"/ptb/ptb.test.txt":  []byte(ptbTest),
			"/wikitext/wikitext-2-v1.zip": buildZip(t, map[string]string{
				"wikitext-2/wiki.train.tokens": wikiTrain,
				"wikitext-2/wiki.valid.tokens": wikiValid,
				"wikitext-2/wiki.test.tokens":  wikiTest,
			}),
			"/wikitext/wikitext-103-v1.zip": buildZip(t, map[string]string{
				"wikitext-103/wiki.train.tokens": wikiTrain + " the dog \n",
				"wikitext-103/wiki.valid.tokens": wikiValid,
				"wikitext-103/wiki.test.tokens":  wikiTest,
			}),
			"/enwik8.zip": buildZip(t, map[string]string{"enwik8": enwik8Data}),
		},
		hits: make(map[string]int),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		body, ok := s.files[r.URL.Path]
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *corpusServer) setFile(path string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = body
}

func (s *corpusServer) hitsFor(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *corpusServer) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}

func (s *corpusServer) config(t *testing.T) Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Root = t.TempDir()
	cfg.PTBBaseURL = s.URL + "/ptb"
	cfg.WikiTextBaseURL = s.URL + "/wikitext/"
	cfg.Enwik8URL = s.URL + "/enwik8.zip"
	cfg.Enwik8SplitBytes = 10
	cfg.Parallel = parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 4}
	return cfg
}

func (s *corpusServer) loader(t *testing.T) *Loader {
	t.Helper()

	l, err := NewLoader(s.config(t))
	require.NoError(t, err)
	return l
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
