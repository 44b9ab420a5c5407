package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Common errors.
var (
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
)

// Source opens remote resources for reading.
type Source interface {
	// Open returns the body of rawURL. The caller closes it.
	Open(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// Mux dispatches URLs to sources by scheme.
type Mux struct {
	sources map[string]Source
}

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{sources: make(map[string]Source)}
}

// Handle registers src for scheme (e.g. "https", "s3").
func (m *Mux) Handle(scheme string, src Source) {
	m.sources[strings.ToLower(scheme)] = src
}

// Open implements Source.
func (m *Mux) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	src, ok := m.sources[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnsupportedScheme, u.Scheme, rawURL)
	}
	return src.Open(ctx, rawURL)
}

// DefaultMux serves http, https and s3 URLs.
//
// timeout bounds each HTTP request (zero means no limit); region is the AWS
// region used for s3 URLs. The AWS session is created on the first s3 URL,
// so HTTP-only use never reads the AWS configuration.
func DefaultMux(timeout time.Duration, region string) *Mux {
	httpSrc := NewHTTPSource(timeout)

	m := NewMux()
	m.Handle("http", httpSrc)
	m.Handle("https", httpSrc)
	m.Handle("s3", Lazy(func() (Source, error) {
		return NewS3Source(region)
	}))
	return m
}

// lazySource builds its Source on the first Open and reuses it, or the
// error building it, afterwards.
type lazySource struct {
	once  sync.Once
	build func() (Source, error)
	src   Source
	err   error
}

// Lazy returns a Source that calls build on first use.
func Lazy(build func() (Source, error)) Source {
	return &lazySource{build: build}
}

// Open implements Source.
func (l *lazySource) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	l.once.Do(func() {
		l.src, l.err = l.build()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.src.Open(ctx, rawURL)
}
