package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"notemap/snapshot"
)

// ErrFetch marks a document that could not be retrieved.
var ErrFetch = errors.New("fetch failed")

// Fetcher downloads shared documents.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	log      *zap.Logger
}

type FetcherOption func(*Fetcher)

// WithClient replaces the HTTP client. The fetcher's timeout is not applied
// to a custom client.
func WithClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

func WithFetchLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFetcher returns a fetcher that gives up after timeout and rejects
// bodies larger than maxBytes.
func NewFetcher(timeout time.Duration, maxBytes int64, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and decodes the document at rawURL. Transport failures,
// non-2xx responses and oversized bodies wrap ErrFetch; unusable JSON wraps
// snapshot.ErrMalformed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*snapshot.Envelope, error) {
	u, err := parseHTTP(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, u.Redacted(), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document larger than %d bytes", ErrFetch, f.maxBytes)
	}

	env, err := snapshot.Decode(body)
	if err != nil {
		return nil, err
	}
	f.log.Debug("shared document fetched",
		zap.String("url", u.Redacted()), zap.Int("nodes", len(env.Data.Nodes)))
	return env, nil
}

// FetchLink resolves a share link and fetches its document.
func (f *Fetcher) FetchLink(ctx context.Context, link string) (*snapshot.Envelope, error) {
	src, err := SourceURL(link)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, src)
}
