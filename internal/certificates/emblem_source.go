package certificates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"vibali-portal/portal-backend/pkg/cache"
)

const maxEmblemBytes = 8 << 20

// EmblemSource yields the encoded bytes of the official emblem image
type EmblemSource interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads the emblem from disk on every call
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.Path)
}

// BytesSource serves an emblem already held in memory
type BytesSource []byte

func (s BytesSource) Load(ctx context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, errors.New("empty emblem")
	}
	return s, nil
}

// HTTPSource fetches the emblem over HTTP and keeps successful responses for
// the cache TTL. Failures are not cached.
type HTTPSource struct {
	url    string
	client *http.Client
	cache  *cache.TTLCache[[]byte]
}

func NewHTTPSource(url string, client *http.Client, ttl time.Duration) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HTTPSource{
		url:    url,
		client: client,
		cache:  cache.New[[]byte](ttl),
	}
}

func (s *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	return s.cache.GetOrSet(s.url, func() ([]byte, error) {
		return s.fetch(ctx)
	})
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("emblem fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxEmblemBytes))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Stats exposes cache hit/miss counters
func (s *HTTPSource) Stats() cache.Stats {
	return s.cache.Stats()
}

// Close stops the cache cleanup goroutine
func (s *HTTPSource) Close() {
	s.cache.Stop()
}
