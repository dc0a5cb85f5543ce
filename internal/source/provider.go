package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jengzang/rci-backend-go/internal/apperrors"
)

// Provider supplies the raw reading set for one aggregation pass
type Provider interface {
	Readings(ctx context.Context) (*ParseResult, error)
}

const (
	// DefaultUpstreamTimeout bounds a fetch when no positive timeout is given
	DefaultUpstreamTimeout = 15 * time.Second
	// MaxResponseBytes caps the size of an upstream response body
	MaxResponseBytes = 256 << 20
)

// HTTPProvider fetches readings from a remote map-data endpoint. JSON arrays
// and CSV bodies are both accepted, selected by the response content type.
// Concurrent callers share one in-flight fetch.
type HTTPProvider struct {
	url     string
	client  *http.Client
	maxBody int64
	group   singleflight.Group
}

// NewHTTPProvider creates a provider for the given URL. A non-positive
// timeout is replaced by DefaultUpstreamTimeout so a hung upstream can never
// pin the shared fetch.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	return &HTTPProvider{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		maxBody: MaxResponseBytes,
	}
}

// Readings fetches and parses the remote feed. The returned result may be
// shared with other callers and must not be modified.
func (p *HTTPProvider) Readings(ctx context.Context) (*ParseResult, error) {
	// The shared fetch outlives any single caller; the client timeout bounds it
	ch := p.group.DoChan(p.url, func() (interface{}, error) {
		return p.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamFetch, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ParseResult), nil
	}
}

func (p *HTTPProvider) fetch(ctx context.Context) (*ParseResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrUpstreamFetch, p.url, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))

	body := http.MaxBytesReader(nil, resp.Body, p.maxBody)

	var result *ParseResult
	switch mediaType {
	case "text/csv", "application/csv":
		result, err = ParseCSV(body)
	default:
		result, err = DecodeJSON(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamFetch, err)
	}

	log.Printf("[HTTPProvider] Fetched %d readings from %s (%d skipped)", len(result.Readings), p.url, result.Skipped)
	return result, nil
}
