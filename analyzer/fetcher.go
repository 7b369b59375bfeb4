package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fetcher performs all outbound HTTP calls for the analyzers. Timeouts are
// applied per call through contexts; the client itself carries none so the
// same client can serve calls with different deadlines.
type fetcher struct {
	client    *http.Client
	userAgent string
}

// newFetcher builds a fetcher with connection pooling and a capped redirect
// chain. When blockPrivate is set, dials to private/reserved address ranges
// are rejected to prevent SSRF via user-supplied URLs.
func newFetcher(blockPrivate bool) *fetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if blockPrivate {
		transport.DialContext = safeDialer().DialContext
	}
	return newFetcherWithTransport(transport)
}

func newFetcherWithTransport(rt http.RoundTripper) *fetcher {
	return &fetcher{
		client: &http.Client{
			Transport: rt,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
	}
}

func (f *fetcher) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	return req, nil
}

// document fetches a page and parses it into a queryable HTML document.
// The response body is capped at 10 MB.
func (f *fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	body, status, _, err := f.get(ctx, url, maxPageBody)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: page returned status %d", ErrFetchFailure, status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	return doc, nil
}

// get performs a GET and returns the size-capped body. Non-2xx statuses are
// returned to the caller rather than treated as errors.
func (f *fetcher) get(ctx context.Context, url string, limit int64) ([]byte, int, http.Header, error) {
	req, err := f.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, 0, nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, resp.StatusCode, resp.Header, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	return body, resp.StatusCode, resp.Header, nil
}

// headers retrieves response headers via HEAD, falling back to a size-capped
// GET for servers that reject HEAD. Error statuses still yield headers.
func (f *fetcher) headers(ctx context.Context, url string) (http.Header, int, error) {
	req, err := f.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return nil, 0, err
	}

	resp, err := f.client.Do(req)
	if err == nil {
		resp.Body.Close()
		return resp.Header, resp.StatusCode, nil
	}

	_, status, header, err := f.get(ctx, url, maxHeaderProbeBody)
	if err != nil {
		return nil, 0, err
	}
	return header, status, nil
}

// probe performs a HEAD request and reports the status code, for link
// liveness checking.
func (f *fetcher) probe(ctx context.Context, url string) (int, error) {
	req, err := f.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
