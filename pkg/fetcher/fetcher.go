package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Result is the raw payload of one fetched page.
type Result struct {
	Body        []byte
	FinalURL    string // URL that served the body, after redirects
	StatusCode  int
	ContentType string
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
}

type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
		userAgent: opts.UserAgent,
	}, nil
}

// Fetch performs a single GET for url and returns the full body.
// Any transport failure, non-2xx status or empty body is a *NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Reason: "failed to build request", Wrapped: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Reason: "failed to make HTTP request", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode, Reason: "failed to read response body", Wrapped: err}
	}
	if len(body) == 0 {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode, Reason: "empty response body"}
	}

	return &Result{
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
