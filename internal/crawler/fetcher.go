// ABOUTME: PageFetcher variants: plain HTTP fetch and headless-browser rendering
// ABOUTME: Selected per-domain so JavaScript-heavy sites still yield article text
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0"

// PageFetcher produces raw HTML for a URL. Implementations must honor
// the context deadline.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StaticFetcher does a plain GET, enough for server-rendered pages.
type StaticFetcher struct {
	client *http.Client
}

// NewStaticFetcher builds a fetcher with the given per-request timeout.
func NewStaticFetcher(timeout time.Duration) *StaticFetcher {
	return &StaticFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetching %s: status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// RenderingFetcher drives headless Chrome so client-side rendered pages
// produce their final DOM. Considerably slower than StaticFetcher; only
// domains listed in rendered_domains pay for it.
type RenderingFetcher struct {
	timeout time.Duration
}

// NewRenderingFetcher builds a rendering fetcher with the given
// per-page timeout.
func NewRenderingFetcher(timeout time.Duration) *RenderingFetcher {
	return &RenderingFetcher{timeout: timeout}
}

func (f *RenderingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}
