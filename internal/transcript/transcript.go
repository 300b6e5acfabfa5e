// ABOUTME: Video transcript retrieval through YouTube's timedtext endpoint
// ABOUTME: Transcripts become ordinary documents and flow through the same index
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"corpusqa/internal/models"
	"corpusqa/internal/store"
)

var videoIDRe = regexp.MustCompile(`(v=|youtu\.be/)([^&?/]+)`)

// ExtractVideoID pulls the video identifier out of a watch or short
// URL. Returns "" when the URL carries none.
func ExtractVideoID(rawURL string) string {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[2]
}

// Fetcher retrieves plain-text transcripts for video IDs.
type Fetcher struct {
	client  *http.Client
	baseURL string
	langs   []string
}

// NewFetcher builds a transcript fetcher preferring langs in order.
func NewFetcher(timeout time.Duration, langs []string) *Fetcher {
	if len(langs) == 0 {
		langs = []string{"vi", "en"}
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://video.google.com/timedtext",
		langs:   langs,
	}
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the transcript text for a video, trying each preferred
// language in order. A video with no transcript in any language yields
// an error; the ingest loop treats that as skip-and-continue.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for _, lang := range f.langs {
		text, err := f.fetchLang(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("no %s transcript for %s", lang, videoID)
	}
	return "", lastErr
}

func (f *Fetcher) fetchLang(ctx context.Context, videoID, lang string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", f.baseURL, url.QueryEscape(lang), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript request for %s: status %s", videoID, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parsing transcript: %w", err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Body))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), nil
}

// Ingestor persists transcripts as documents keyed by video URL.
type Ingestor struct {
	fetcher *Fetcher
	store   *store.DocStore
	now     func() time.Time
}

// NewIngestor wires a fetcher to the document store.
func NewIngestor(fetcher *Fetcher, docs *store.DocStore) *Ingestor {
	return &Ingestor{fetcher: fetcher, store: docs, now: time.Now}
}

// Report aggregates per-video outcomes of one ingest run.
type Report struct {
	Saved   int
	Skipped int
}

// Ingest fetches and persists each video's transcript. Videos without
// transcripts or with unparsable URLs are counted and skipped, never
// fatal.
func (i *Ingestor) Ingest(ctx context.Context, videoURLs []string) (Report, error) {
	var report Report
	for _, raw := range videoURLs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id := ExtractVideoID(raw)
		if id == "" {
			slog.Warn("no video id in url", "url", raw)
			report.Skipped++
			continue
		}

		text, err := i.fetcher.Fetch(ctx, id)
		if err != nil {
			slog.Warn("skipping video", "url", raw, "error", err)
			report.Skipped++
			continue
		}

		doc := models.Document{
			Text: text,
			Meta: models.Metadata{
				Source:    "youtube.com",
				URL:       raw,
				CrawlTime: i.now().Format("2006-01-02 15:04:05"),
			},
		}
		if _, err := i.store.Save(doc); err != nil {
			return report, fmt.Errorf("saving transcript for %s: %w", raw, err)
		}
		report.Saved++
	}
	return report, nil
}
