package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserSourceFetcher scrapes submission source code from the Codeforces
// submission page with a headless browser, since no API exposes it.
type BrowserSourceFetcher struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBrowserSourceFetcher constructs the scraper.
func NewBrowserSourceFetcher(timeout time.Duration, logger zerolog.Logger) *BrowserSourceFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BrowserSourceFetcher{
		timeout: timeout,
		logger:  logger.With().Str("component", "source_fetcher").Logger(),
	}
}

// FetchSource navigates to the submission page and extracts the program text.
func (f *BrowserSourceFetcher) FetchSource(ctx context.Context, contestID, submissionID string) (string, error) {
	if contestID == "" || submissionID == "" {
		return "", fmt.Errorf("contest id and submission id are required")
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	pageURL := fmt.Sprintf("https://codeforces.com/contest/%s/submission/%s", contestID, submissionID)

	var source string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("#program-source-text", chromedp.ByID),
		chromedp.Text("#program-source-text", &source, chromedp.ByID),
	)
	if err != nil {
		return "", fmt.Errorf("failed to scrape submission %s: %w", submissionID, err)
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("submission %s page contained no source", submissionID)
	}

	f.logger.Debug().Str("submission_id", submissionID).Int("bytes", len(source)).Msg("scraped submission source")

	return source, nil
}
