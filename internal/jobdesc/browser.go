package jobdesc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the extracted text length below which a posting is
// treated as JavaScript-rendered and rendered in a headless browser.
const MinContentLength = 500

// DefaultBrowserTimeout bounds one headless render
const DefaultBrowserTimeout = 30 * time.Second

// RenderFunc returns the rendered HTML of a page
type RenderFunc func(ctx context.Context, rawURL string, timeout time.Duration) (string, error)

// NeedsBrowser reports whether the statically extracted text is too short to
// be the posting itself.
func NeedsBrowser(extracted string) bool {
	return len(strings.TrimSpace(extracted)) < MinContentLength
}

// RenderWithBrowser loads rawURL in headless Chrome and returns the page HTML
// once the body is ready. Chrome or Chromium must be installed.
func RenderWithBrowser(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		// ATS boards fill the posting in after the initial load
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}
