// Package jobdesc loads job description text from a file or a job posting
// URL. The text feeds keyword profile enrichment.
package jobdesc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every posting request
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAgent/1.0)"

// maxPageBytes bounds how much of a posting page is read
const maxPageBytes = 5 << 20

// Options configures fetching
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Logger    *zap.Logger

	// UseBrowser renders postings whose static text is too short
	UseBrowser     bool
	BrowserTimeout time.Duration
	// Render defaults to RenderWithBrowser
	Render RenderFunc
}

func (o *Options) withDefaults() Options {
	out := Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		BrowserTimeout: DefaultBrowserTimeout,
		Render:         RenderWithBrowser,
	}
	if o == nil {
		out.Logger = zap.NewNop()
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	if o.BrowserTimeout > 0 {
		out.BrowserTimeout = o.BrowserTimeout
	}
	if o.Render != nil {
		out.Render = o.Render
	}
	out.UseBrowser = o.UseBrowser
	out.Client = o.Client
	out.Logger = logger.OrNop(o.Logger)
	return out
}

// IsURL reports whether source is an http or https URL
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the cleaned job description from source. An empty source
// yields "", a URL is fetched and reduced to its main text, anything else is
// read as a file.
func Load(ctx context.Context, source string, opts *Options) (string, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return "", nil
	case IsURL(source):
		return Fetch(ctx, source, opts)
	default:
		content, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return Clean(string(content)), nil
	}
}

// Fetch downloads a job posting and returns its main text. Platform-specific
// selectors are used for known applicant tracking systems.
func Fetch(ctx context.Context, rawURL string, opts *Options) (string, error) {
	o := opts.withDefaults()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", o.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	platform := DetectPlatform(rawURL)
	o.Logger.Debug("fetched job posting",
		zap.String("url", rawURL),
		zap.String("platform", string(platform)),
		zap.Int("bytes", len(body)))

	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return Clean(string(body)), nil
	}

	text, err := ExtractText(string(body), platform)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "content extraction failed", Cause: err}
	}
	if o.UseBrowser && NeedsBrowser(text) {
		text = renderFallback(ctx, rawURL, platform, text, &o)
	}
	return text, nil
}

// renderFallback re-extracts the posting from browser-rendered HTML. The
// static text is kept when rendering fails or yields nothing better.
func renderFallback(ctx context.Context, rawURL string, platform Platform, static string, o *Options) string {
	log := o.Logger.With(zap.String("url", rawURL))
	log.Debug("posting text too short, rendering in browser",
		zap.Int("chars", len(static)),
		zap.Int("min_chars", MinContentLength))

	html, err := o.Render(ctx, rawURL, o.BrowserTimeout)
	if err != nil {
		log.Warn("browser rendering failed, using static text", zap.Error(err))
		return static
	}
	rendered, err := ExtractText(html, platform)
	if err != nil || len(rendered) <= len(static) {
		log.Debug("rendered page added no text", zap.Error(err))
		return static
	}
	log.Debug("rendered posting", zap.Int("chars", len(rendered)))
	return rendered
}

// ExtractText parses a posting page and returns the text of the first
// element matching the platform's content selectors, or the body. Page
// chrome and application forms are removed first.
func ExtractText(html string, platform Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript").Remove()
	doc.Find(strings.Join(noiseSelectors(platform), ", ")).Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return Clean(main.Text()), nil
}
