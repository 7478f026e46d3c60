// Package fetch implements the page-retrieval capability used by the
// checker: GET with browser-like headers, bounded retries on transient
// status codes, charset normalization to UTF-8, and site-level
// rate-limit blocks.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"golang.org/x/net/html/charset"

	"bgreer104/skuchecker/internal/metrics"
	"bgreer104/skuchecker/logger"
	"bgreer104/skuchecker/pkg/errors"
	"bgreer104/skuchecker/services/cache"
)

// Result is the outcome of retrieving one URL.
type Result struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	// StatusCode is the HTTP status of the last response.
	StatusCode int
	// Body is the response body decoded to UTF-8.
	Body string
}

// Fetcher retrieves a URL. Implementations handle retries; a returned
// error means the fetch is exhausted and the caller should give up.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Result, error)
}

var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}

	// Only these status codes are retried; only GET is issued so every
	// retry is idempotent.
	transientStatusCodes = []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
)

// Options configures an HTTPClient.
type Options struct {
	Timeout   time.Duration
	Attempts  int
	Backoff   time.Duration
	BlockTime time.Duration
	Blocks    cache.CacheService
	Metrics   *metrics.Metrics
}

// HTTPClient is the production Fetcher. Each worker owns its own
// instance so transport state is never shared between goroutines.
type HTTPClient struct {
	client    *http.Client
	attempts  int
	backoff   time.Duration
	blockTime time.Duration
	blocks    cache.CacheService
	metrics   *metrics.Metrics
	log       *logger.Logger
	rnd       *mathrand.Rand
}

// NewHTTPClient creates a fetcher from options, applying defaults for
// anything unset.
func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 400 * time.Millisecond
	}
	if opts.BlockTime <= 0 {
		opts.BlockTime = 5 * time.Minute
	}

	return &HTTPClient{
		client:    &http.Client{Timeout: opts.Timeout},
		attempts:  opts.Attempts,
		backoff:   opts.Backoff,
		blockTime: opts.BlockTime,
		blocks:    opts.Blocks,
		metrics:   opts.Metrics,
		log:       logger.ForFetcher(),
		rnd:       mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Fetch retrieves pageURL, retrying transient failures with exponential
// backoff. Non-transient HTTP errors (e.g. 404) are not failures: the
// body still carries classification evidence, so they return a Result.
func (c *HTTPClient) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	host := hostOf(pageURL)
	if err := c.checkBlock(host); err != nil {
		c.metrics.IncError(string(errors.ErrorTypeRateLimit))
		return nil, err
	}

	start := time.Now()
	defer func() {
		c.metrics.ObserveFetchDuration(time.Since(start))
	}()

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			c.metrics.IncRetries()
			if err := sleepContext(ctx, c.backoff*(1<<(attempt-1))); err != nil {
				return nil, errors.NewNetwork(host, "fetch canceled", err)
			}
		}

		result, retryable, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			c.metrics.IncFetch("ok")
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Debug().
			Str("url", pageURL).
			Int("attempt", attempt+1).
			Err(err).
			Msg("Transient fetch failure")
	}

	c.metrics.IncFetch("error")
	if checkErr, ok := lastErr.(*errors.CheckError); ok && checkErr.Type == errors.ErrorTypeRateLimit {
		c.setBlock(host)
		return nil, lastErr
	}
	return nil, errors.NewNetwork(host, fmt.Sprintf("fetch %s failed after %d attempts", pageURL, c.attempts), lastErr)
}

// fetchOnce issues a single GET. The second return value reports
// whether the failure is worth retrying.
func (c *HTTPClient) fetchOnce(ctx context.Context, pageURL string) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, errors.NewNetwork(hostOf(pageURL), "create request", err)
	}

	// Browser-like headers; some retailers reject bare clients.
	req.Header.Set("User-Agent", userAgents[c.rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[c.rnd.Intn(len(referers))])
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, errors.NewNetwork(hostOf(pageURL), "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		retryAfter := resp.Header.Get("Retry-After")
		err := errors.NewRateLimit(hostOf(pageURL), c.blockTime)
		if retryAfter != "" {
			err.Message = fmt.Sprintf("%s (Retry-After: %s)", err.Message, retryAfter)
		}
		return nil, true, err
	}
	if slices.Contains(transientStatusCodes, resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return nil, true, errors.NewNetwork(hostOf(pageURL),
			fmt.Sprintf("transient status code %d", resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errors.NewNetwork(hostOf(pageURL), "read response body", err)
	}

	body, err := toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, false, errors.NewParsing(hostOf(pageURL), "decode response body", err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, false, nil
}

// toUTF8 converts a response body to UTF-8 based on the Content-Type
// header and body sniffing.
func toUTF8(bodyBytes []byte, contentType string) (string, error) {
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return string(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	decoded, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (c *HTTPClient) checkBlock(host string) error {
	if c.blocks == nil || host == "" {
		return nil
	}
	if _, err := c.blocks.Get(blockKey(host)); err == nil {
		return errors.NewRateLimit(host, c.blockTime)
	}
	return nil
}

func (c *HTTPClient) setBlock(host string) {
	if c.blocks == nil || host == "" {
		return
	}
	seconds := strconv.Itoa(int(c.blockTime / time.Second))
	if err := c.blocks.Set(blockKey(host), []byte(seconds), c.blockTime); err != nil {
		c.log.Warn().Str("host", host).Err(err).Msg("Failed to set rate-limit block")
	}
}

func blockKey(host string) string {
	return "block:" + host
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
