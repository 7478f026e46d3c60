package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"bgreer104/skuchecker/pkg/errors"
)

const searchURL = "https://shop.example.com/search?q=EZC17"

func pdpBody(title, availability string) string {
	return `<html><head><title>` + title + `</title>
		<script type="application/ld+json">
		{"@type":"Product","offers":{"availability":"` + availability + `"}}
		</script></head><body></body></html>`
}

func searchBody(paths ...string) string {
	body := "<html><body>"
	for _, path := range paths {
		body += `<a href="` + path + `">link</a>`
	}
	return body + "</body></html>"
}

func TestResolveFirstDefinitiveCandidateWins(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, searchBody("/p/widget/1", "/p/widget/2", "/p/widget/3"))
	fetcher.addPage("https://shop.example.com/p/widget/1", "<html><body>nothing here</body></html>")
	fetcher.addPage("https://shop.example.com/p/widget/2", pdpBody("Widget", "https://schema.org/OutOfStock"))
	fetcher.addPage("https://shop.example.com/p/widget/3", pdpBody("Widget", "https://schema.org/InStock"))

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusNotAvailable, result.Status)
	assert.Equal(t, "https://shop.example.com/p/widget/2", result.URL)
	// The third candidate must never be fetched once the second
	// classifies definitively.
	assert.Equal(t, 3, fetcher.fetchCount())
	assert.NotContains(t, fetcher.fetched, "https://shop.example.com/p/widget/3")
}

func TestResolveFallsBackToFirstCandidate(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, searchBody("/p/widget/1", "/p/widget/2"))
	fetcher.addPage("https://shop.example.com/p/widget/1", "<html><head><title>First</title></head><body>hello</body></html>")
	fetcher.addPage("https://shop.example.com/p/widget/2", "<html><head><title>Second</title></head><body>hello</body></html>")

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusNoResults, result.Status)
	assert.Equal(t, "https://shop.example.com/p/widget/1", result.URL)
	assert.Equal(t, "First", result.ProductName)
	assert.Equal(t, "no definitive candidate; used first PDP", result.Notes)
}

func TestResolveNoCandidatesClassifiesSearchPage(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, `<html><head><title>Search results</title></head><body>In Stock at a store near you</body></html>`)

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusLive, result.Status)
	assert.Equal(t, searchURL, result.URL)
	assert.Equal(t, "no PDP link found", result.Notes)
	assert.Equal(t, 1, fetcher.fetchCount())
}

func TestResolveSearchFetchFailure(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addError(searchURL, errors.NewNetwork("shop.example.com", "connection refused", nil))

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Notes, "connection refused")
	assert.Empty(t, result.URL)
}

func TestResolveCandidateFetchFailure(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, searchBody("/p/widget/1"))
	fetcher.addError("https://shop.example.com/p/widget/1", errors.NewNetwork("shop.example.com", "timeout", nil))

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Notes, "timeout")
}

func TestResolveAppliesDecoration(t *testing.T) {
	profile := testProfile()
	profile.DecorateURL = func(pdpURL string) string {
		return pdpURL + "?skip=interstitial"
	}

	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, searchBody("/p/widget/1"))
	fetcher.addPage("https://shop.example.com/p/widget/1?skip=interstitial", pdpBody("Widget", "https://schema.org/InStock"))

	result := NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", profile)

	assert.Equal(t, StatusLive, result.Status)
	assert.Equal(t, "https://shop.example.com/p/widget/1?skip=interstitial", result.URL)
}

func TestResolveRespectsMaxCandidates(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.addPage(searchURL, searchBody("/p/widget/1", "/p/widget/2", "/p/widget/3"))
	fetcher.addPage("https://shop.example.com/p/widget/1", "<html><body>x</body></html>")
	fetcher.addPage("https://shop.example.com/p/widget/2", "<html><body>x</body></html>")

	result := NewResolver(fetcher, 2).Resolve(context.Background(), "EZC17", testProfile())

	assert.Equal(t, StatusNoResults, result.Status)
	// search + two candidates; the third is past the bound
	assert.Equal(t, 3, fetcher.fetchCount())
}

func TestResolveIdempotent(t *testing.T) {
	makeResult := func() CheckResult {
		fetcher := newMockFetcher()
		fetcher.addPage(searchURL, searchBody("/p/widget/1"))
		fetcher.addPage("https://shop.example.com/p/widget/1", pdpBody("Widget", "https://schema.org/InStock"))
		return NewResolver(fetcher, 5).Resolve(context.Background(), "EZC17", testProfile())
	}

	assert.Equal(t, makeResult(), makeResult())
}
