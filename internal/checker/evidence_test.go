package checker

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestMapAvailabilityToken(t *testing.T) {
	tests := []struct {
		raw      string
		expected Status
		ok       bool
	}{
		{"https://schema.org/InStock", StatusLive, true},
		{"http://schema.org/OutOfStock", StatusNotAvailable, true},
		{"schema.org/Discontinued", StatusNotAvailable, true},
		{"InStock", StatusLive, true},
		{" https://schema.org/PreOrder ", StatusLive, true},
		{"https://schema.org/SoldOut", StatusNotAvailable, true},
		{"https://schema.org/SomethingElse", "", false},
		{"", "", false},
		{"/", "", false},
	}
	for _, tt := range tests {
		status, ok := mapAvailabilityToken(tt.raw)
		assert.Equal(t, tt.ok, ok, "token %q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.expected, status, "token %q", tt.raw)
		}
	}
}

func TestStructuredAvailabilitySingleOffer(t *testing.T) {
	doc := docFrom(t, `<html><head><script type="application/ld+json">
		{"@type":"Product","name":"Widget","offers":{"@type":"Offer","availability":"https://schema.org/InStock"}}
	</script></head><body></body></html>`)

	status, ok := structuredAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusLive, status)
}

func TestStructuredAvailabilityOfferList(t *testing.T) {
	doc := docFrom(t, `<html><head><script type="application/ld+json">
		{"offers":[{"availability":"https://schema.org/Unmapped"},{"availability":"https://schema.org/OutOfStock"}]}
	</script></head><body></body></html>`)

	status, ok := structuredAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusNotAvailable, status)
}

func TestStructuredAvailabilityAggregateOffer(t *testing.T) {
	doc := docFrom(t, `<html><head><script type="application/ld+json">
		{"@type":"Product","offers":{"@type":"AggregateOffer","lowPrice":"10","offers":[{"availability":"https://schema.org/InStock"}]}}
	</script></head><body></body></html>`)

	status, ok := structuredAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusLive, status)
}

func TestStructuredAvailabilityNestedGraph(t *testing.T) {
	doc := docFrom(t, `<html><head><script type="application/ld+json">
		{"@graph":[{"@type":"BreadcrumbList"},{"@type":"Product","offers":{"availability":"https://schema.org/OutOfStock"}}]}
	</script></head><body></body></html>`)

	status, ok := structuredAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusNotAvailable, status)
}

func TestStructuredAvailabilityMalformedBlockSkipped(t *testing.T) {
	// The first block is unparseable; the scan must continue to the
	// second instead of aborting.
	doc := docFrom(t, `<html><head>
		<script type="application/ld+json">{not json at all</script>
		<script type="application/ld+json">{"offers":{"availability":"https://schema.org/InStock"}}</script>
	</head><body></body></html>`)

	status, ok := structuredAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusLive, status)
}

func TestStructuredAvailabilityNoSignal(t *testing.T) {
	doc := docFrom(t, `<html><head><script type="application/ld+json">
		{"@type":"WebSite","name":"shop"}
	</script></head><body></body></html>`)

	_, ok := structuredAvailability(doc)
	assert.False(t, ok)
}

func TestMicrodataAvailability(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<link itemprop="availability" href="https://schema.org/OutOfStock">
		<link itemprop="availability" href="https://schema.org/InStock">
	</body></html>`)

	status, ok := microdataAvailability(doc)
	assert.True(t, ok)
	assert.Equal(t, StatusNotAvailable, status, "first element wins")
}

func TestMicrodataAvailabilityMissingHref(t *testing.T) {
	doc := docFrom(t, `<html><body><span itemprop="availability">In stock</span></body></html>`)

	_, ok := microdataAvailability(doc)
	assert.False(t, ok)
}

func TestHasPriceSignal(t *testing.T) {
	assert.True(t, hasPriceSignal(`{"price": "19.99"}`))
	assert.True(t, hasPriceSignal(`{"price":1299}`))
	assert.True(t, hasPriceSignal(`{"Price": "1,299.00"}`))
	assert.False(t, hasPriceSignal(`{"price": "TBD"}`))
	assert.False(t, hasPriceSignal(`the price is right`))
}

func TestExtractTitle(t *testing.T) {
	profile := &Profile{
		Name: "TestMart",
		CleanTitle: func(title string) string {
			return strings.TrimSuffix(title, " - TestMart")
		},
	}
	doc := docFrom(t, "<html><head><title>\n  EGO 21 in. Mower \t - TestMart </title></head><body></body></html>")

	assert.Equal(t, "EGO 21 in. Mower", extractTitle(doc, profile))
}

func TestExtractTitleMissing(t *testing.T) {
	doc := docFrom(t, "<html><body>no title</body></html>")
	assert.Equal(t, "", extractTitle(doc, testProfile()))
}

func TestWalkOffersDepthCap(t *testing.T) {
	// Build a value nested beyond the traversal cap; the walk must
	// terminate without finding the deep offer.
	deep := map[string]interface{}{
		"offers": map[string]interface{}{"availability": "https://schema.org/InStock"},
	}
	var nested interface{} = deep
	for i := 0; i < maxTraversalDepth+10; i++ {
		nested = map[string]interface{}{"child": nested}
	}

	_, ok := firstOfferAvailability(nested)
	assert.False(t, ok)
}
