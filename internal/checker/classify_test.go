package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStructuredDataWins(t *testing.T) {
	// Structured data says in stock; the free text says otherwise.
	// The machine-readable channel has precedence.
	body := `<html><head>
		<script type="application/ld+json">
		{"@type":"Product","offers":{"price":"129.00","availability":"https://schema.org/InStock"}}
		</script>
	</head><body>Out of Stock</body></html>`

	assert.Equal(t, StatusLive, Classify(body))
}

func TestClassifyStructuredDataNotAvailable(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">
		{"@type":"Product","offers":[{"availability":"http://schema.org/OutOfStock"}]}
		</script>
	</head><body>Add to Cart</body></html>`

	assert.Equal(t, StatusNotAvailable, Classify(body))
}

func TestClassifyMicrodata(t *testing.T) {
	body := `<html><body>
		<link itemprop="availability" href="https://schema.org/InStock">
	</body></html>`

	assert.Equal(t, StatusLive, Classify(body))
}

func TestClassifyPricePresenceFallback(t *testing.T) {
	// A JSON price with no availability metadata is presumptive stock.
	body := `<html><body><script>var product = {"price": "19.99"};</script></body></html>`
	assert.Equal(t, StatusLive, Classify(body))

	// ...unless a not-available cue appears anywhere on the page.
	discontinued := `<html><body><script>var product = {"price": "19.99"};</script>Discontinued</body></html>`
	assert.Equal(t, StatusNotAvailable, Classify(discontinued))
}

func TestClassifyTextCues(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Status
	}{
		{"add to cart", `<html><body><button>Add to Cart</button></body></html>`, StatusLive},
		{"in stock", `<html><body>In Stock and ready to ship</body></html>`, StatusLive},
		{"out of stock", `<html><body>This item is Out of Stock</body></html>`, StatusNotAvailable},
		{"not sold in stores", `<html><body>Not sold in stores</body></html>`, StatusNotAvailable},
		{"live cue beats na cue", `<html><body>Add to Cart. Similar items are out of stock.</body></html>`, StatusLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.body))
		})
	}
}

func TestClassifyNoEvidence(t *testing.T) {
	assert.Equal(t, StatusNoResults, Classify("<html><body>hello</body></html>"))
	assert.Equal(t, StatusNoResults, Classify(""))
}

func TestClassifyDeterministic(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">
		{"@graph":[{"@type":"Product","offers":{"availability":"https://schema.org/InStock"}}]}
		</script>
	</head><body>"price": "10.00" out of stock</body></html>`

	first := Classify(body)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Classify(body))
	}
}

func TestStatusDefinitive(t *testing.T) {
	assert.True(t, StatusLive.Definitive())
	assert.True(t, StatusNotAvailable.Definitive())
	assert.False(t, StatusNoResults.Definitive())
	assert.False(t, StatusError.Definitive())
}
