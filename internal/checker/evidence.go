package checker

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bgreer104/skuchecker/helpers"
)

// Structured-data traversal gives up below this depth; real product
// documents never nest anywhere near it.
const maxTraversalDepth = 50

// availabilityVocab maps normalized schema.org availability tokens to a
// status. Unlisted tokens yield no signal.
var availabilityVocab = map[string]Status{
	"instock":             StatusLive,
	"instoreonly":         StatusLive,
	"onlineonly":          StatusLive,
	"limitedavailability": StatusLive,
	"preorder":            StatusLive,
	"presale":             StatusLive,
	"backorder":           StatusLive,
	"outofstock":          StatusNotAvailable,
	"soldout":             StatusNotAvailable,
	"discontinued":        StatusNotAvailable,
}

// Free-text cue lists, checked case-insensitively against the body.
var (
	liveCues = []string{
		"add to cart",
		"add to basket",
		"ship to home",
		"free pickup today",
		"pick up in store",
		"in stock",
	}

	notAvailableCues = []string{
		"out of stock",
		"sold out",
		"discontinued",
		"currently unavailable",
		"temporarily unavailable",
		"not sold in stores",
		"no longer available",
		"unavailable",
	}
)

// priceRe detects a JSON-style "price" field with a numeric value, a
// weak positive signal used only when no structured channel fires.
var priceRe = regexp.MustCompile(`(?i)"price"\s*:\s*"?\d[\d,]*(?:\.\d+)?`)

// mapAvailabilityToken normalizes a schema.org availability value
// ("https://schema.org/InStock", "http://schema.org/OutOfStock", bare
// "InStock") and maps it through the fixed vocabulary.
func mapAvailabilityToken(raw string) (Status, bool) {
	token := strings.TrimSpace(raw)
	if idx := strings.LastIndex(token, "/"); idx >= 0 {
		token = token[idx+1:]
	}
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", false
	}
	status, ok := availabilityVocab[token]
	return status, ok
}

// structuredAvailability scans JSON-LD blocks in document order and
// returns the first recognized offer availability signal. Malformed
// blocks are skipped without aborting the scan.
func structuredAvailability(doc *goquery.Document) (Status, bool) {
	var (
		found  Status
		haveIt bool
	)
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if status, ok := firstOfferAvailability(data); ok {
			found, haveIt = status, true
			return false
		}
		return true
	})
	return found, haveIt
}

// firstOfferAvailability walks an arbitrarily nested JSON value looking
// for "offers"-shaped fields and returns the first recognized
// availability among the offers found. Map keys are visited in sorted
// order so the walk is deterministic.
func firstOfferAvailability(data interface{}) (Status, bool) {
	var (
		found  Status
		haveIt bool
	)
	walkOffers(data, 0, func(offer map[string]interface{}) bool {
		raw, ok := offer["availability"].(string)
		if !ok {
			return true
		}
		if status, ok := mapAvailabilityToken(raw); ok {
			found, haveIt = status, true
			return false
		}
		return true
	})
	return found, haveIt
}

// walkOffers visits every offer object reachable through an "offers"
// field: a single offer, a list of offers, or an aggregate offer that
// nests more offers. The visitor returns false to stop the walk.
func walkOffers(node interface{}, depth int, visit func(map[string]interface{}) bool) bool {
	if depth > maxTraversalDepth {
		return true
	}
	switch value := node.(type) {
	case map[string]interface{}:
		if offers, ok := value["offers"]; ok {
			if !visitOffers(offers, depth+1, visit) {
				return false
			}
		}
		for _, key := range slices.Sorted(maps.Keys(value)) {
			if key == "offers" {
				continue
			}
			if !walkOffers(value[key], depth+1, visit) {
				return false
			}
		}
	case []interface{}:
		for _, item := range value {
			if !walkOffers(item, depth+1, visit) {
				return false
			}
		}
	}
	return true
}

// visitOffers applies the visitor to the offer objects under an
// "offers" field, recursing into aggregate offers.
func visitOffers(offers interface{}, depth int, visit func(map[string]interface{}) bool) bool {
	if depth > maxTraversalDepth {
		return true
	}
	switch value := offers.(type) {
	case map[string]interface{}:
		if !visit(value) {
			return false
		}
		if nested, ok := value["offers"]; ok {
			return visitOffers(nested, depth+1, visit)
		}
	case []interface{}:
		for _, item := range value {
			if !visitOffers(item, depth+1, visit) {
				return false
			}
		}
	}
	return true
}

// microdataAvailability reads the first itemprop="availability"
// element carrying an href value.
func microdataAvailability(doc *goquery.Document) (Status, bool) {
	href, exists := doc.Find(`[itemprop="availability"]`).First().Attr("href")
	if !exists {
		return "", false
	}
	return mapAvailabilityToken(href)
}

// matchesAny reports whether any cue occurs in the lowercased body.
func matchesAny(lowerBody string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(lowerBody, cue) {
			return true
		}
	}
	return false
}

// hasPriceSignal reports whether the body carries a JSON-style numeric
// price field.
func hasPriceSignal(body string) bool {
	return priceRe.MatchString(body)
}

// extractTitle returns the first <title> content, whitespace-normalized
// and passed through the profile's cleanup rule.
func extractTitle(doc *goquery.Document, profile *Profile) string {
	title := helpers.NormalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	if profile != nil && profile.CleanTitle != nil {
		title = profile.CleanTitle(title)
	}
	return title
}
