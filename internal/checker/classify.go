package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Classify decides an availability status for one page body. Evidence
// channels are consulted under a fixed precedence; the first channel
// that yields a signal wins:
//
//  1. structured-data (JSON-LD) offer availability
//  2. microdata itemprop availability
//  3. price presence (not-available cues still override it)
//  4. free-text live cues
//  5. free-text not-available cues
//
// With no signal at all the page classifies as StatusNoResults.
// Classify is a pure function of the body text.
func Classify(body string) Status {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		if status, ok := structuredAvailability(doc); ok {
			return status
		}
		if status, ok := microdataAvailability(doc); ok {
			return status
		}
	}

	lowerBody := strings.ToLower(body)

	// A price without availability metadata is presumptive stock, but a
	// discontinued listing can still show its last price, so the
	// not-available cues are checked first.
	if hasPriceSignal(body) {
		if matchesAny(lowerBody, notAvailableCues) {
			return StatusNotAvailable
		}
		return StatusLive
	}

	if matchesAny(lowerBody, liveCues) {
		return StatusLive
	}
	if matchesAny(lowerBody, notAvailableCues) {
		return StatusNotAvailable
	}
	return StatusNoResults
}
