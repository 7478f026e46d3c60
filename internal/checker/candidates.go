package checker

import (
	"html"
	"net/url"
)

// DefaultMaxCandidates bounds how many PDP links are taken from one
// search page when no explicit bound is configured.
const DefaultMaxCandidates = 5

// ExtractCandidates pulls candidate PDP links out of a search results
// page: matches of the profile's link pattern in document order,
// resolved to absolute URLs against the origin, de-duplicated keeping
// the first occurrence, bounded by maxCandidates. An empty result is a
// normal outcome for listing pages without direct product links.
func ExtractCandidates(body string, profile *Profile, maxCandidates int) []string {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	base, err := url.Parse(profile.Origin)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, match := range profile.LinkPattern.FindAllStringSubmatch(body, -1) {
		if len(match) < 2 {
			continue
		}
		ref, err := url.Parse(html.UnescapeString(match[1]))
		if err != nil {
			continue
		}
		absolute := base.ResolveReference(ref).String()
		if seen[absolute] {
			continue
		}
		seen[absolute] = true
		candidates = append(candidates, absolute)
		if len(candidates) >= maxCandidates {
			break
		}
	}
	return candidates
}
