package checker

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bgreer104/skuchecker/internal/fetch"
	"bgreer104/skuchecker/logger"
)

// Resolver drives the search → candidates → classify loop for one
// site. It never returns an error: every failure becomes a CheckResult
// with StatusError so one identifier can never abort a batch.
type Resolver struct {
	fetcher       fetch.Fetcher
	maxCandidates int
}

// NewResolver creates a resolver over the given fetcher.
func NewResolver(fetcher fetch.Fetcher, maxCandidates int) *Resolver {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Resolver{
		fetcher:       fetcher,
		maxCandidates: maxCandidates,
	}
}

// Resolve produces exactly one CheckResult for identifier on the
// profile's site. Candidates are fetched strictly in order and the
// first definitive classification short-circuits the rest; when none
// classifies definitively the first fetched candidate is the most
// representative answer.
func (r *Resolver) Resolve(ctx context.Context, identifier string, profile *Profile) CheckResult {
	log := logger.ForSite(profile.Name)

	searchPage, err := r.fetcher.Fetch(ctx, profile.SearchURL(identifier))
	if err != nil {
		log.Debug().Str("identifier", identifier).Err(err).Msg("Search fetch failed")
		return errorResult(identifier, profile, err)
	}

	candidates := ExtractCandidates(searchPage.Body, profile, r.maxCandidates)
	if len(candidates) == 0 {
		return r.resultFor(identifier, profile, searchPage, "no PDP link found")
	}

	var (
		first     CheckResult
		haveFirst bool
	)
	for _, candidate := range candidates {
		if profile.DecorateURL != nil {
			candidate = profile.DecorateURL(candidate)
		}
		page, err := r.fetcher.Fetch(ctx, candidate)
		if err != nil {
			log.Debug().Str("identifier", identifier).Str("url", candidate).Err(err).Msg("Candidate fetch failed")
			return errorResult(identifier, profile, err)
		}
		result := r.resultFor(identifier, profile, page, "")
		if result.Status.Definitive() {
			return result
		}
		if !haveFirst {
			first, haveFirst = result, true
		}
	}

	first.Notes = "no definitive candidate; used first PDP"
	return first
}

// resultFor classifies a fetched page and fills in the result record.
func (r *Resolver) resultFor(identifier string, profile *Profile, page *fetch.Result, note string) CheckResult {
	result := CheckResult{
		Query:      identifier,
		Site:       profile.Name,
		Status:     Classify(page.Body),
		URL:        page.FinalURL,
		HTTPStatus: page.StatusCode,
		Notes:      note,
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body)); err == nil {
		result.ProductName = extractTitle(doc, profile)
	}
	return result
}

func errorResult(identifier string, profile *Profile, err error) CheckResult {
	return CheckResult{
		Query:  identifier,
		Site:   profile.Name,
		Status: StatusError,
		Notes:  err.Error(),
	}
}
