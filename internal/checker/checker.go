package checker

import (
	"context"

	"bgreer104/skuchecker/internal/fetch"
	"bgreer104/skuchecker/internal/metrics"
)

// Checker is the public entry point: one Check call yields exactly one
// CheckResult. Depending on configuration a site is resolved directly
// (search + PDP classification) or through a structured-data provider.
type Checker struct {
	resolver *Resolver
	provider *ProviderClient
	metrics  *metrics.Metrics
}

// NewChecker builds a checker over its own fetcher. provider and m may
// be nil.
func NewChecker(fetcher fetch.Fetcher, maxCandidates int, provider *ProviderClient, m *metrics.Metrics) *Checker {
	return &Checker{
		resolver: NewResolver(fetcher, maxCandidates),
		provider: provider,
		metrics:  m,
	}
}

// Check looks up the retailer profile and resolves identifier against
// it. Unknown retailers and transport failures come back as error
// results, never as a propagated error.
func (c *Checker) Check(ctx context.Context, identifier, site string) CheckResult {
	profile, err := Lookup(site)
	if err != nil {
		result := CheckResult{
			Query:  identifier,
			Site:   site,
			Status: StatusError,
			Notes:  err.Error(),
		}
		c.metrics.IncCheck(site, string(StatusError))
		return result
	}

	var result CheckResult
	if c.provider != nil && c.provider.Supports(profile.Name) {
		result = c.provider.Resolve(ctx, identifier, profile)
	} else {
		result = c.resolver.Resolve(ctx, identifier, profile)
	}

	c.metrics.IncCheck(profile.Name, string(result.Status))
	return result
}
