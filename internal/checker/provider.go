package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bgreer104/skuchecker/logger"
	"bgreer104/skuchecker/pkg/errors"
)

// ProviderClient resolves checks through a third-party structured-data
// search API instead of fetching retailer pages directly. The provider
// returns candidate records with the same availability vocabulary the
// page classifier uses, so records are mapped through mapAvailabilityToken
// rather than a second classifier.
type ProviderClient struct {
	endpoint string
	apiKey   string
	sites    map[string]bool
	client   *http.Client
	log      *logger.Logger
}

// providerRecord is one candidate product in a provider response.
type providerRecord struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
}

type providerResponse struct {
	Results []providerRecord `json:"results"`
}

// NewProviderClient creates a provider client for the given sites.
// Returns nil when the endpoint or API key is missing, which disables
// provider mode entirely.
func NewProviderClient(endpoint, apiKey string, sites []string, timeout time.Duration) *ProviderClient {
	if endpoint == "" || apiKey == "" || len(sites) == 0 {
		return nil
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	siteSet := make(map[string]bool, len(sites))
	for _, site := range sites {
		siteSet[site] = true
	}

	return &ProviderClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		sites:    siteSet,
		client:   &http.Client{Timeout: timeout},
		log:      logger.ForProvider(),
	}
}

// Supports reports whether resolution for site is delegated to the
// provider.
func (p *ProviderClient) Supports(site string) bool {
	return p != nil && p.sites[site]
}

// Resolve queries the provider and maps its best record to a
// CheckResult. Provider failures become StatusError results, matching
// the direct resolver's contract.
func (p *ProviderClient) Resolve(ctx context.Context, identifier string, profile *Profile) CheckResult {
	result := CheckResult{Query: identifier, Site: profile.Name}

	records, statusCode, err := p.search(ctx, identifier, profile.Name)
	result.HTTPStatus = statusCode
	if err != nil {
		p.log.Debug().Str("identifier", identifier).Err(err).Msg("Provider search failed")
		result.Status = StatusError
		result.Notes = err.Error()
		return result
	}
	if len(records) == 0 {
		result.Status = StatusNoResults
		result.Notes = "provider returned no records"
		return result
	}

	record := records[0]
	result.URL = record.Link
	if record.Title != "" && profile.CleanTitle != nil {
		result.ProductName = profile.CleanTitle(record.Title)
	} else {
		result.ProductName = record.Title
	}

	// Same precedence as the page classifier: an explicit availability
	// token wins; failing that a present price is presumptive stock.
	if status, ok := mapAvailabilityToken(record.Availability); ok {
		result.Status = status
		return result
	}
	if record.Price != "" {
		result.Status = StatusLive
		return result
	}
	result.Status = StatusNoResults
	return result
}

func (p *ProviderClient) search(ctx context.Context, identifier, site string) ([]providerRecord, int, error) {
	query := url.Values{}
	query.Set("site", site)
	query.Set("q", identifier)
	query.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, errors.NewProvider(site, "create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, errors.NewProvider(site, "provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, errors.NewProvider(site,
			fmt.Sprintf("provider status code %d", resp.StatusCode), nil)
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, resp.StatusCode, errors.NewProvider(site, "decode provider response", err)
	}
	return parsed.Results, resp.StatusCode, nil
}
