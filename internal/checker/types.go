// Package checker implements the availability classification and PDP
// resolution pipeline: given a SKU and a retailer profile, find the
// most likely product page and decide what it says about availability.
package checker

// Status is the closed set of availability verdicts.
type Status string

const (
	// StatusLive means the product page advertises the item as purchasable.
	StatusLive Status = "Live / Available"
	// StatusNotAvailable means a product page was found but the item
	// cannot be bought (out of stock, discontinued, ...).
	StatusNotAvailable Status = "Found but Not Available"
	// StatusNoResults means no evidence channel yielded a signal.
	StatusNoResults Status = "No Results"
	// StatusError means the check failed at the transport level.
	StatusError Status = "Error"
)

// Definitive reports whether the status is conclusive enough to stop
// trying further candidate pages.
func (s Status) Definitive() bool {
	return s == StatusLive || s == StatusNotAvailable
}

// CheckResult is the single record produced for one (identifier, site)
// check, however many pages were fetched internally.
type CheckResult struct {
	Query       string `json:"query"`
	Site        string `json:"site"`
	Status      Status `json:"status"`
	ProductName string `json:"product_name,omitempty"`
	URL         string `json:"url,omitempty"`
	HTTPStatus  int    `json:"http"`
	Notes       string `json:"notes,omitempty"`
}
