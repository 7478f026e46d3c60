package checker

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"bgreer104/skuchecker/internal/fetch"
)

// mockFetcher serves canned pages by URL and records fetch order.
type mockFetcher struct {
	mu      sync.Mutex
	pages   map[string]*fetch.Result
	errs    map[string]error
	fetched []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		pages: make(map[string]*fetch.Result),
		errs:  make(map[string]error),
	}
}

func (m *mockFetcher) addPage(url, body string) {
	m.pages[url] = &fetch.Result{
		FinalURL:   url,
		StatusCode: 200,
		Body:       body,
	}
}

func (m *mockFetcher) addError(url string, err error) {
	m.errs[url] = err
}

func (m *mockFetcher) Fetch(_ context.Context, pageURL string) (*fetch.Result, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, pageURL)
	m.mu.Unlock()

	if err, ok := m.errs[pageURL]; ok {
		return nil, err
	}
	if page, ok := m.pages[pageURL]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("no canned page for %s", pageURL)
}

func (m *mockFetcher) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}

// testProfile returns a profile pointing at a synthetic origin with the
// sort of link pattern the real profiles use.
func testProfile() *Profile {
	return &Profile{
		Name:   "TestMart",
		Origin: "https://shop.example.com",
		SearchURL: func(identifier string) string {
			return "https://shop.example.com/search?q=" + identifier
		},
		LinkPattern: mustPattern(`href="(/p/[^"#]+)"`),
		CleanTitle: func(title string) string {
			return title
		},
	}
}

func mustPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}
