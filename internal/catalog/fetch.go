// internal/catalog/fetch.go
//
// Remote catalog fetch. One GET per language against
// <baseURL>/categories_<lang>.json; the response body is handed to Parse.
// Failures are wrapped and returned to the caller; no retries here, the
// retry policy belongs to whoever drives the load.

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFetchTimeout bounds a single catalog request when the Fetcher is
// constructed without an explicit client.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves per-language catalogs from a remote document root.
// A Fetcher with an empty BaseURL serves the embedded defaults, so the
// server keeps working without network configuration.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher builds a Fetcher with the default timeout-bounded client.
func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// URL returns the document URL for a language.
func (f *Fetcher) URL(lang Language) string {
	return fmt.Sprintf("%s/categories_%s.json", f.BaseURL, lang.Code())
}

// Fetch loads the ordered category list for a language.
func (f *Fetcher) Fetch(ctx context.Context, lang Language) ([]Category, error) {
	if f.BaseURL == "" {
		return Embedded(lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(lang), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", lang.Code(), err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: HTTP %d", lang.Code(), res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", lang.Code(), err)
	}

	cats := Parse(string(body))
	if len(cats) == 0 {
		return nil, fmt.Errorf("catalog: %s document contained no categories", lang.Code())
	}
	return cats, nil
}
