// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/problem-explorer/internal/httputil"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

// PageFetcher downloads the public problem page with a single GET.
type PageFetcher struct {
	Client    *httputil.Client
	BaseURL   string
	UserAgent string
}

// Name returns the fetcher identifier.
func (f *PageFetcher) Name() string { return string(types.SourcePage) }

// URL returns the problem page address for slug.
func (f *PageFetcher) URL(slug string) string {
	return f.BaseURL + "/problems/" + slug + "/"
}

// Fetch issues a GET for the problem page and returns its HTML.
func (f *PageFetcher) Fetch(ctx context.Context, slug string) (*types.Page, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	pageURL := f.URL(slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.Client.Do(ctx, req)
	if err != nil {
		return nil, networkError(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(pageURL, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp, maxBodySize)
	if err != nil {
		return nil, networkError(pageURL, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty body", types.ErrNetwork, pageURL)
	}

	return &types.Page{
		Slug:   slug,
		URL:    pageURL,
		Source: f.Name(),
		Body:   string(body),
	}, nil
}
