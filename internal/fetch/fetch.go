// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves problem content from the problem-hosting site.
// A Fetcher turns a slug into a raw Page; it does not interpret the content.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/problem-explorer/internal/httputil"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

const (
	// DefaultBaseURL is the problem site root.
	DefaultBaseURL = "https://leetcode.com"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent mimics a desktop browser; the site rejects obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// maxBodySize caps the response size (10 MiB).
	maxBodySize = 10 << 20
)

// Fetcher retrieves the raw content for one problem.
type Fetcher interface {
	// Name identifies the fetcher ("page" or "graphql").
	Name() string

	// Fetch returns the raw page for slug. It fails with types.ErrNotFound
	// when the site has no such problem and types.ErrNetwork on connection,
	// timeout, or unexpected-status failures.
	Fetch(ctx context.Context, slug string) (*types.Page, error)
}

// New builds the Fetcher selected by cfg.Source, applying defaults for
// unset fields. Backoff notices go to log.
func New(cfg types.FetchConfig, log io.Writer) (Fetcher, error) {
	cfg = WithDefaults(cfg)
	client := &httputil.Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		MaxRetries: cfg.MaxRetries,
		Log:        log,
	}

	switch cfg.Source {
	case types.SourcePage:
		return &PageFetcher{Client: client, BaseURL: cfg.BaseURL, UserAgent: cfg.UserAgent}, nil
	case types.SourceGraphQL:
		return &GraphQLFetcher{Client: client, BaseURL: cfg.BaseURL, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unsupported fetch source %q: use page or graphql", cfg.Source)
	}
}

// WithDefaults fills unset fields of cfg.
func WithDefaults(cfg types.FetchConfig) types.FetchConfig {
	if cfg.Source == "" {
		cfg.Source = types.SourcePage
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return cfg
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	spaceRun     = regexp.MustCompile(`[\s_]+`)
	invalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	dashRun      = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a problem name to the site's URL-path form:
// "Valid Sudoku" becomes "valid-sudoku". A name that is already a slug is
// returned unchanged.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRun.ReplaceAllString(s, "-")
	s = invalidChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateSlug reports whether slug follows the site's URL-path convention.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: empty", types.ErrInvalidSlug)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: %q", types.ErrInvalidSlug, slug)
	}
	return nil
}

// networkError wraps a transport failure as types.ErrNetwork, keeping the
// cause (including context errors) reachable through errors.Is.
func networkError(url string, err error) error {
	return fmt.Errorf("requesting %s: %w: %w", url, types.ErrNetwork, err)
}

// statusError classifies a non-200 response.
func statusError(url string, status int) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s returned HTTP 404", types.ErrNotFound, url)
	}
	return fmt.Errorf("%w: %s returned HTTP %d", types.ErrNetwork, url, status)
}
