package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds the backoff attempts on HTTP 429 (0 = default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchSource selects how a problem is retrieved from the site.
type FetchSource string

const (
	// SourcePage issues a GET for the public problem page.
	SourcePage FetchSource = "page"

	// SourceGraphQL posts a question query to the site's GraphQL endpoint.
	SourceGraphQL FetchSource = "graphql"
)

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Source selects the fetcher: page or graphql.
	Source FetchSource `json:"source" yaml:"source"`

	// BaseURL is the site root (default "https://leetcode.com").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// AIProvider identifies the Generative AI API used for the optional
// generated approach.
type AIProvider string

const (
	ProviderNone   AIProvider = ""
	ProviderOpenAI AIProvider = "openai"
	ProviderGemini AIProvider = "gemini"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the backend: openai or gemini. Empty disables generation.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SolutionConfig holds settings for assembling solution approaches.
type SolutionConfig struct {
	AIConfig `yaml:",inline"`

	// CatalogPath replaces the built-in approach catalog when set.
	CatalogPath string `json:"catalog" yaml:"catalog"`
}

// LibraryConfig holds settings for the local problem library.
type LibraryConfig struct {
	// Enabled stores every fetched problem in the library database.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the database and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Fetch     FetchConfig    `json:"fetch" yaml:"fetch"`
	Solutions SolutionConfig `json:"solutions" yaml:"solutions"`
	Library   LibraryConfig  `json:"library" yaml:"library"`
}
