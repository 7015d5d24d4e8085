// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/problem-explorer/internal/explain"
	"github.com/pdiddy/problem-explorer/internal/fetch"
	"github.com/pdiddy/problem-explorer/internal/library"
	"github.com/pdiddy/problem-explorer/internal/secrets"
	"github.com/pdiddy/problem-explorer/internal/solution"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

const defaultMaxResults = 20

func setDefaults() {
	viper.SetDefault("fetch.source", string(types.SourcePage))
	viper.SetDefault("fetch.base_url", fetch.DefaultBaseURL)
	viper.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	viper.SetDefault("library.max_results", defaultMaxResults)
}

// loadConfig assembles the run configuration from the config file,
// PROBLEM_EXPLORER_* environment variables and bound flags. The AI key
// falls back to the loaded secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("fetch.timeout"),
				UserAgent:  viper.GetString("fetch.user_agent"),
				MaxRetries: viper.GetInt("fetch.max_retries"),
			},
			Source:  types.FetchSource(viper.GetString("fetch.source")),
			BaseURL: viper.GetString("fetch.base_url"),
		},
		Solutions: types.SolutionConfig{
			AIConfig: types.AIConfig{
				Provider:   types.AIProvider(viper.GetString("solutions.provider")),
				Model:      viper.GetString("solutions.model"),
				APIKey:     viper.GetString("solutions.api_key"),
				MaxRetries: viper.GetInt("solutions.max_retries"),
			},
			CatalogPath: viper.GetString("solutions.catalog"),
		},
		Library: types.LibraryConfig{
			Enabled:    viper.GetBool("library.enabled"),
			Dir:        viper.GetString("library.dir"),
			MaxResults: viper.GetInt("library.max_results"),
		},
	}

	if cfg.Solutions.APIKey == "" {
		cfg.Solutions.APIKey = secrets.Lookup(loadedSecrets, secrets.KeyFor(cfg.Solutions.Provider))
	}
	if cfg.Library.Dir == "" {
		cfg.Library.Dir = defaultLibraryDir()
	}
	return cfg
}

// defaultLibraryDir is ~/.config/problem-explorer/library, or ./library when
// the home directory is unknown.
func defaultLibraryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "library"
	}
	return filepath.Join(home, ".config", "problem-explorer", "library")
}

// pipeline holds the stages built from the configuration.
type pipeline struct {
	explainer *explain.Explainer
	store     *library.Store
}

// Close releases the library database when one is open.
func (p *pipeline) Close() {
	if p.store != nil {
		p.store.Close()
	}
}

// buildPipeline wires fetcher, solution assembler and (optionally) the
// library from cfg. Progress goes to stderr.
func buildPipeline(cfg types.Config) (*pipeline, error) {
	f, err := fetch.New(cfg.Fetch, os.Stderr)
	if err != nil {
		return nil, err
	}

	catalog, err := solution.LoadCatalog(cfg.Solutions.CatalogPath)
	if err != nil {
		return nil, err
	}

	gen, err := solution.NewGenerator(cfg.Solutions.AIConfig, &http.Client{Timeout: fetch.DefaultTimeout * 4})
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		explainer: &explain.Explainer{
			Fetcher: f,
			Approacher: &solution.Assembler{
				Catalog:    catalog,
				Generator:  gen,
				MaxRetries: cfg.Solutions.MaxRetries,
				Log:        os.Stderr,
			},
			Log: os.Stderr,
		},
	}

	if cfg.Library.Enabled {
		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return nil, fmt.Errorf("opening library: %w", err)
		}
		p.store = store
		p.explainer.Recorder = store
	}

	return p, nil
}
