// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the matching problems to <dir>/export.yaml and returns
// the path. It supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the matching problems to <dir>/export.json and returns
// the path. It supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]*types.ProblemRecord, error) {
	opts.MaxResults = exportLimit
	entries, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	records := make([]*types.ProblemRecord, 0, len(entries))
	for _, e := range entries {
		rec, err := s.Get(ctx, e.Slug)
		if err != nil {
			return nil, fmt.Errorf("loading %s for export: %w", e.Slug, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
