// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/problem-explorer/internal/explain"
	"github.com/pdiddy/problem-explorer/internal/format"
)

var explainCmd = &cobra.Command{
	Use:   "explain [problem name...]",
	Short: "Fetch a problem and print its markdown explanation",
	Long: `Explain fetches one problem by name ("valid sudoku" or "valid-sudoku"),
extracts its description, examples and constraints, and prints a markdown
explanation with solution approaches to stdout. Without an argument it asks
for the name on stdin.

Progress and errors go to stderr; a failure exits with status 1.`,
	PreRunE: bindPipelineFlags,
	RunE:    runExplain,
}

func init() {
	addPipelineFlags(explainCmd)
	explainCmd.Flags().Bool("save", false, "also write <slug>_explanation.md")
	explainCmd.Flags().String("out-dir", ".", "directory for --save")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		var err error
		name, err = explain.PromptName(cmd.InOrStdin(), os.Stderr)
		if err != nil {
			return err
		}
	}

	p, err := buildPipeline(loadConfig())
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.explainer.Explain(cmd.Context(), name)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), res.Markdown)

	if save, _ := cmd.Flags().GetBool("save"); save {
		outDir, _ := cmd.Flags().GetString("out-dir")
		if _, err := format.Save(outDir, res.Record.Slug, res.Markdown, os.Stderr); err != nil {
			return err
		}
	}
	return nil
}
