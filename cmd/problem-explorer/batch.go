// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/problem-explorer/internal/explain"
)

const defaultBatchDelay = 2 * time.Second

var batchCmd = &cobra.Command{
	Use:   "batch [problem names...]",
	Short: "Explain several problems and save each to a file",
	Long: `Batch explains every problem named on the command line or in --file and
writes <slug>_explanation.md for each into --out-dir. Problems whose file
already exists are skipped unless --overwrite is set. A failed problem is
reported and the batch continues; the command exits 1 if any failed.

--file takes a YAML file with a "problems" list, or a text file with one
name per line.`,
	PreRunE: bindPipelineFlags,
	RunE:    runBatch,
}

func init() {
	addPipelineFlags(batchCmd)
	batchCmd.Flags().String("file", "", "YAML or text file listing problem names")
	batchCmd.Flags().String("out-dir", ".", "directory for explanation files")
	batchCmd.Flags().Duration("delay", 0, "delay between consecutive fetches (default 2s)")
	batchCmd.Flags().Bool("overwrite", false, "re-fetch problems whose explanation file exists")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	names := args
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		fromFile, err := explain.ReadNameList(file)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("provide problem names as arguments or with --file")
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultBatchDelay
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	p, err := buildPipeline(loadConfig())
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.explainer.ExplainBatch(cmd.Context(), names, explain.BatchOptions{
		OutDir:    outDir,
		Delay:     delay,
		Overwrite: overwrite,
	}, os.Stderr)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d problem(s) failed", result.Failed)
	}
	return nil
}
