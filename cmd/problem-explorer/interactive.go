// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/problem-explorer/internal/explain"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Search for problems in a menu loop",
	Long: `Interactive shows a menu to search for problems one after another. Each
explanation is printed and can be saved to <slug>_explanation.md. Errors are
reported and the loop continues until you choose exit.

Running problem-explorer without a command does the same.`,
	PreRunE: bindPipelineFlags,
	RunE:    runInteractive,
}

func init() {
	addInteractiveFlags(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}

// addInteractiveFlags registers the menu loop's flags. The root command
// carries them too since it runs the loop when no command is given.
func addInteractiveFlags(cmd *cobra.Command) {
	addPipelineFlags(cmd)
	cmd.Flags().String("out-dir", ".", "directory for saved explanations")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(loadConfig())
	if err != nil {
		return err
	}
	defer p.Close()

	outDir, _ := cmd.Flags().GetString("out-dir")
	s := &explain.Session{
		Explainer: p.explainer,
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		SaveDir:   outDir,
	}
	return s.Run(cmd.Context())
}
