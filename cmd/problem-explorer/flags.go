// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// pipelineFlags maps viper keys to the flags shared by explain and
// interactive.
var pipelineFlags = map[string]string{
	"fetch.source":          "source",
	"fetch.base_url":        "base-url",
	"fetch.timeout":         "timeout",
	"solutions.provider":    "provider",
	"solutions.model":       "model",
	"solutions.max_retries": "ai-retries",
	"solutions.catalog":     "catalog",
	"library.enabled":       "library",
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "fetch source: page or graphql (default page)")
	cmd.Flags().String("base-url", "", "problem site root (default https://leetcode.com)")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	cmd.Flags().Bool("ai", false, "add an AI-written approach (provider from --provider or config, default openai)")
	cmd.Flags().String("provider", "", "AI provider for the written approach: openai or gemini")
	cmd.Flags().String("model", "", "AI model identifier (default gpt-3.5-turbo / gemini-1.5-flash)")
	cmd.Flags().Int("ai-retries", 0, "retry attempts for failed AI calls (default 2)")
	cmd.Flags().String("catalog", "", "YAML file replacing the built-in approach catalog")
	cmd.Flags().Bool("library", false, "store fetched problems in the local library")
}

// bindPipelineFlags binds cmd's pipeline flags to their viper keys. Flags
// left unset fall through to the config file and environment.
func bindPipelineFlags(cmd *cobra.Command, _ []string) error {
	for key, name := range pipelineFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	applyAIFlag(cmd)
	return nil
}

// applyAIFlag resolves --ai into solutions.provider. --ai keeps a provider
// chosen by --provider or the config and picks openai otherwise; --ai=false
// turns generation off.
func applyAIFlag(cmd *cobra.Command) {
	f := cmd.Flags().Lookup("ai")
	if f == nil || !f.Changed {
		return
	}
	on, _ := cmd.Flags().GetBool("ai")
	switch {
	case !on:
		viper.Set("solutions.provider", "")
	case viper.GetString("solutions.provider") == "":
		viper.Set("solutions.provider", string(types.ProviderOpenAI))
	}
}
