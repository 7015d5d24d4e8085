// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the problem-explorer CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/problem-explorer/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the problem-explorer CLI.
var rootCmd = &cobra.Command{
	Use:   "problem-explorer",
	Short: "Explain coding problems from leetcode.com as markdown",
	Long: `problem-explorer fetches a problem from leetcode.com by name, extracts its
description, examples and constraints, and prints a markdown document with
candidate solution approaches.

Without a command it starts the interactive menu loop. Use explain for a
single problem and batch for a list. Fetched problems can be kept in a local
library (library.enabled in the config file) and browsed with the library
command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PreRunE:       bindPipelineFlags,
	RunE:          runInteractive,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.LoadAll(viper.GetString("secrets_dir"), viper.GetString("dotenv"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./problem-explorer.yaml or ~/.config/problem-explorer/problem-explorer.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of API key files")
	rootCmd.PersistentFlags().String("dotenv", ".env", "dotenv file with API keys")

	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	viper.BindPFlag("dotenv", rootCmd.PersistentFlags().Lookup("dotenv"))

	addInteractiveFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("problem-explorer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "problem-explorer"))
		}
	}

	viper.SetEnvPrefix("PROBLEM_EXPLORER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
