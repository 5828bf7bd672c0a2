// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ssrn-daily CLI.
// The pipeline stages are subcommands: crawl collects a day's approved
// papers, check merges and deduplicates the day's store for the outer
// scheduler, summarize fills the research-content schema per paper.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssrn-daily/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the ssrn-daily CLI.
var rootCmd = &cobra.Command{
	Use:   "ssrn-daily",
	Short: "Daily SSRN paper collection, deduplication, and summarization",
	Long: `ssrn-daily fetches newly approved papers from the SSRN API for a target
date, stores them as a newline-delimited JSON daily store, merges
multi-category duplicates, removes papers already seen within the rolling
history window, and summarizes the survivors into a fixed research-content
schema.

The check subcommand signals the outer workflow scheduler through its exit
code: 0 new content, 1 nothing to do, 2 processing error.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ssrn-daily.yaml or ~/.config/ssrn-daily/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ssrn-daily")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ssrn-daily"))
		}
	}

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("summaries_dir", "summaries")
	viper.SetDefault("history_days", 7)

	viper.SetEnvPrefix("SSRN_DAILY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: an explicitly set flag wins,
// then the viper config value, then the flag's default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

// intSetting resolves an int option the same way.
func intSetting(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
