// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lindex CLI, which computes the
// L-index citation metric for individual researchers from OpenAlex data.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lindex/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the lindex CLI.
var rootCmd = &cobra.Command{
	Use:   "lindex",
	Short: "Compute the L-index citation metric for researchers",
	Long: `lindex computes the L-index, a citation-based, author- and age-normalized,
logarithmic metric for evaluating individual researchers independently of
their publication counts (Belikov & Belikov, F1000Research 2015, 4:884).

Publication data comes from the OpenAlex API. Authors can be given by name
(matched against search results) or directly by their OpenAlex author ID,
which is recommended for common names.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lindex.yaml or ~/.config/lindex/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lindex"))
		}
	}

	viper.SetEnvPrefix("LINDEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
