// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the highlights-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/highlights-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds contact identities loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the highlights-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "highlights-engine",
	Short: "Convert Kindle clippings into per-book Markdown notes",
	Long: `highlights-engine turns a Kindle "My Clippings.txt" export into one
Markdown document per book, ready for note-taking tools.

The convert subcommand performs the conversion; library maintains a local
searchable index over parsed highlights (store, retrieve, export).`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./highlights-engine.yaml or ~/.config/highlights-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("highlights-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "highlights-engine"))
		}
	}

	viper.SetEnvPrefix("HIGHLIGHTS_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("output_dir", "Kindle_Markdown_Notes")
	viper.SetDefault("library_dir", "library")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: an explicitly set flag wins,
// otherwise the viper config key (which carries the default).
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
