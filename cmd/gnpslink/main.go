// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gnpslink CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gnpslink/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gnpslink CLI.
var rootCmd = &cobra.Command{
	Use:   "gnpslink",
	Short: "Link MS1 feature tables to GNPS annotations",
	Long: `gnpslink joins MS1 metabolomics feature tables to annotation records
from the GNPS database, matching features by m/z and retention-time windows.

Each stage is a subcommand: fetch downloads a task's cluster summary into a
local cache, match joins a feature table against annotations, annotate emits
per-feature labels for a display layer, and link resolves ProteoSAFe URLs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gnpslink.yaml or ~/.config/gnpslink/config.yaml)")
	rootCmd.PersistentFlags().Float64("mz-tol", types.DefaultMzTolerance, "m/z tolerance window")
	rootCmd.PersistentFlags().Float64("rt-tol", types.DefaultRTTolerance, "retention-time tolerance window")
	rootCmd.PersistentFlags().String("cache-dir", "cache", "directory for the annotation cache database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gnpslink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gnpslink"))
		}
	}

	viper.SetEnvPrefix("GNPSLINK")
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
