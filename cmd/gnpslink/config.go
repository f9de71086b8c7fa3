// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gnpslink/internal/gnps"
	"github.com/pdiddy/gnpslink/internal/store"
	"github.com/pdiddy/gnpslink/pkg/types"
)

// matcherConfig resolves tolerance windows with flag > config file > default
// precedence.
func matcherConfig(cmd *cobra.Command) types.MatcherConfig {
	cfg := types.DefaultMatcherConfig()

	if viper.IsSet("matcher.mz_tolerance") {
		cfg.MzTolerance = viper.GetFloat64("matcher.mz_tolerance")
	}
	if viper.IsSet("matcher.rt_tolerance") {
		cfg.RTTolerance = viper.GetFloat64("matcher.rt_tolerance")
	}

	if cmd.Flags().Changed("mz-tol") {
		cfg.MzTolerance, _ = cmd.Flags().GetFloat64("mz-tol")
	}
	if cmd.Flags().Changed("rt-tol") {
		cfg.RTTolerance, _ = cmd.Flags().GetFloat64("rt-tol")
	}
	return cfg
}

func fetchConfig() types.FetchConfig {
	var cfg types.FetchConfig
	cfg.BaseURL = viper.GetString("fetch.base_url")
	cfg.ResultView = viper.GetString("fetch.result_view")
	cfg.UserAgent = viper.GetString("fetch.user_agent")
	cfg.Timeout = viper.GetDuration("fetch.timeout")
	cfg.MaxRetries = viper.GetInt("fetch.max_retries")
	return cfg
}

func cacheConfig(cmd *cobra.Command) types.CacheConfig {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if !cmd.Flags().Changed("cache-dir") && viper.IsSet("cache.cache_dir") {
		cacheDir = viper.GetString("cache.cache_dir")
	}
	return types.CacheConfig{CacheDir: cacheDir}
}

// loadAnnotations resolves the annotation source for match and annotate:
// --annotations reads a local cluster summary TSV, --task reads the cache.
func loadAnnotations(cmd *cobra.Command) ([]types.Annotation, string, error) {
	annFile, _ := cmd.Flags().GetString("annotations")
	taskID, _ := cmd.Flags().GetString("task")

	switch {
	case annFile != "" && taskID != "":
		return nil, "", fmt.Errorf("--annotations and --task are mutually exclusive")
	case annFile != "":
		anns, _, err := gnps.LoadAnnotationsFile(annFile, os.Stderr)
		return anns, "", err
	case taskID != "":
		s, err := store.Open(cacheConfig(cmd))
		if err != nil {
			return nil, "", err
		}
		defer s.Close()

		table, err := s.Annotations(context.Background(), taskID)
		if err != nil {
			return nil, "", fmt.Errorf("%v (run 'gnpslink fetch %s' first)", err, taskID)
		}
		return table.Annotations, taskID, nil
	default:
		return nil, "", fmt.Errorf("annotation source required: provide --annotations or --task")
	}
}
