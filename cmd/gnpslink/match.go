// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gnpslink/internal/feature"
	"github.com/pdiddy/gnpslink/internal/gnps"
	"github.com/pdiddy/gnpslink/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match <features.tsv>",
	Short: "Join a feature table against GNPS annotations",
	Long: `Match reads an MS1 feature table and reports, per feature, every
annotation whose parent mass and retention time fall inside the tolerance
windows. Matches are ordered by ascending mass difference.

Annotations come from a local cluster summary file (--annotations) or from
a previously fetched task in the cache (--task).`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	features, err := feature.LoadTableFile(args[0], os.Stderr)
	if err != nil {
		return err
	}

	anns, _, err := loadAnnotations(cmd)
	if err != nil {
		return err
	}

	matcher, err := gnps.NewMatcher(matcherConfig(cmd))
	if err != nil {
		return err
	}
	matcher.Load(anns)

	var all []types.Match
	for _, f := range features {
		all = append(all, matcher.FindMatches(f)...)
	}

	format, _ := cmd.Flags().GetString("format")
	if err := formatMatches(all, format); err != nil {
		return err
	}

	if withStats, _ := cmd.Flags().GetBool("stats"); withStats {
		printStats(matcher.Stats(features))
	}
	return nil
}

func formatMatches(matches []types.Match, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(matches)
	case "table", "":
		// fallthrough to the table below
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-8s  %-8s  %-9s  %-8s  %s\n",
		"Feature", "MZ", "RT", "Cluster", "ΔMZ", "ΔRT", "Library")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, m := range matches {
		library := m.Annotation.Library
		if len(library) > 30 {
			library = library[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-10.4f  %-8.1f  %-8s  %+-9.4f  %+-8.1f  %s\n",
			m.Feature.ID, m.Feature.MZ, m.Feature.RT,
			m.Annotation.ClusterID, m.DeltaMZ, m.DeltaRT, library)
	}

	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(matches))
	return nil
}

func printStats(s gnps.MatchStats) {
	fmt.Fprintf(os.Stdout, "\nfeatures: %d  matched: %d  unmatched: %d\n",
		s.Features, s.Matched, s.Unmatched)
	if s.Matched == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "mass error (ppm):  mean %+.2f  stddev %.2f  median %+.2f\n",
		s.MeanPPM, s.StdDevPPM, s.MedianPPM)
	fmt.Fprintf(os.Stdout, "rt error:          mean %+.2f  median %+.2f\n",
		s.MeanDeltaRT, s.MedianDeltaRT)
}

func init() {
	matchCmd.Flags().String("annotations", "", "cluster summary TSV to match against")
	matchCmd.Flags().String("task", "", "cached GNPS task id to match against")
	matchCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	matchCmd.Flags().Bool("stats", false, "append a best-match error summary")

	rootCmd.AddCommand(matchCmd)
}
