// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gnpslink/internal/feature"
	"github.com/pdiddy/gnpslink/internal/gnps"
	"github.com/pdiddy/gnpslink/pkg/types"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <features.tsv>",
	Short: "Attach best-match labels to a feature table",
	Long: `Annotate emits one label per feature: the LibraryID of the closest
matching annotation, or "no match" when nothing falls inside the tolerance
windows. The default output is a tab-separated table a display layer can
join back onto the feature table.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
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

	annotated := matcher.AnnotateTable(features)

	format, _ := cmd.Flags().GetString("format")
	return formatAnnotated(annotated, format)
}

func formatAnnotated(annotated []types.AnnotatedFeature, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(annotated)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(annotated)
	case "tsv", "":
		fmt.Fprintln(os.Stdout, "id\tlabel\tcluster_id")
		for _, af := range annotated {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", af.Feature.ID, af.Label, af.ClusterID)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use tsv, json, or yaml", format)
	}
}

func init() {
	annotateCmd.Flags().String("annotations", "", "cluster summary TSV to match against")
	annotateCmd.Flags().String("task", "", "cached GNPS task id to match against")
	annotateCmd.Flags().String("format", "tsv", "output format: tsv, json, or yaml")

	rootCmd.AddCommand(annotateCmd)
}
