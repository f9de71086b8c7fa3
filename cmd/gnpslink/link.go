// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gnpslink/internal/gnps"
	"github.com/pdiddy/gnpslink/internal/store"
)

var linkCmd = &cobra.Command{
	Use:   "link <cluster-id>",
	Short: "Print the ProteoSAFe URL for an annotation cluster",
	Long: `Link resolves the web page for a GNPS cluster. When the cached table
for --task carries a ProteoSAFeClusterLink column that link is printed;
otherwise the cluster-details URL is built from the task and cluster ids.
The URL is printed, not opened; dispatch belongs to the host UI.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	clusterID := args[0]
	taskID, _ := cmd.Flags().GetString("task")
	if taskID == "" {
		return fmt.Errorf("--task is required to resolve a cluster link")
	}
	baseURL := viper.GetString("fetch.base_url")

	s, err := store.Open(cacheConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	table, err := s.Annotations(context.Background(), taskID)
	if err != nil {
		// Not cached: the URL is still constructible from the ids.
		fmt.Println(gnps.ClusterLink(baseURL, taskID, clusterID))
		return nil
	}

	matcher, err := gnps.NewMatcher(matcherConfig(cmd))
	if err != nil {
		return err
	}
	matcher.Load(table.Annotations)

	ann, ok := matcher.LookupID(clusterID)
	if !ok {
		return fmt.Errorf("cluster %s not found in task %s", clusterID, taskID)
	}
	fmt.Println(gnps.Link(ann, baseURL, taskID))
	return nil
}

func init() {
	linkCmd.Flags().String("task", "", "GNPS task id the cluster belongs to")

	rootCmd.AddCommand(linkCmd)
}
