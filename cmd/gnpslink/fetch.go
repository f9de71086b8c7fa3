// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gnpslink/internal/fetch"
	"github.com/pdiddy/gnpslink/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <task-id>",
	Short: "Download a GNPS task's cluster summary into the local cache",
	Long: `Fetch downloads the cluster summary table for a GNPS task from the
ProteoSAFe result endpoint, parses it, and stores it in the local SQLite
cache. A task that is already cached is skipped unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	force, _ := cmd.Flags().GetBool("force")
	ctx := context.Background()

	if err := fetch.ValidateTaskID(taskID); err != nil {
		return err
	}

	s, err := store.Open(cacheConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	if !force {
		cached, err := s.Has(ctx, taskID)
		if err != nil {
			return err
		}
		if cached {
			fmt.Printf("task %s already cached (use --force to re-fetch)\n", taskID)
			return nil
		}
	}

	client := fetch.NewClient(fetchConfig())
	table, err := client.FetchTask(ctx, taskID, os.Stderr)
	if err != nil {
		return err
	}

	if err := s.Put(ctx, table); err != nil {
		return err
	}

	fmt.Printf("cached %d annotations for task %s\n", len(table.Annotations), taskID)
	return nil
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List cached GNPS tasks",
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cacheConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.Tasks(context.Background())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No cached tasks.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-34s  %-6s  %s\n", "Task", "Rows", "Fetched")
	for _, t := range tasks {
		fmt.Fprintf(os.Stdout, "%-34s  %-6d  %s\n",
			t.TaskID, t.Rows, t.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func init() {
	fetchCmd.Flags().Bool("force", false, "re-fetch even if the task is already cached")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(tasksCmd)
}
