/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"slices"

	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/josephgoksu/todowing/internal/ui"
	"github.com/josephgoksu/todowing/models"
	"github.com/spf13/cobra"
)

var (
	listFilter string
	listJSON   bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tasks, newest first",
	Long: `Show the tasks matching a filter, newest first, followed by the number
of tasks left to do.

Examples:
  todowing list
  todowing list --filter active
  todowing list --filter completed --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFilter, "filter", "f", string(models.FilterAll), "which tasks to show: all, active or completed")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print tasks as JSON")
}

func runList(cmd *cobra.Command, _ []string) error {
	filter, err := models.ParseFilter(listFilter)
	if err != nil {
		return err
	}

	return withStore(func(s *todo.Store) error {
		if err := s.SetFilter(filter); err != nil {
			return err
		}
		tasks := slices.Collect(s.VisibleTasks())
		out := cmd.OutOrStdout()

		if listJSON {
			if tasks == nil {
				tasks = []models.Task{}
			}
			return printJSON(out, tasks)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, todo.EmptyMessage(filter))
		} else {
			fmt.Fprint(out, ui.TaskTable(tasks, 60).Render())
		}
		fmt.Fprintln(out, todo.RemainingLabel(s.RemainingCount()))
		return nil
	})
}
