/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/spf13/cobra"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"done"},
	Short:   "Mark a task done, or not done again",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		return withStore(func(s *todo.Store) error {
			task, err := s.ToggleTask(id)
			if err := warnUnsaved(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			state := "Reopened"
			if task.Completed {
				state = "Completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%d]: %s\n", state, task.ID, task.Text)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}
