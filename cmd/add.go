/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/todowing/internal/logger"
	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task to the top of the list",
	Long: `Add a new pending task. All arguments are joined with spaces and
surrounding whitespace is trimmed.

Examples:
  todowing add buy milk
  todowing add "write the quarterly report"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	logger.SetLastInput(text)

	return withStore(func(s *todo.Store) error {
		task, err := s.AddTask(text)
		if err := warnUnsaved(cmd.ErrOrStderr(), err); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added [%d]: %s\n", task.ID, task.Text)
		fmt.Fprintln(out, todo.RemainingLabel(s.RemainingCount()))
		return nil
	})
}
