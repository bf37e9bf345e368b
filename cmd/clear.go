/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every completed task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *todo.Store) error {
			n, err := s.ClearCompleted()
			if err := warnUnsaved(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cleared %d completed\n", n)
			fmt.Fprintln(out, todo.RemainingLabel(s.RemainingCount()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
