package cmd

import (
	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/josephgoksu/todowing/internal/ui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	return withStore(func(s *todo.Store) error {
		return ui.RunTodo(s)
	})
}
